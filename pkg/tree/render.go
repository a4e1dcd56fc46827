package tree

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the tree as indented text, one line per branch.
func (t *Tree) Render(w io.Writer) error {
	return t.render(w, t.Root, 0)
}

func (t *Tree) render(w io.Writer, id NodeID, indent int) error {
	n := t.Node(id)
	target := t.Schema.TargetAttribute()
	if n.Leaf {
		_, err := fmt.Fprintf(w, "%s-> %s\n", strings.Repeat("  ", indent), target.Label(float64(n.Label)))
		return err
	}

	attribute := t.Schema.Attribute(n.Attribute)
	for value := 0; value < attribute.Domain.Size(); value++ {
		child, ok := n.Branches[value]
		if !ok {
			continue
		}
		var condition string
		switch {
		case !n.Continuous:
			condition = fmt.Sprintf("%s=%s", attribute.Name, attribute.Label(float64(value)))
		case value == 0:
			condition = fmt.Sprintf("%s<=%g", attribute.Name, n.Threshold)
		default:
			condition = fmt.Sprintf("%s>%g", attribute.Name, n.Threshold)
		}

		c := t.Node(child)
		if c.Leaf {
			if _, err := fmt.Fprintf(w, "%s%s -> %s\n", strings.Repeat("  ", indent), condition, target.Label(float64(c.Label))); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", indent), condition); err != nil {
			return err
		}
		if err := t.render(w, child, indent+1); err != nil {
			return err
		}
	}
	return nil
}
