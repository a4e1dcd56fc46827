package tree

import (
	"errors"

	"github.com/rs/zerolog/log"

	"id3/pkg/model"
)

// DefaultMaxContinuousUses bounds how many times a continuous attribute may be split
// on within one tree. Unbounded reuse can recurse without end on some datasets.
const DefaultMaxContinuousUses = 15

var ErrEmptyTrainingSet = errors.New("no training rows")

type Option func(*Builder)

func MaxContinuousUses(n int) Option {
	return func(b *Builder) {
		b.maxContinuousUses = n
	}
}

// Builder grows one tree per Build call. The continuous use counters live in the
// builder and are reset by every Build, so trees built one after another do not
// interfere. A Builder must not be used by concurrent Build calls.
type Builder struct {
	schema            *model.Schema
	target            *model.Attribute
	maxContinuousUses int

	uses  []int
	nodes []Node
}

func NewBuilder(schema *model.Schema, opts ...Option) *Builder {
	b := &Builder{
		schema:            schema,
		target:            schema.TargetAttribute(),
		maxContinuousUses: DefaultMaxContinuousUses,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build grows a tree from rows using every feature of the schema as a candidate.
func Build(schema *model.Schema, rows []model.Row, opts ...Option) (*Tree, error) {
	return NewBuilder(schema, opts...).Build(rows, schema.Features)
}

// Build grows a tree from rows considering only the given candidate attributes.
func (b *Builder) Build(rows []model.Row, candidates []model.AttributeID) (*Tree, error) {
	if err := b.schema.Validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	b.uses = make([]int, b.schema.Width())
	b.nodes = nil

	root := b.build(rows, candidates, 0)
	t := &Tree{Schema: b.schema, Nodes: b.nodes, Root: root}
	b.nodes = nil
	return t, nil
}

// Uses returns how many times attribute was used as a continuous split by the last Build.
func (b *Builder) Uses(attribute model.AttributeID) int {
	if int(attribute) >= len(b.uses) {
		return 0
	}
	return b.uses[attribute]
}

func (b *Builder) newNode(n Node) NodeID {
	b.nodes = append(b.nodes, n)
	return NodeID(len(b.nodes) - 1)
}

func (b *Builder) newLeaf(label, depth, rows int) NodeID {
	return b.newNode(Node{Leaf: true, Label: label, Attribute: model.NoAttribute, Depth: depth, Rows: rows})
}

func (b *Builder) build(rows []model.Row, candidates []model.AttributeID, depth int) NodeID {
	log.Debug().Int("rows", len(rows)).Int("node", len(b.nodes)).Int("depth", depth).Msg("Growing node")

	if label, ok := uniformLabel(rows, b.target.ID); ok {
		return b.newLeaf(label, depth, len(rows))
	}
	eligible := b.eligible(candidates)
	if len(eligible) == 0 {
		return b.newLeaf(mostCommonLabel(rows, b.target.ID), depth, len(rows))
	}

	split := b.chooseSplit(rows, eligible)
	attribute := b.schema.Attribute(split.Attribute)
	log.Debug().Int("depth", depth).Str("attribute", attribute.Name).Float64("gain", split.Gain).Msg("Chose attribute")

	id := b.newNode(Node{
		Attribute:  attribute.ID,
		Threshold:  split.Threshold,
		Continuous: !attribute.Discrete,
		Depth:      depth,
		Rows:       len(rows),
	})
	// growBranches appends to b.nodes, so the node is only addressed again afterwards
	branches := b.growBranches(rows, candidates, b.nodes[id], depth)
	b.nodes[id].Branches = branches
	return id
}

// eligible drops continuous candidates whose use counter already reached the cap.
func (b *Builder) eligible(candidates []model.AttributeID) []model.AttributeID {
	result := make([]model.AttributeID, 0, len(candidates))
	for _, id := range candidates {
		if !b.schema.Attribute(id).Discrete && b.uses[id] >= b.maxContinuousUses {
			continue
		}
		result = append(result, id)
	}
	return result
}

// chooseSplit returns the candidate with the highest gain, the first one on ties.
// A candidate is always chosen, even when none offers a usable split.
func (b *Builder) chooseSplit(rows []model.Row, candidates []model.AttributeID) Split {
	baseEntropy := Entropy(labelCounts(rows, b.target))

	best := Split{Attribute: model.NoAttribute}
	for _, id := range candidates {
		attribute := b.schema.Attribute(id)
		split := Split{Attribute: id}
		if attribute.Discrete {
			split.Gain = discreteGain(rows, attribute, b.target, baseEntropy)
		} else {
			split.Gain, split.Threshold = continuousGain(rows, attribute, b.target, baseEntropy)
		}
		if best.Attribute == model.NoAttribute || split.Gain > best.Gain {
			best = split
		}
	}
	return best
}

func (b *Builder) growBranches(rows []model.Row, candidates []model.AttributeID, n Node, depth int) map[int]NodeID {
	attribute := b.schema.Attribute(n.Attribute)
	branches := make(map[int]NodeID, attribute.Domain.Size())

	for value := 0; value < attribute.Domain.Size(); value++ {
		var childRows []model.Row
		for _, r := range rows {
			if n.branch(r.Value(attribute.ID)) == value {
				childRows = append(childRows, r)
			}
		}

		if len(childRows) == 0 {
			branches[value] = b.newLeaf(mostCommonLabel(rows, b.target.ID), depth+1, 0)
			continue
		}

		childCandidates := candidates
		if attribute.Discrete {
			childCandidates = without(candidates, attribute.ID)
		} else {
			if b.uses[attribute.ID] < b.maxContinuousUses {
				b.uses[attribute.ID]++
			}
			if b.uses[attribute.ID] >= b.maxContinuousUses {
				childCandidates = without(candidates, attribute.ID)
			}
		}

		log.Debug().Int("depth", depth).Str("attribute", attribute.Name).
			Str("branch", attribute.Label(float64(value))).Int("rows", len(childRows)).Msg("Growing branch")
		branches[value] = b.build(childRows, childCandidates, depth+1)
	}
	return branches
}

func without(candidates []model.AttributeID, id model.AttributeID) []model.AttributeID {
	result := make([]model.AttributeID, 0, len(candidates))
	for _, c := range candidates {
		if c != id {
			result = append(result, c)
		}
	}
	return result
}

func uniformLabel(rows []model.Row, target model.AttributeID) (int, bool) {
	label := rows[0].Label(target)
	for _, r := range rows[1:] {
		if r.Label(target) != label {
			return 0, false
		}
	}
	return label, true
}

// mostCommonLabel returns the most frequent label in rows. Equally frequent labels
// are resolved in favour of the one that appears first in rows.
func mostCommonLabel(rows []model.Row, target model.AttributeID) int {
	counts := map[int]int{}
	var order []int
	for _, r := range rows {
		label := r.Label(target)
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
	}

	best := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}
