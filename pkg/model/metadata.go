package model

import "fmt"

// NameMap implements a bidirectional mapping between a category name and its index.
// Indexes follow the order in which names were declared.
type NameMap struct {
	NameToIndex map[string]int
	IndexToName []string
}

func NewNameMap(names ...string) (NameMap, error) {
	f := NameMap{NameToIndex: make(map[string]int, len(names))}
	for _, name := range names {
		if _, ok := f.NameToIndex[name]; ok {
			return NameMap{}, fmt.Errorf("duplicate category %q", name)
		}
		f.NameToIndex[name] = len(f.IndexToName)
		f.IndexToName = append(f.IndexToName, name)
	}
	return f, nil
}

func (f NameMap) Size() int {
	return len(f.IndexToName)
}

func (f NameMap) ContainsName(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

// Name returns the category name for index, or an empty string when index is out of range.
func (f NameMap) Name(index int) string {
	if index < 0 || index >= len(f.IndexToName) {
		return ""
	}
	return f.IndexToName[index]
}
