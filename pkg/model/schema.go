package model

import (
	"errors"
	"fmt"
)

// AttributeID indexes an attribute inside its Schema. Rows store values by AttributeID.
type AttributeID int

const NoAttribute AttributeID = -1

// Continuous attributes are discretized into these two categories by a threshold.
const (
	Low  = "low"
	High = "high"
)

var ErrNoTarget = errors.New("schema has no target attribute")

type Attribute struct {
	ID AttributeID
	// Name is the display name of the attribute
	Name string
	// Column is the position of the attribute in a raw data record
	Column int
	// Discrete is false for numeric attributes
	Discrete bool
	// Domain holds the category labels; continuous attributes always have {low, high}
	Domain NameMap
}

// Label returns the category name for a value of this attribute.
func (a *Attribute) Label(value float64) string {
	return a.Domain.Name(int(value))
}

// Schema is the arena of attribute records shared by every row and tree node built from it.
type Schema struct {
	Attributes []*Attribute

	// Features lists the attributes available for splitting, in declaration order
	Features []AttributeID

	// Target is the attribute the tree predicts
	Target AttributeID
}

func NewSchema() *Schema {
	return &Schema{Target: NoAttribute}
}

// AddFeature registers a non-target attribute. Labels are ignored for continuous attributes.
func (s *Schema) AddFeature(name string, column int, discrete bool, labels []string) (AttributeID, error) {
	a, err := s.add(name, column, discrete, labels)
	if err != nil {
		return NoAttribute, err
	}
	s.Features = append(s.Features, a.ID)
	return a.ID, nil
}

// SetTarget registers the target attribute, which must be discrete.
func (s *Schema) SetTarget(name string, column int, labels []string) (AttributeID, error) {
	if s.Target != NoAttribute {
		return NoAttribute, fmt.Errorf("target already set to %s", s.Attribute(s.Target).Name)
	}
	a, err := s.add(name, column, true, labels)
	if err != nil {
		return NoAttribute, err
	}
	s.Target = a.ID
	return a.ID, nil
}

func (s *Schema) add(name string, column int, discrete bool, labels []string) (*Attribute, error) {
	if column < 0 {
		return nil, fmt.Errorf("attribute %s: negative column %d", name, column)
	}
	for _, a := range s.Attributes {
		if a.Column == column {
			return nil, fmt.Errorf("attribute %s: column %d already used by %s", name, column, a.Name)
		}
	}
	if !discrete {
		labels = []string{Low, High}
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("attribute %s: no categories", name)
	}
	domain, err := NewNameMap(labels...)
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", name, err)
	}
	a := &Attribute{
		ID:       AttributeID(len(s.Attributes)),
		Name:     name,
		Column:   column,
		Discrete: discrete,
		Domain:   domain,
	}
	s.Attributes = append(s.Attributes, a)
	return a, nil
}

func (s *Schema) Attribute(id AttributeID) *Attribute {
	return s.Attributes[id]
}

// TargetAttribute returns the target attribute or nil if none was set.
func (s *Schema) TargetAttribute() *Attribute {
	if s.Target == NoAttribute {
		return nil
	}
	return s.Attributes[s.Target]
}

// Width is the number of values every row of this schema holds.
func (s *Schema) Width() int {
	return len(s.Attributes)
}

// Validate checks the schema can be used for training.
func (s *Schema) Validate() error {
	if s.Target == NoAttribute {
		return ErrNoTarget
	}
	return nil
}
