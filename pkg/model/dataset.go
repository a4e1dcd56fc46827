package model

import "fmt"

// Row maps every attribute of a schema to a numeric value, indexed by AttributeID.
// Discrete values are domain indexes, continuous values are raw measurements.
type Row struct {
	Values []float64
}

func (r Row) Value(id AttributeID) float64 {
	return r.Values[id]
}

// Label returns the class index held by the row for the target attribute.
func (r Row) Label(target AttributeID) int {
	return int(r.Values[target])
}

type Dataset struct {
	Schema *Schema
	Rows   []Row
}

func NewDataset(schema *Schema) *Dataset {
	return &Dataset{Schema: schema}
}

// Add appends a fully populated row. Values must be indexed by AttributeID.
func (d *Dataset) Add(values []float64) error {
	if len(values) != d.Schema.Width() {
		return fmt.Errorf("row has %d values, schema has %d attributes", len(values), d.Schema.Width())
	}
	for _, a := range d.Schema.Attributes {
		if !a.Discrete {
			continue
		}
		v := int(values[a.ID])
		if float64(v) != values[a.ID] || v < 0 || v >= a.Domain.Size() {
			return fmt.Errorf("value %v out of domain for attribute %s", values[a.ID], a.Name)
		}
	}
	d.Rows = append(d.Rows, Row{Values: values})
	return nil
}

func (d *Dataset) Size() int {
	return len(d.Rows)
}
