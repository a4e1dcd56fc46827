package io

import (
	"fmt"
	"math"
	"math/rand"

	"id3/pkg/model"
)

// DataSet is an index view over rows that can be split randomly, e.g. to hold out a test set.
type DataSet struct {
	Data        []model.Row
	Rand        *rand.Rand
	dataIndices []int
}

func NewDataSet(data []model.Row, seed int64) *DataSet {
	dataIndices := make([]int, len(data))
	for i := range dataIndices {
		dataIndices[i] = i
	}
	return &DataSet{Data: data, Rand: rand.New(rand.NewSource(seed)), dataIndices: dataIndices}
}

func NewDataSetSplit(data []model.Row, rnd *rand.Rand, indices []int) *DataSet {
	return &DataSet{Data: data, Rand: rnd, dataIndices: indices}
}

func (d *DataSet) Size() int {
	return len(d.dataIndices)
}

// Rows returns the rows of this view in index order.
func (d *DataSet) Rows() []model.Row {
	rows := make([]model.Row, len(d.dataIndices))
	for i, index := range d.dataIndices {
		rows[i] = d.Data[index]
	}
	return rows
}

func (d *DataSet) RandomSplit(sizes ...int) ([]*DataSet, error) {
	total := 0
	for _, size := range sizes {
		total += size
	}
	if total > d.Size() {
		return nil, fmt.Errorf("cannot split %d rows into %d", d.Size(), total)
	}

	indices := make([]int, len(d.dataIndices))
	copy(indices, d.dataIndices)
	d.Rand.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	splits := make([]*DataSet, len(sizes))
	idx := 0
	for i := range sizes {
		splitIndices := make([]int, sizes[i])
		for j := range splitIndices {
			splitIndices[j] = indices[idx]
			idx++
		}
		splits[i] = NewDataSetSplit(d.Data, d.Rand, splitIndices)
	}
	return splits, nil
}

// Holdout splits off fraction of the rows as a test set. At least one row is kept on each
// side when there are two or more rows.
func (d *DataSet) Holdout(fraction float64) (*DataSet, *DataSet, error) {
	if fraction < 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("holdout fraction %v not in [0, 1)", fraction)
	}
	testSize := int(math.Round(fraction * float64(d.Size())))
	if fraction > 0 && testSize == 0 {
		testSize = 1
	}
	if testSize >= d.Size() {
		testSize = d.Size() - 1
	}
	if testSize < 0 {
		testSize = 0
	}
	splits, err := d.RandomSplit(d.Size()-testSize, testSize)
	if err != nil {
		return nil, nil, err
	}
	return splits[0], splits[1], nil
}
