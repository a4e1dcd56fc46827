package io

import (
	"testing"

	"github.com/stretchr/testify/require"

	"id3/pkg/model"
)

func testRows(n int) []model.Row {
	rows := make([]model.Row, n)
	for i := range rows {
		rows[i] = model.Row{Values: []float64{float64(i)}}
	}
	return rows
}

func TestDataSet_RandomSplit(t *testing.T) {
	ds := NewDataSet(testRows(10), 42)
	splits, err := ds.RandomSplit(6, 3)
	require.NoError(t, err)
	require.Equal(t, 6, splits[0].Size())
	require.Equal(t, 3, splits[1].Size())

	seen := map[float64]bool{}
	for _, split := range splits {
		for _, r := range split.Rows() {
			require.False(t, seen[r.Values[0]])
			seen[r.Values[0]] = true
		}
	}
	require.Len(t, seen, 9)

	_, err = ds.RandomSplit(8, 3)
	require.Error(t, err)
}

func TestDataSet_RandomSplitIsSeeded(t *testing.T) {
	a, err := NewDataSet(testRows(20), 7).RandomSplit(10)
	require.NoError(t, err)
	b, err := NewDataSet(testRows(20), 7).RandomSplit(10)
	require.NoError(t, err)
	require.Equal(t, a[0].Rows(), b[0].Rows())
}

func TestDataSet_Holdout(t *testing.T) {
	tests := []struct {
		rows      int
		fraction  float64
		trainSize int
		testSize  int
	}{
		{rows: 10, fraction: 0.3, trainSize: 7, testSize: 3},
		{rows: 10, fraction: 0, trainSize: 10, testSize: 0},
		{rows: 10, fraction: 0.01, trainSize: 9, testSize: 1},
		{rows: 2, fraction: 0.9, trainSize: 1, testSize: 1},
		{rows: 0, fraction: 0.5, trainSize: 0, testSize: 0},
	}
	for _, tt := range tests {
		train, test, err := NewDataSet(testRows(tt.rows), 42).Holdout(tt.fraction)
		require.NoError(t, err)
		require.Equal(t, tt.trainSize, train.Size())
		require.Equal(t, tt.testSize, test.Size())
	}

	_, _, err := NewDataSet(testRows(3), 42).Holdout(1)
	require.Error(t, err)
}
