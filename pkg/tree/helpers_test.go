package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"id3/pkg/model"
)

type testAttribute struct {
	name   string
	labels []string // nil for continuous
}

func newTestSchema(t *testing.T, target []string, attributes ...testAttribute) *model.Schema {
	s := model.NewSchema()
	for i, a := range attributes {
		_, err := s.AddFeature(a.name, i, a.labels != nil, a.labels)
		require.NoError(t, err)
	}
	_, err := s.SetTarget("class", len(attributes), target)
	require.NoError(t, err)
	return s
}

// newTestRows builds rows whose last value is the class index.
func newTestRows(t *testing.T, s *model.Schema, values ...[]float64) []model.Row {
	d := model.NewDataset(s)
	for _, v := range values {
		require.NoError(t, d.Add(v))
	}
	return d.Rows
}

var (
	outlook     = testAttribute{"outlook", []string{"sunny", "overcast", "rain"}}
	temperature = testAttribute{"temperature", []string{"hot", "mild", "cool"}}
	humidity    = testAttribute{"humidity", []string{"high", "normal"}}
	wind        = testAttribute{"wind", []string{"weak", "strong"}}
)

func tennis(t *testing.T) (*model.Schema, []model.Row) {
	s := newTestSchema(t, []string{"no", "yes"}, outlook, temperature, humidity, wind)
	rows := newTestRows(t, s,
		[]float64{0, 0, 0, 0, 0},
		[]float64{0, 0, 0, 1, 0},
		[]float64{1, 0, 0, 0, 1},
		[]float64{2, 1, 0, 0, 1},
		[]float64{2, 2, 1, 0, 1},
		[]float64{2, 2, 1, 1, 0},
		[]float64{1, 2, 1, 1, 1},
		[]float64{0, 1, 0, 0, 0},
		[]float64{0, 2, 1, 0, 1},
		[]float64{2, 1, 1, 0, 1},
		[]float64{0, 1, 1, 1, 1},
		[]float64{1, 1, 0, 1, 1},
		[]float64{1, 0, 1, 0, 1},
		[]float64{2, 1, 0, 1, 0},
	)
	return s, rows
}
