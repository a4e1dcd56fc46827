package tree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"id3/pkg/model"
)

func TestBuild_Tennis(t *testing.T) {
	s, rows := tennis(t)
	tree, err := Build(s, rows)
	require.NoError(t, err)

	root := tree.Node(tree.Root)
	require.False(t, root.Leaf)
	require.Equal(t, "outlook", s.Attribute(root.Attribute).Name)
	require.Len(t, root.Branches, 3)
	require.Equal(t, 2, tree.Depth())
	require.Equal(t, 5, tree.Leaves())

	overcast := tree.Node(root.Branches[1])
	require.True(t, overcast.Leaf)
	require.Equal(t, 1, overcast.Label)

	sunny := tree.Node(root.Branches[0])
	require.Equal(t, "humidity", s.Attribute(sunny.Attribute).Name)
	rain := tree.Node(root.Branches[2])
	require.Equal(t, "wind", s.Attribute(rain.Attribute).Name)

	for _, r := range rows {
		label, err := tree.Classify(r)
		require.NoError(t, err)
		require.Equal(t, r.Label(s.Target), label)
	}
}

func TestBuild_SingleLabel(t *testing.T) {
	s := newTestSchema(t, []string{"pos", "neg"}, outlook, testAttribute{name: "x"})
	rows := newTestRows(t, s, []float64{0, 1.5, 1}, []float64{2, 3, 1}, []float64{1, 0, 1})

	tree, err := Build(s, rows)
	require.NoError(t, err)
	require.Equal(t, 1, tree.Size())
	root := tree.Node(tree.Root)
	require.True(t, root.Leaf)
	require.Equal(t, 1, root.Label)
}

func TestBuild_NoCandidates(t *testing.T) {
	s := newTestSchema(t, []string{"pos", "neg"}, outlook)

	tests := []struct {
		name  string
		rows  [][]float64
		label int
	}{
		{name: "majority", rows: [][]float64{{0, 1}, {0, 0}, {1, 0}}, label: 0},
		{name: "tie goes to first seen", rows: [][]float64{{0, 1}, {0, 0}, {1, 0}, {2, 1}}, label: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewBuilder(s).Build(newTestRows(t, s, tt.rows...), nil)
			require.NoError(t, err)
			root := tree.Node(tree.Root)
			require.True(t, root.Leaf)
			require.Equal(t, tt.label, root.Label)
		})
	}
}

func TestBuild_MajorityBranch(t *testing.T) {
	s := newTestSchema(t, []string{"pos", "neg"}, testAttribute{"A", []string{"x", "y"}})
	rows := newTestRows(t, s,
		[]float64{0, 0}, []float64{0, 0}, []float64{0, 0},
		[]float64{0, 1},
		[]float64{1, 1}, []float64{1, 1}, []float64{1, 1}, []float64{1, 1},
	)

	tree, err := Build(s, rows)
	require.NoError(t, err)
	root := tree.Node(tree.Root)
	require.False(t, root.Leaf)
	require.Equal(t, model.AttributeID(0), root.Attribute)

	x := tree.Node(root.Branches[0])
	require.True(t, x.Leaf)
	require.Equal(t, 0, x.Label)
	y := tree.Node(root.Branches[1])
	require.True(t, y.Leaf)
	require.Equal(t, 1, y.Label)
}

func TestBuild_EmptyPartitionUsesParentMajority(t *testing.T) {
	s := newTestSchema(t, []string{"pos", "neg"}, outlook)
	rows := newTestRows(t, s, []float64{0, 1}, []float64{0, 1}, []float64{2, 0})

	tree, err := Build(s, rows)
	require.NoError(t, err)
	root := tree.Node(tree.Root)
	overcast := tree.Node(root.Branches[1])
	require.True(t, overcast.Leaf)
	require.Equal(t, 0, overcast.Rows)
	require.Equal(t, 1, overcast.Label)
}

func TestBuild_Continuous(t *testing.T) {
	s := newTestSchema(t, []string{"A", "B"}, testAttribute{name: "x"})
	rows := newTestRows(t, s,
		[]float64{1, 0}, []float64{2, 0}, []float64{3, 1}, []float64{4, 1},
		[]float64{5, 0}, []float64{6, 0}, []float64{7, 1}, []float64{8, 1},
	)

	tree, err := Build(s, rows)
	require.NoError(t, err)
	root := tree.Node(tree.Root)
	require.True(t, root.Continuous)
	require.Equal(t, 2.5, root.Threshold)

	for _, r := range rows {
		label, err := tree.Classify(r)
		require.NoError(t, err)
		require.Equal(t, r.Label(s.Target), label)
	}

	label, err := tree.Classify(model.Row{Values: []float64{4.4, 0}})
	require.NoError(t, err)
	require.Equal(t, 1, label)
}

func alternating(t *testing.T, s *model.Schema, n int) []model.Row {
	values := make([][]float64, n)
	for i := range values {
		values[i] = []float64{float64(i), float64(i % 2)}
	}
	return newTestRows(t, s, values...)
}

func TestBuild_ContinuousUseCap(t *testing.T) {
	s := newTestSchema(t, []string{"A", "B"}, testAttribute{name: "x"})
	rows := alternating(t, s, 40)

	b := NewBuilder(s)
	tree, err := b.Build(rows, s.Features)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxContinuousUses, b.Uses(0))

	splits := 0
	for i := range tree.Nodes {
		if !tree.Nodes[i].Leaf {
			splits++
		}
	}
	require.LessOrEqual(t, splits, DefaultMaxContinuousUses)

	// Rebuilding starts from fresh counters
	_, err = b.Build(rows, s.Features)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxContinuousUses, b.Uses(0))
}

func TestBuild_ContinuousUseCapOne(t *testing.T) {
	s := newTestSchema(t, []string{"A", "B"}, testAttribute{name: "x"})
	rows := alternating(t, s, 10)

	tree, err := Build(s, rows, MaxContinuousUses(1))
	require.NoError(t, err)
	require.Equal(t, 3, tree.Size())
	require.Equal(t, 2, tree.Leaves())
}

func TestBuild_DegenerateSplit(t *testing.T) {
	s := newTestSchema(t, []string{"A", "B"}, testAttribute{name: "x"})
	rows := newTestRows(t, s, []float64{5, 0}, []float64{5, 0}, []float64{5, 1})

	tree, err := Build(s, rows)
	require.NoError(t, err)
	require.False(t, tree.Node(tree.Root).Leaf)

	label, err := tree.Classify(rows[2])
	require.NoError(t, err)
	require.Equal(t, 0, label)
}

func TestBuild_Errors(t *testing.T) {
	s := newTestSchema(t, []string{"A", "B"}, testAttribute{name: "x"})
	_, err := Build(s, nil)
	require.ErrorIs(t, err, ErrEmptyTrainingSet)

	_, err = Build(model.NewSchema(), nil)
	require.ErrorIs(t, err, model.ErrNoTarget)
}

func TestClassify_NoBranch(t *testing.T) {
	s, rows := tennis(t)
	tree, err := Build(s, rows)
	require.NoError(t, err)

	_, err = tree.Classify(model.Row{Values: []float64{5, 0, 0, 0, 0}})
	require.ErrorIs(t, err, ErrNoBranch)

	_, err = tree.Classify(model.Row{Values: []float64{0.5, 0, 0, 0, 0}})
	require.ErrorIs(t, err, ErrNoBranch)

	_, err = tree.Classify(model.Row{})
	require.ErrorIs(t, err, ErrNoBranch)
}

func TestRender(t *testing.T) {
	s, rows := tennis(t)
	tree, err := Build(s, rows)
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, tree.Render(&b))
	expected := `outlook=sunny
  humidity=high -> no
  humidity=normal -> yes
outlook=overcast -> yes
outlook=rain
  wind=weak -> yes
  wind=strong -> no
`
	require.Equal(t, expected, b.String())
}

func TestRender_Continuous(t *testing.T) {
	s := newTestSchema(t, []string{"A", "B"}, testAttribute{name: "x"})
	rows := newTestRows(t, s, []float64{1, 0}, []float64{2, 0}, []float64{3, 1}, []float64{4, 1})
	tree, err := Build(s, rows)
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, tree.Render(&b))
	require.Equal(t, "x<=2.5 -> A\nx>2.5 -> B\n", b.String())
}
