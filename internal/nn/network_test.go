package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShapes(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
	}{
		{name: "direct", sizes: []int{10, 4}},
		{name: "one-hidden", sizes: []int{10, 8, 4}},
		{name: "two-hidden", sizes: []int{3, 5, 7, 2}},
		{name: "single-units", sizes: []int{1, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := New(tc.sizes, rand.New(rand.NewSource(1)))
			require.NoError(t, err)
			require.Equal(t, len(tc.sizes)-1, n.NumLayers())

			total := 0
			for i := 0; i < n.NumLayers(); i++ {
				r, c := n.Layer(i).Dims()
				assert.Equal(t, tc.sizes[i+1], r, "rows of layer %d", i)
				assert.Equal(t, tc.sizes[i]+1, c, "cols of layer %d", i)
				assert.Equal(t, (tc.sizes[i]+1)*tc.sizes[i+1], r*c)
				total += r * c

				for a := 0; a < r; a++ {
					for b := 0; b < c; b++ {
						w := n.Layer(i).At(a, b)
						assert.True(t, w >= -1 && w <= 1, "weight %f out of range", w)
					}
				}
			}
			assert.Equal(t, total, n.NumWeights())
		})
	}
}

func TestNewInvalidTopology(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, sizes := range [][]int{nil, {10}, {10, 0, 4}} {
		_, err := New(sizes, rng)
		require.ErrorIs(t, err, ErrInvalidTopology, "sizes %v", sizes)
	}
}

func TestInferMatchesManualSum(t *testing.T) {
	n, err := New([]int{2, 1}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	n.SetInput([]float64{0.5, -2})
	n.Infer()
	out := n.Output()
	require.Len(t, out, 1)

	w := n.Layer(0)
	sum := 0.5*w.At(0, 0) - 2*w.At(0, 1) + w.At(0, 2)
	assert.InDelta(t, 1/(1+math.Exp(-sum)), out[0], 1e-12)
}

func TestInferIsDeterministic(t *testing.T) {
	n, err := New([]int{10, 6, 4}, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	input := []float64{0.1, -0.2, 0.3, 1, 2, -3, 0, 0, 0, 0}

	n.SetInput(input)
	n.Infer()
	first := n.Output()

	n.SetInput(input)
	n.Infer()
	second := n.Output()

	assert.Equal(t, first, second)
	for _, v := range first {
		assert.True(t, v > 0 && v < 1)
	}
}

func TestOutputIsCopy(t *testing.T) {
	n, err := New([]int{1, 1}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	n.SetInput([]float64{1})
	n.Infer()

	out := n.Output()
	out[0] = 42
	assert.NotEqual(t, 42.0, n.Output()[0])
}

func TestSetInputWrongWidthPanics(t *testing.T) {
	n, err := New([]int{3, 1}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Panics(t, func() { n.SetInput([]float64{1, 2}) })
}

func TestCrossoverTakesEachWeightFromOneParent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a, err := New([]int{10, 6, 4}, rng)
	require.NoError(t, err)
	b, err := New([]int{10, 6, 4}, rng)
	require.NoError(t, err)

	child, err := a.Crossover(b, rng)
	require.NoError(t, err)

	fromA, fromB := 0, 0
	for l := 0; l < child.NumLayers(); l++ {
		r, c := child.Layer(l).Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				w := child.Layer(l).At(i, j)
				switch w {
				case a.Layer(l).At(i, j):
					fromA++
				case b.Layer(l).At(i, j):
					fromB++
				default:
					t.Fatalf("weight (%d,%d,%d)=%f matches neither parent", l, i, j, w)
				}
			}
		}
	}
	assert.Positive(t, fromA)
	assert.Positive(t, fromB)
}

func TestCrossoverTopologyMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a, err := New([]int{10, 4}, rng)
	require.NoError(t, err)
	b, err := New([]int{10, 3, 4}, rng)
	require.NoError(t, err)

	_, err = a.Crossover(b, rng)
	require.ErrorIs(t, err, ErrTopologyMismatch)
}

func TestMutateBound(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n, err := New([]int{10, 8, 4}, rng)
	require.NoError(t, err)

	for _, rate := range []float64{0, 0.05, 1, 3} {
		m := n.Mutate(rate, rng)
		require.True(t, m.SameTopology(n))
		for l := 0; l < n.NumLayers(); l++ {
			r, c := n.Layer(l).Dims()
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					diff := m.Layer(l).At(i, j) - n.Layer(l).At(i, j)
					assert.LessOrEqual(t, math.Abs(diff), rate/2+1e-12)
				}
			}
		}
	}
}

func TestMutateStartsWithFreshActivations(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n, err := New([]int{2, 2}, rng)
	require.NoError(t, err)
	n.SetInput([]float64{1, 1})
	n.Infer()

	m := n.Mutate(0.1, rng)
	assert.Equal(t, []float64{0, 0}, m.Output())
	assert.Equal(t, []float64{0, 0}, m.Clone().Output())
}

func TestSeededConstructionIsDeterministic(t *testing.T) {
	a, err := New([]int{10, 4}, rand.New(rand.NewSource(77)))
	require.NoError(t, err)
	b, err := New([]int{10, 4}, rand.New(rand.NewSource(77)))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
