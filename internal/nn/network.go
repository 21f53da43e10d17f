package nn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidTopology is returned when a network has fewer than two layers
	// or a layer with no units.
	ErrInvalidTopology = errors.New("nn: invalid topology")
	// ErrTopologyMismatch is returned when combining networks of different shapes.
	ErrTopologyMismatch = errors.New("nn: topology mismatch")
)

// Network is a fully connected feedforward network with sigmoid activations.
//
// Each layer pair owns one weight matrix with one row per destination unit
// and one column per source unit plus a trailing bias column.
type Network struct {
	sizes   []int
	weights []*mat.Dense

	// Activation buffers, one per layer. Only Infer and SetInput write them.
	acts []*mat.VecDense
}

// New creates a network with weights drawn uniformly from [-1, 1]
func New(layerSizes []int, rng *rand.Rand) (*Network, error) {
	n, err := newShaped(layerSizes)
	if err != nil {
		return nil, err
	}
	for _, w := range n.weights {
		r, c := w.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				w.Set(i, j, rng.Float64()*2-1)
			}
		}
	}
	return n, nil
}

// newShaped allocates zeroed weights and buffers for the given layer sizes
func newShaped(layerSizes []int) (*Network, error) {
	if len(layerSizes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidTopology, len(layerSizes))
	}
	for i, s := range layerSizes {
		if s < 1 {
			return nil, fmt.Errorf("%w: layer %d has size %d", ErrInvalidTopology, i, s)
		}
	}

	n := &Network{
		sizes:   append([]int(nil), layerSizes...),
		weights: make([]*mat.Dense, len(layerSizes)-1),
		acts:    make([]*mat.VecDense, len(layerSizes)),
	}
	for i, s := range layerSizes {
		n.acts[i] = mat.NewVecDense(s, nil)
	}
	for i := 0; i < len(layerSizes)-1; i++ {
		n.weights[i] = mat.NewDense(layerSizes[i+1], layerSizes[i]+1, nil)
	}
	return n, nil
}

// LayerSizes returns a copy of the layer sizes
func (n *Network) LayerSizes() []int {
	return append([]int(nil), n.sizes...)
}

// NumLayers returns the number of weight matrices
func (n *Network) NumLayers() int {
	return len(n.weights)
}

// Layer returns the weight matrix between layer i and i+1. Callers must not modify it.
func (n *Network) Layer(i int) mat.Matrix {
	return n.weights[i]
}

// NumWeights returns the total number of weights including biases
func (n *Network) NumWeights() int {
	total := 0
	for _, w := range n.weights {
		r, c := w.Dims()
		total += r * c
	}
	return total
}

// SameTopology reports whether both networks have identical layer sizes
func (n *Network) SameTopology(other *Network) bool {
	if len(n.sizes) != len(other.sizes) {
		return false
	}
	for i := range n.sizes {
		if n.sizes[i] != other.sizes[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both networks have the same topology and weights
func (n *Network) Equal(other *Network) bool {
	if !n.SameTopology(other) {
		return false
	}
	for i := range n.weights {
		if !mat.Equal(n.weights[i], other.weights[i]) {
			return false
		}
	}
	return true
}

// SetInput overwrites the input layer's activations
func (n *Network) SetInput(values []float64) {
	in := n.acts[0]
	if len(values) != in.Len() {
		panic(fmt.Sprintf("nn: input width %d, want %d", len(values), in.Len()))
	}
	for i, v := range values {
		in.SetVec(i, v)
	}
}

// Infer propagates the input layer through every weight matrix
func (n *Network) Infer() {
	for l, w := range n.weights {
		src := n.acts[l]
		dst := n.acts[l+1]
		rows, cols := w.Dims()

		dst.MulVec(w.Slice(0, rows, 0, cols-1), src)
		dst.AddVec(dst, w.ColView(cols-1))
		for i := 0; i < rows; i++ {
			dst.SetVec(i, sigmoid(dst.AtVec(i)))
		}
	}
}

// Output returns a copy of the output layer's activations
func (n *Network) Output() []float64 {
	out := n.acts[len(n.acts)-1]
	return mat.Col(nil, 0, out)
}

// Clone returns a deep copy with fresh activation buffers
func (n *Network) Clone() *Network {
	c, _ := newShaped(n.sizes)
	for i, w := range n.weights {
		c.weights[i].Copy(w)
	}
	return c
}

// Crossover returns a child where every weight is taken from n or other
// with equal probability.
func (n *Network) Crossover(other *Network, rng *rand.Rand) (*Network, error) {
	if !n.SameTopology(other) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrTopologyMismatch, n.sizes, other.sizes)
	}
	child, _ := newShaped(n.sizes)
	for l, w := range child.weights {
		r, c := w.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if rng.Float64() < 0.5 {
					w.Set(i, j, n.weights[l].At(i, j))
				} else {
					w.Set(i, j, other.weights[l].At(i, j))
				}
			}
		}
	}
	return child, nil
}

// Mutate returns a copy with uniform noise in [-rate/2, rate/2] added to every weight
func (n *Network) Mutate(rate float64, rng *rand.Rand) *Network {
	child, _ := newShaped(n.sizes)
	for l, w := range child.weights {
		r, c := w.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				w.Set(i, j, n.weights[l].At(i, j)+(rng.Float64()-0.5)*rate)
			}
		}
	}
	return child
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
