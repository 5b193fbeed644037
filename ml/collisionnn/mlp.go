// Package collisionnn evaluates a learned self-collision proxy: a small dense network that maps a joint vector to a
// scalar clearance estimate, along with its exact gradient by back-propagation.
package collisionnn

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Layer is one dense layer, out = Weights * in + Bias. Weights has one row per output.
type Layer struct {
	Weights *mat.Dense
	Bias    *mat.VecDense
}

// MLP is a feed-forward network with ReLU hidden layers and a single linear output. It is immutable after
// construction and safe for concurrent use; every call allocates its own scratch space.
type MLP struct {
	layers []Layer
	inDim  int
}

// NewMLP checks that consecutive layers agree on their sizes and that the last layer has exactly one output.
func NewMLP(layers []Layer) (*MLP, error) {
	if len(layers) == 0 {
		return nil, errors.New("network needs at least one layer")
	}
	for i, l := range layers {
		if l.Weights == nil || l.Bias == nil {
			return nil, errors.Errorf("layer %d is missing weights or bias", i)
		}
		r, c := l.Weights.Dims()
		if l.Bias.Len() != r {
			return nil, errors.Errorf("layer %d has %d outputs but %d biases", i, r, l.Bias.Len())
		}
		if i > 0 {
			if prev, _ := layers[i-1].Weights.Dims(); prev != c {
				return nil, errors.Errorf("layer %d expects %d inputs, previous layer produces %d", i, c, prev)
			}
		}
	}
	if out, _ := layers[len(layers)-1].Weights.Dims(); out != 1 {
		return nil, errors.Errorf("final layer must have a single output, has %d", out)
	}
	_, in := layers[0].Weights.Dims()
	return &MLP{layers: append([]Layer(nil), layers...), inDim: in}, nil
}

// InputDim is the length of joint vector the network expects.
func (m *MLP) InputDim() int {
	return m.inDim
}

// Predict returns the network output for x.
func (m *MLP) Predict(x []float64) float64 {
	a := mat.NewVecDense(len(x), append([]float64(nil), x...))
	for i, l := range m.layers {
		a = affine(l, a)
		if i < len(m.layers)-1 {
			relu(a)
		}
	}
	return a.AtVec(0)
}

// Gradient returns the network output for x and its derivative with respect to every input.
func (m *MLP) Gradient(x []float64) (float64, []float64) {
	// forward pass, keeping the post-activation output of every hidden layer
	acts := make([]*mat.VecDense, len(m.layers))
	a := mat.NewVecDense(len(x), append([]float64(nil), x...))
	for i, l := range m.layers {
		a = affine(l, a)
		if i < len(m.layers)-1 {
			relu(a)
		}
		acts[i] = a
	}
	y := a.AtVec(0)

	// backward pass, delta holds d(output)/d(layer input) as we walk back toward x
	last := m.layers[len(m.layers)-1]
	_, n := last.Weights.Dims()
	delta := mat.NewVecDense(n, nil)
	delta.CopyVec(last.Weights.RowView(0))
	for i := len(m.layers) - 2; i >= 0; i-- {
		// ReLU passes gradient only where the unit was active
		for j := 0; j < delta.Len(); j++ {
			if acts[i].AtVec(j) <= 0 {
				delta.SetVec(j, 0)
			}
		}
		_, c := m.layers[i].Weights.Dims()
		next := mat.NewVecDense(c, nil)
		next.MulVec(m.layers[i].Weights.T(), delta)
		delta = next
	}
	return y, append([]float64(nil), delta.RawVector().Data...)
}

func affine(l Layer, in *mat.VecDense) *mat.VecDense {
	r, _ := l.Weights.Dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(l.Weights, in)
	out.AddVec(out, l.Bias)
	return out
}

func relu(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < 0 {
			v.SetVec(i, 0)
		}
	}
}

// modelJSON is the on-disk form: weights[l][out][in] and biases[l][out].
type modelJSON struct {
	Weights [][][]float64 `json:"weights"`
	Biases  [][]float64   `json:"biases"`
}

// NewMLPFromJSON builds a network from its serialized weights.
func NewMLPFromJSON(data []byte) (*MLP, error) {
	var cfg modelJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal network")
	}
	if len(cfg.Weights) != len(cfg.Biases) {
		return nil, errors.Errorf("%d weight matrices but %d bias vectors", len(cfg.Weights), len(cfg.Biases))
	}
	layers := make([]Layer, 0, len(cfg.Weights))
	for i, w := range cfg.Weights {
		if len(w) == 0 || len(w[0]) == 0 {
			return nil, errors.Errorf("layer %d has no weights", i)
		}
		data := make([]float64, 0, len(w)*len(w[0]))
		for r, row := range w {
			if len(row) != len(w[0]) {
				return nil, errors.Errorf("layer %d row %d has %d columns, expected %d", i, r, len(row), len(w[0]))
			}
			data = append(data, row...)
		}
		if len(cfg.Biases[i]) == 0 {
			return nil, errors.Errorf("layer %d has no biases", i)
		}
		layers = append(layers, Layer{
			Weights: mat.NewDense(len(w), len(w[0]), data),
			Bias:    mat.NewVecDense(len(cfg.Biases[i]), append([]float64(nil), cfg.Biases[i]...)),
		})
	}
	return NewMLP(layers)
}

// MarshalJSON writes the network in the form NewMLPFromJSON reads.
func (m *MLP) MarshalJSON() ([]byte, error) {
	cfg := modelJSON{}
	for _, l := range m.layers {
		r, _ := l.Weights.Dims()
		w := make([][]float64, r)
		for i := range w {
			w[i] = mat.Row(nil, i, l.Weights)
		}
		cfg.Weights = append(cfg.Weights, w)
		cfg.Biases = append(cfg.Biases, append([]float64(nil), l.Bias.RawVector().Data...))
	}
	return json.Marshal(cfg)
}
