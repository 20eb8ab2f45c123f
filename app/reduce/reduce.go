package reduce

import (
	"fmt"
	"math/rand"

	"github.com/danaugrs/go-tsne/tsne"
	"gonum.org/v1/gonum/mat"
)

// Seed fixes the layout across parameter tweaks. go-tsne draws its
// initial solution from the global math/rand source.
const Seed = 42

// Params are the user-tunable t-SNE inputs.
type Params struct {
	Perplexity   int
	Iterations   int
	LearningRate float64
}

// Projection holds the 2D coordinates, row-aligned with the input
// vectors.
type Projection struct {
	X       []float64
	Y       []float64
	Warning string
}

// Project reduces the embedding matrix to two dimensions. Perplexity must
// be strictly less than the sample count; out-of-range values are clamped
// to max(1, n-1) with a warning rather than rejected.
func Project(vectors [][]float32, p Params) (proj *Projection, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("t-SNE failed, check the parameter combination: %v", r)
		}
	}()

	n := len(vectors)
	if n == 0 {
		return nil, fmt.Errorf("no vectors to project")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("vectors are empty")
	}

	perplexity := p.Perplexity
	var warning string
	if perplexity >= n {
		clamped := max(1, n-1)
		warning = fmt.Sprintf("Perplexity (%d) is too high for the number of samples (%d). Setting perplexity to %d.", perplexity, n, clamped)
		perplexity = clamped
	}

	data := mat.NewDense(n, dim, nil)
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("vector %d has length %d, expected %d", i, len(vec), dim)
		}
		for j, v := range vec {
			data.Set(i, j, float64(v))
		}
	}

	rand.Seed(Seed)
	t := tsne.NewTSNE(2, float64(perplexity), p.LearningRate, p.Iterations, false)
	embedded := t.EmbedData(data, nil)

	proj = &Projection{
		X:       make([]float64, n),
		Y:       make([]float64, n),
		Warning: warning,
	}
	for i := 0; i < n; i++ {
		proj.X[i] = embedded.At(i, 0)
		proj.Y[i] = embedded.At(i, 1)
	}
	return proj, nil
}
