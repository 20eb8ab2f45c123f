package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"embedviz/app/dataset"
	"embedviz/app/reduce"
	"embedviz/store"
	"embedviz/types"
)

const projectionCacheSize = 16

type ProjectionHandler struct {
	loader *dataset.Loader
	cache  *reduce.Cache
}

func NewProjectionHandler(storer store.ChunkStorer) *ProjectionHandler {
	return &ProjectionHandler{
		loader: dataset.NewLoader(storer),
		cache:  reduce.NewCache(projectionCacheSize),
	}
}

// HandleProjection loads the artifact (memoized on its mod time), runs or
// reuses the t-SNE projection for the requested parameters, and returns
// one plot-ready point per chunk.
func (h *ProjectionHandler) HandleProjection(c *fiber.Ctx) error {
	var params types.ProjectionParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	ds, err := h.loader.Load(context.Background())
	if err != nil {
		return ErrNotFound(err.Error())
	}

	rp := reduce.Params{
		Perplexity:   params.Perplexity,
		Iterations:   params.Iterations,
		LearningRate: params.LearningRate,
	}

	key := reduce.Key(ds.Fingerprint, rp)
	proj, ok := h.cache.Get(key)
	if !ok {
		vectors := make([][]float32, len(ds.Chunks))
		for i := range ds.Chunks {
			vectors[i] = ds.Chunks[i].Embedding
		}

		proj, err = reduce.Project(vectors, rp)
		if err != nil {
			fmt.Printf("Error computing projection: %v\n", err)
			return ErrUnprocessable(err.Error())
		}
		h.cache.Add(key, proj)
	}

	points := make([]types.ProjectionPoint, len(ds.Chunks))
	for i, chunk := range ds.Chunks {
		points[i] = types.ProjectionPoint{
			X:       proj.X[i],
			Y:       proj.Y[i],
			ChunkID: chunk.ID,
			FileID:  chunk.FileID,
			Content: strings.ReplaceAll(chunk.Content, "\n", "<br>"),
		}
	}

	resp := types.ProjectionResponse{
		Points:  points,
		Count:   len(points),
		Warning: joinWarnings(ds.Warning, proj.Warning),
	}
	return c.JSON(resp)
}

func joinWarnings(warnings ...string) string {
	var kept []string
	for _, w := range warnings {
		if w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
