package model

import (
	"context"
	"fmt"
	"time"

	"embedviz/types"
)

// EmbedderInterface is the remote embedding service boundary.
type EmbedderInterface interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelInfo() string
}

// Embedder attaches vectors to chunks, splitting the work into sub-batches
// that respect the remote API's batch-size ceiling.
type Embedder struct {
	provider   EmbedderInterface
	batchLimit int
	batchDelay time.Duration
}

func NewEmbedder(provider EmbedderInterface, batchLimit int, batchDelay time.Duration) *Embedder {
	return &Embedder{
		provider:   provider,
		batchLimit: batchLimit,
		batchDelay: batchDelay,
	}
}

// EmbedChunks enriches chunks in place. On a sub-batch failure every chunk
// in that sub-batch keeps an empty embedding and processing continues:
// degrade, don't abort. Vectors are assigned strictly positionally.
func (e *Embedder) EmbedChunks(ctx context.Context, chunks []types.Chunk) []types.Chunk {
	for i := 0; i < len(chunks); i += e.batchLimit {
		end := min(i+e.batchLimit, len(chunks))
		batch := chunks[i:end]
		fmt.Printf("Processing embedding batch %d (%d chunks)...\n", i/e.batchLimit+1, len(batch))

		texts := make([]string, len(batch))
		for j := range batch {
			texts[j] = batch[j].Content
		}

		vectors, err := e.provider.EmbedBatch(ctx, texts)
		if err != nil {
			fmt.Printf("Error generating embeddings for batch %d: %v\n", i/e.batchLimit+1, err)
			for j := range batch {
				batch[j].Embedding = []float32{}
			}
		} else {
			for j := range batch {
				batch[j].Embedding = vectors[j]
			}
		}

		// Fixed pause between sub-batches to stay under rate limits.
		if end < len(chunks) {
			time.Sleep(e.batchDelay)
		}
	}
	return chunks
}
