package types

import "time"

// Chunk is the unit of work and storage. Field order matters: it is the
// key order written to the output JSON file.
type Chunk struct {
	ID        string    `json:"id"`
	FileID    string    `json:"file_id"`
	Content   string    `json:"content"`
	StartPos  int       `json:"start_pos"`
	EndPos    int       `json:"end_pos"`
	Embedding []float32 `json:"embedding"`
}

// HasEmbedding reports whether the chunk survived embedding. An empty
// vector marks a failed sub-batch.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// Stats aggregates one indexing run. Reported, never persisted.
type Stats struct {
	RunID           string  `json:"run_id"`
	FilesProcessed  int     `json:"files_processed"`
	FilesFailed     int     `json:"files_failed"`
	ChunksCreated   int     `json:"chunks_created"`
	ChunksIndexed   int     `json:"chunks_indexed"`
	TokensEstimated int     `json:"tokens_estimated"`
	ProcessingTime  float64 `json:"processing_time"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is what one indexer invocation reports back to the CLI.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Stats   *Stats `json:"stats,omitempty"`
}

// IndexConfig carries the knobs of one indexing run. The delays are
// configurable so tests do not have to sleep.
type IndexConfig struct {
	ChunkSize       int
	ChunkOverlap    int
	EmbeddingSize   int
	FileBatchSize   int
	EmbedBatchLimit int
	OutputFile      string
	FileBatchDelay  time.Duration
	EmbedBatchDelay time.Duration
	CountTokens     bool
}

// DefaultIndexConfig mirrors the tutorial pipeline defaults.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{
		ChunkSize:       600,
		ChunkOverlap:    200,
		EmbeddingSize:   768,
		FileBatchSize:   20,
		EmbedBatchLimit: 100,
		OutputFile:      "embeddings.json",
		FileBatchDelay:  time.Second,
		EmbedBatchDelay: 500 * time.Millisecond,
		CountTokens:     true,
	}
}
