package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"embedviz/types"
)

// ChunkStorer is the persistence boundary between the indexer (writer)
// and the dashboard (reader). The artifact is a single JSON file; each
// indexing run overwrites it wholesale.
type ChunkStorer interface {
	Save(context.Context, []types.Chunk) error
	Load(context.Context) ([]types.Chunk, error)
	ModTime() (time.Time, error)
	Path() string
}

type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string {
	return s.path
}

// Save writes the chunk list as a pretty-printed UTF-8 JSON array,
// replacing any previous artifact. Last writer wins.
func (s *JSONStore) Save(_ context.Context, chunks []types.Chunk) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONStore) Load(_ context.Context) ([]types.Chunk, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var chunks []types.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return chunks, nil
}

// ModTime is the cheap invalidation marker for the dashboard's load
// cache.
func (s *JSONStore) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
