package dataset

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"embedviz/store"
	"embedviz/types"
)

// Dataset is the loaded, filtered chunk table the dashboard projects.
type Dataset struct {
	Chunks []types.Chunk
	// Fingerprint changes whenever the underlying artifact does; it keys
	// the projection cache.
	Fingerprint string
	Warning     string
}

// Loader memoizes the artifact keyed on its modification time, so slider
// tweaks never re-read or re-parse the file.
type Loader struct {
	logger *slog.Logger
	store  store.ChunkStorer

	mu        sync.Mutex
	cached    *Dataset
	cachedMod time.Time
}

func NewLoader(storer store.ChunkStorer) *Loader {
	return &Loader{
		logger: slog.Default(),
		store:  storer,
	}
}

func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	mod, err := l.store.ModTime()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("embeddings file not found at %s, run the indexer first", l.store.Path())
		}
		return nil, err
	}

	if l.cached != nil && mod.Equal(l.cachedMod) {
		return l.cached, nil
	}

	chunks, err := l.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	valid := make([]types.Chunk, 0, len(chunks))
	missingColumns := false
	for _, chunk := range chunks {
		if !chunk.HasEmbedding() {
			continue
		}
		if chunk.ID == "" || chunk.FileID == "" || chunk.Content == "" {
			missingColumns = true
		}
		valid = append(valid, chunk)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid embeddings found in %s", l.store.Path())
	}

	ds := &Dataset{
		Chunks:      valid,
		Fingerprint: fingerprint(l.store.Path(), mod, len(valid)),
	}
	if missingColumns {
		ds.Warning = "Embeddings file is missing expected values for 'id', 'file_id' or 'content'. Hover data might be limited."
		l.logger.Warn("dataset loaded with missing columns", "path", l.store.Path())
	}

	l.cached = ds
	l.cachedMod = mod
	l.logger.Info("dataset loaded", "path", l.store.Path(), "chunks", len(valid))
	return ds, nil
}

func fingerprint(path string, mod time.Time, rows int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", path, mod.UnixNano(), rows))
	return fmt.Sprintf("%x", sum)
}
