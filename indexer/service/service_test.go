package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embedviz/store"
	"embedviz/types"
)

type fakeProvider struct {
	failCalls map[int]bool
	calls     int
}

func (f *fakeProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	call := f.calls
	f.calls++
	if f.failCalls[call] {
		return nil, errors.New("network error")
	}

	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.5, 0.5}
	}
	return vectors, nil
}

func (f *fakeProvider) Dimension() int    { return 2 }
func (f *fakeProvider) ModelInfo() string { return "fake" }

func testConfig(outputFile string) types.IndexConfig {
	cfg := types.DefaultIndexConfig()
	cfg.OutputFile = outputFile
	cfg.FileBatchDelay = 0
	cfg.EmbedBatchDelay = 0
	cfg.CountTokens = false
	return cfg
}

func writeDocs(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, "docs", "note"+string(rune('a'+i))+".md")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("# Note\n\nSome body text worth indexing.\n"), 0644))
	}
}

func TestRun_WritesArtifact(t *testing.T) {
	tmpDir := t.TempDir()
	writeDocs(t, tmpDir, 2)
	out := filepath.Join(tmpDir, "embeddings.json")

	storer := store.NewJSONStore(out)
	svc := New(storer, &fakeProvider{}, testConfig(out))

	result := svc.Run(context.Background(), tmpDir, []string{".md"}, false)

	require.Equal(t, types.StatusSuccess, result.Status)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 2, result.Stats.FilesProcessed)
	assert.Equal(t, 0, result.Stats.FilesFailed)
	assert.Equal(t, result.Stats.ChunksCreated, result.Stats.ChunksIndexed)
	assert.NotEmpty(t, result.Stats.RunID)

	chunks, err := storer.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, chunks, result.Stats.ChunksIndexed)
	for _, chunk := range chunks {
		assert.True(t, chunk.HasEmbedding())
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	writeDocs(t, tmpDir, 2)
	out := filepath.Join(tmpDir, "embeddings.json")

	svc := New(store.NewJSONStore(out), &fakeProvider{}, testConfig(out))

	result := svc.Run(context.Background(), tmpDir, []string{".md"}, true)

	require.Equal(t, types.StatusSuccess, result.Status)
	assert.Contains(t, result.Message, "Dry run complete")
	assert.Positive(t, result.Stats.ChunksIndexed)

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_NoFilesFound(t *testing.T) {
	tmpDir := t.TempDir()
	out := filepath.Join(tmpDir, "embeddings.json")

	svc := New(store.NewJSONStore(out), &fakeProvider{}, testConfig(out))

	result := svc.Run(context.Background(), tmpDir, []string{".md", ".txt"}, false)

	assert.Equal(t, types.StatusError, result.Status)
	assert.Contains(t, result.Message, "No files with specified extensions")
	assert.Nil(t, result.Stats)
}

func TestRun_AllEmbeddingsFail(t *testing.T) {
	tmpDir := t.TempDir()
	writeDocs(t, tmpDir, 1)
	out := filepath.Join(tmpDir, "embeddings.json")

	provider := &fakeProvider{failCalls: map[int]bool{0: true}}
	svc := New(store.NewJSONStore(out), provider, testConfig(out))

	result := svc.Run(context.Background(), tmpDir, []string{".md"}, false)

	// Degraded, not fatal: the run succeeds with nothing to persist.
	require.Equal(t, types.StatusSuccess, result.Status)
	assert.Contains(t, result.Message, "No valid embeddings generated")
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Equal(t, 0, result.Stats.ChunksIndexed)

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_PartialEmbeddingFailure(t *testing.T) {
	tmpDir := t.TempDir()
	writeDocs(t, tmpDir, 3)
	out := filepath.Join(tmpDir, "embeddings.json")

	cfg := testConfig(out)
	cfg.EmbedBatchLimit = 1 // one chunk per sub-batch

	provider := &fakeProvider{failCalls: map[int]bool{0: true}}
	storer := store.NewJSONStore(out)
	svc := New(storer, provider, cfg)

	result := svc.Run(context.Background(), tmpDir, []string{".md"}, false)

	require.Equal(t, types.StatusSuccess, result.Status)
	assert.Equal(t, 3, result.Stats.FilesProcessed, "embedding failures must not affect files_processed")
	assert.Equal(t, result.Stats.ChunksCreated-1, result.Stats.ChunksIndexed)

	chunks, err := storer.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, chunks, result.Stats.ChunksIndexed)
}

func TestRun_EmptyFileCountsFailed(t *testing.T) {
	tmpDir := t.TempDir()
	writeDocs(t, tmpDir, 1)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "empty.md"), nil, 0644))
	out := filepath.Join(tmpDir, "embeddings.json")

	svc := New(store.NewJSONStore(out), &fakeProvider{}, testConfig(out))

	result := svc.Run(context.Background(), tmpDir, []string{".md"}, false)

	require.Equal(t, types.StatusSuccess, result.Status)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.FilesFailed)
}

func TestRun_WriteFailureKeepsStats(t *testing.T) {
	tmpDir := t.TempDir()
	writeDocs(t, tmpDir, 1)
	out := filepath.Join(tmpDir, "no-such-dir", "embeddings.json")

	svc := New(store.NewJSONStore(out), &fakeProvider{}, testConfig(out))

	result := svc.Run(context.Background(), tmpDir, []string{".md"}, false)

	assert.Equal(t, types.StatusError, result.Status)
	assert.Contains(t, result.Message, "Failed to write embeddings")
	require.NotNil(t, result.Stats)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Positive(t, result.Stats.ChunksIndexed)
}
