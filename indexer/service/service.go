package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"embedviz/indexer/internal"
	"embedviz/model"
	"embedviz/store"
	"embedviz/types"
)

// Service drives one indexing run end to end: discovery, chunking,
// embedding in outer file batches, and the final JSON artifact.
type Service struct {
	logger   *slog.Logger
	store    store.ChunkStorer
	chunker  *internal.Chunker
	embedder *model.Embedder
	cfg      types.IndexConfig
}

func New(storer store.ChunkStorer, provider model.EmbedderInterface, cfg types.IndexConfig) *Service {
	chunker := internal.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if cfg.CountTokens {
		chunker.EnableTokenCounts()
	}
	return &Service{
		logger:   slog.Default(),
		store:    storer,
		chunker:  chunker,
		embedder: model.NewEmbedder(provider, cfg.EmbedBatchLimit, cfg.EmbedBatchDelay),
		cfg:      cfg,
	}
}

// Run indexes every matching file under dir. Unreadable files and failed
// embedding sub-batches are counted and survived; only "no input files"
// and "cannot write output" are terminal.
func (s *Service) Run(ctx context.Context, dir string, fileTypes []string, dryRun bool) types.Result {
	start := time.Now()

	files, counts, err := internal.FindFiles(dir, fileTypes)
	if err != nil {
		return types.Result{
			Status:  types.StatusError,
			Message: fmt.Sprintf("Failed to scan %s: %v", dir, err),
		}
	}
	for _, fileType := range fileTypes {
		ext := internal.NormalizeExt(fileType)
		fmt.Printf("Found %d files with extension %s\n", counts[ext], ext)
	}

	if len(files) == 0 {
		return types.Result{
			Status:  types.StatusError,
			Message: fmt.Sprintf("No files with specified extensions (%s) found in %s", strings.Join(fileTypes, ", "), dir),
		}
	}
	fmt.Printf("Found a total of %d files to process in %s\n", len(files), dir)

	stats := &types.Stats{RunID: uuid.NewString()}
	var processed []types.Chunk

	for i := 0; i < len(files); i += s.cfg.FileBatchSize {
		end := min(i+s.cfg.FileBatchSize, len(files))
		batch := files[i:end]

		var batchChunks []types.Chunk
		for _, filePath := range batch {
			content, err := os.ReadFile(filePath)
			if err != nil {
				fmt.Printf("Error reading file %s: %v\n", filePath, err)
				stats.FilesFailed++
				continue
			}
			if len(content) == 0 {
				stats.FilesFailed++
				continue
			}

			chunks, tokens, err := s.chunker.Split(string(content), filePath)
			if err != nil {
				fmt.Printf("Error processing file %s: %v\n", filePath, err)
				stats.FilesFailed++
				continue
			}

			batchChunks = append(batchChunks, chunks...)
			stats.FilesProcessed++
			stats.ChunksCreated += len(chunks)
			stats.TokensEstimated += tokens
			fmt.Printf("Processed %s - %d chunks\n", filePath, len(chunks))
		}

		if len(batchChunks) > 0 {
			embedded := s.embedder.EmbedChunks(ctx, batchChunks)

			valid := make([]types.Chunk, 0, len(embedded))
			for _, chunk := range embedded {
				if chunk.HasEmbedding() {
					valid = append(valid, chunk)
				}
			}
			processed = append(processed, valid...)
			fmt.Printf("Added %d valid chunks from batch %d\n", len(valid), i/s.cfg.FileBatchSize+1)
		}

		// Pause between file batches; longer than the embedding sub-batch
		// delay because a batch fires many API calls.
		if end < len(files) {
			time.Sleep(s.cfg.FileBatchDelay)
		}
	}

	stats.ProcessingTime = math.Round(time.Since(start).Seconds()*100) / 100
	stats.ChunksIndexed = len(processed)

	var message string
	switch {
	case !dryRun && len(processed) > 0:
		if err := s.store.Save(ctx, processed); err != nil {
			fmt.Printf("Error writing embeddings to %s: %v\n", s.store.Path(), err)
			return types.Result{
				Status:  types.StatusError,
				Message: fmt.Sprintf("Failed to write embeddings to %s: %v", s.store.Path(), err),
				Stats:   stats,
			}
		}
		s.logger.Info("wrote embeddings", "path", s.store.Path(), "chunks", stats.ChunksIndexed)
		message = fmt.Sprintf("Processed %d files and saved %d chunks to %s in %.2f seconds",
			stats.FilesProcessed, stats.ChunksIndexed, s.store.Path(), stats.ProcessingTime)
	case dryRun:
		message = fmt.Sprintf("Dry run complete. Would have saved %d chunks to %s. Processed %d files in %.2f seconds",
			stats.ChunksIndexed, s.store.Path(), stats.FilesProcessed, stats.ProcessingTime)
	default:
		message = fmt.Sprintf("No valid embeddings generated. Processed %d files in %.2f seconds",
			stats.FilesProcessed, stats.ProcessingTime)
	}

	return types.Result{
		Status:  types.StatusSuccess,
		Message: message,
		Stats:   stats,
	}
}
