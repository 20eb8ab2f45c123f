package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"embedviz/indexer/service"
	"embedviz/model"
	"embedviz/store"
	"embedviz/types"
)

func init() {
	// Best effort: a plain environment is fine too.
	_ = godotenv.Load()
}

func main() {
	directory := flag.String("directory", ".", "Directory to scan for files")
	fileTypes := flag.String("file-types", ".md", "Comma-separated list of file extensions to index, e.g. .md,.txt,.rst")
	dryRun := flag.Bool("dry-run", false, "Perform a dry run without writing embeddings to file")
	flag.Parse()

	cfg := types.DefaultIndexConfig()

	embedder, err := model.NewGeminiEmbedder(cfg.EmbeddingSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	exts := splitFileTypes(*fileTypes)

	storer := store.NewJSONStore(cfg.OutputFile)
	svc := service.New(storer, embedder, cfg)
	result := svc.Run(context.Background(), *directory, exts, *dryRun)

	if result.Status != types.StatusSuccess {
		fmt.Printf("\nError: %s\n", result.Message)
		os.Exit(1)
	}

	fmt.Printf("\nSuccess: %s\n", result.Message)
	if result.Stats != nil {
		fmt.Println("Statistics:")
		fmt.Printf("  run_id: %s\n", result.Stats.RunID)
		fmt.Printf("  files_processed: %d\n", result.Stats.FilesProcessed)
		fmt.Printf("  files_failed: %d\n", result.Stats.FilesFailed)
		fmt.Printf("  chunks_created: %d\n", result.Stats.ChunksCreated)
		fmt.Printf("  chunks_indexed: %d\n", result.Stats.ChunksIndexed)
		fmt.Printf("  tokens_estimated: %d\n", result.Stats.TokensEstimated)
		fmt.Printf("  processing_time: %.2f\n", result.Stats.ProcessingTime)
	}
}

func splitFileTypes(s string) []string {
	parts := strings.Split(s, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			exts = append(exts, p)
		}
	}
	return exts
}
