package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/textsplitter"

	"embedviz/types"
)

// Chunker splits file content into overlapping chunks via the recursive
// character splitter (paragraphs before sentences before words before raw
// character cuts).
type Chunker struct {
	chunkSize int
	overlap   int
	splitter  textsplitter.RecursiveCharacter
	enc       *tiktoken.Tiktoken
}

func NewChunker(chunkSize, overlap int) *Chunker {
	return &Chunker{
		chunkSize: chunkSize,
		overlap:   overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// EnableTokenCounts turns on per-chunk token estimation. The encoder is
// fetched remotely on first use; if that fails the run continues without
// counts, since they are informational only.
func (c *Chunker) EnableTokenCounts() *Chunker {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Printf("tiktoken encoder unavailable, skipping token counts: %v", err)
		return c
	}
	c.enc = enc
	return c
}

// Split produces the ordered chunk sequence for one file, plus an
// estimated token total. Offsets are derived from chunk index and stride,
// not from substring search: they are approximate on purpose, because the
// chunk id string is built from them and downstream consumers key off it.
func (c *Chunker) Split(content, filePath string) ([]types.Chunk, int, error) {
	pieces, err := c.splitter.SplitText(content)
	if err != nil {
		return nil, 0, fmt.Errorf("split %s: %w", filePath, err)
	}

	fileID := FileID(filePath)
	stride := c.chunkSize - c.overlap

	chunks := make([]types.Chunk, 0, len(pieces))
	tokens := 0
	for i, text := range pieces {
		startPos := 0
		if i > 0 {
			startPos = i * stride
		}
		endPos := startPos + utf8.RuneCountInString(text)

		chunks = append(chunks, types.Chunk{
			ID:       fmt.Sprintf("%s_%d-%d", fileID, startPos, endPos),
			FileID:   fileID,
			Content:  text,
			StartPos: startPos,
			EndPos:   endPos,
		})

		if c.enc != nil {
			tokens += len(c.enc.Encode(text, nil, nil))
		}
	}
	return chunks, tokens, nil
}

// FileID is the POSIX-style path relative to the working directory, the
// same for every chunk of a file across runs.
func FileID(path string) string {
	if wd, err := os.Getwd(); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			if rel, err := filepath.Rel(wd, abs); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}
