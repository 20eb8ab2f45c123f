package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "text-embedding-004"

	// The embeddings are meant for document retrieval, not queries.
	taskTypeDocument = "RETRIEVAL_DOCUMENT"

	requestTimeout = 30 * time.Second
)

// GeminiEmbedder calls the Gemini batchEmbedContents endpoint.
type GeminiEmbedder struct {
	baseURL string
	apiKey  string
	model   string
	dim     int
	client  *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model                string        `json:"model"`
	Content              geminiContent `json:"content"`
	TaskType             string        `json:"taskType"`
	OutputDimensionality int           `json:"outputDimensionality"`
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

// NewGeminiEmbedder reads GEMINI_API_KEY and GEMINI_EMBEDDING_ID from the
// environment. A missing key is rejected here so the indexer can fail
// before doing any work.
func NewGeminiEmbedder(dim int) (*GeminiEmbedder, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable must be set")
	}

	model := os.Getenv("GEMINI_EMBEDDING_ID")
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiEmbedder{
		baseURL: DefaultGeminiBaseURL,
		apiKey:  key,
		model:   model,
		dim:     dim,
		client:  &http.Client{Timeout: requestTimeout},
	}, nil
}

// NewGeminiEmbedderAt points the client at a different base URL. Used by
// tests against a local stub server.
func NewGeminiEmbedderAt(baseURL, apiKey, model string, dim int) *GeminiEmbedder {
	return &GeminiEmbedder{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		dim:     dim,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// EmbedBatch requests one vector per input text. The response is trusted
// positionally: vector i belongs to text i. A count mismatch is an error.
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	reqs := make([]geminiEmbedRequest, len(texts))
	for i, text := range texts {
		reqs[i] = geminiEmbedRequest{
			Model:                "models/" + e.model,
			Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
			TaskType:             taskTypeDocument,
			OutputDimensionality: e.dim,
		}
	}

	body, err := json.Marshal(geminiBatchRequest{Requests: reqs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:batchEmbedContents?key=%s", e.baseURL, e.model, e.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var batchResp geminiBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(batchResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(batchResp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range batchResp.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func (e *GeminiEmbedder) Dimension() int {
	return e.dim
}

func (e *GeminiEmbedder) ModelInfo() string {
	return "gemini-" + e.model
}
