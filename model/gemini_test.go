package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiEmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:batchEmbedContents", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiBatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 2)
		assert.Equal(t, "models/test-model", req.Requests[0].Model)
		assert.Equal(t, "RETRIEVAL_DOCUMENT", req.Requests[0].TaskType)
		assert.Equal(t, 4, req.Requests[0].OutputDimensionality)
		assert.Equal(t, "first", req.Requests[0].Content.Parts[0].Text)
		assert.Equal(t, "second", req.Requests[1].Content.Parts[0].Text)

		resp := geminiBatchResponse{}
		resp.Embeddings = []struct {
			Values []float32 `json:"values"`
		}{
			{Values: []float32{1, 0, 0, 0}},
			{Values: []float32{0, 2, 0, 0}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewGeminiEmbedderAt(srv.URL, "test-key", "test-model", 4)

	vectors, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0, 0, 0}, vectors[0])
	assert.Equal(t, []float32{0, 2, 0, 0}, vectors[1])
}

func TestGeminiEmbedBatch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := NewGeminiEmbedderAt(srv.URL, "test-key", "test-model", 4)

	_, err := e.EmbedBatch(context.Background(), []string{"first"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGeminiEmbedBatch_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings": [{"values": [1, 2, 3, 4]}]}`))
	}))
	defer srv.Close()

	e := NewGeminiEmbedderAt(srv.URL, "test-key", "test-model", 4)

	_, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 texts")
}

func TestNewGeminiEmbedder_MissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewGeminiEmbedder(768)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestNewGeminiEmbedder_ModelOverride(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_EMBEDDING_ID", "custom-embedding-model")

	e, err := NewGeminiEmbedder(768)
	require.NoError(t, err)
	assert.Equal(t, "gemini-custom-embedding-model", e.ModelInfo())
	assert.Equal(t, 768, e.Dimension())
}
