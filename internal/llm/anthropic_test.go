package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-20250514", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "say hi", req.Messages[0].Content)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "hi"}},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", "claude-sonnet-4-20250514", 600)
	c.baseURL = srv.URL

	text, err := c.Complete(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestClientCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"type": "rate_limit_error"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "claude-sonnet-4-20250514", 600)
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "say hi")
	assert.ErrorContains(t, err, "LLM API error: 429")
}

func TestClientCompleteEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "claude-sonnet-4-20250514", 600)
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "say hi")
	assert.ErrorContains(t, err, "no content")
}

func TestImagenGenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/imagen-4.0-generate-001:predict", r.URL.Path)
		assert.Equal(t, "goog-key", r.Header.Get("x-goog-api-key"))

		var req imagenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Instances, 1)
		assert.Equal(t, "16:9", req.Parameters.AspectRatio)

		w.Write([]byte(`{"predictions": [{"bytesBase64Encoded": "aGVsbG8="}]}`))
	}))
	defer srv.Close()

	c := NewImagenClient("goog-key")
	c.baseURL = srv.URL

	url, err := c.GenerateImage(context.Background(), "a quiet harbour")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", url)
}

func TestImagenGenerateImageAltResponseShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generatedImages": [{"image": {"imageBytes": "aGVsbG8="}}]}`))
	}))
	defer srv.Close()

	c := NewImagenClient("goog-key")
	c.baseURL = srv.URL

	url, err := c.GenerateImage(context.Background(), "a quiet harbour")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", url)
}

func TestImagenGenerateImageNoKey(t *testing.T) {
	c := NewImagenClient("")
	_, err := c.GenerateImage(context.Background(), "prompt")
	assert.ErrorContains(t, err, "no Google API key")
}

func TestImagenGenerateImageEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewImagenClient("goog-key")
	c.baseURL = srv.URL

	_, err := c.GenerateImage(context.Background(), "prompt")
	assert.ErrorContains(t, err, "no image in response")
}
