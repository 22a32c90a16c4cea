package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageGenerator is the image-generation capability. An empty result with a
// non-nil error signals failure; callers treat it as non-fatal.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImagenClient generates images through the Gemini Imagen predict endpoint.
type ImagenClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewImagenClient(apiKey string) *ImagenClient {
	return &ImagenClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		baseURL:    "https://generativelanguage.googleapis.com",
		apiKey:     apiKey,
	}
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
	GeneratedImages []struct {
		Image struct {
			ImageBytes string `json:"imageBytes"`
		} `json:"image"`
	} `json:"generatedImages"`
}

// GenerateImage renders the prompt and returns the image as a data URI.
func (c *ImagenClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("no Google API key configured")
	}

	body, err := json.Marshal(imagenRequest{
		Instances:  []imagenInstance{{Prompt: prompt}},
		Parameters: imagenParameters{SampleCount: 1, AspectRatio: "16:9"},
	})
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/v1beta/models/imagen-4.0-generate-001:predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image API error: %d - %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed imagenResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse image response: %w", err)
	}
	if len(parsed.Predictions) > 0 && parsed.Predictions[0].BytesBase64Encoded != "" {
		return "data:image/png;base64," + parsed.Predictions[0].BytesBase64Encoded, nil
	}
	if len(parsed.GeneratedImages) > 0 && parsed.GeneratedImages[0].Image.ImageBytes != "" {
		return "data:image/png;base64," + parsed.GeneratedImages[0].Image.ImageBytes, nil
	}
	return "", fmt.Errorf("no image in response")
}
