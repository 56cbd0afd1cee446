package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AllMinilmL6V2 talks to a text-embeddings-inference server running the
// all-MiniLM-L6-v2 model (384 dimensions).
type AllMinilmL6V2 struct {
	BaseURL    string
	Dimension  int
	HTTPClient *http.Client
}

func NewAllMinilmL6V2(baseURL string, dimension int) *AllMinilmL6V2 {
	return &AllMinilmL6V2{
		BaseURL:   baseURL,
		Dimension: dimension,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *AllMinilmL6V2) GetEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := EmbeddingRequest{
		Inputs: texts,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/embed", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var embeddings EmbeddingResponse
	if err := json.Unmarshal(body, &embeddings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d inputs", len(embeddings), len(texts))
	}
	for i, v := range embeddings {
		if c.Dimension > 0 && len(v) != c.Dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), c.Dimension)
		}
	}

	return embeddings, nil
}
