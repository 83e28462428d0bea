package encoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const visionMaxRetries = 3

// VisionClient is an HTTP client for a vision encoder sidecar. The sidecar
// accepts preprocessed pixel data and returns a fixed-length feature vector.
type VisionClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewVisionClient creates a vision encoder client
func NewVisionClient(baseURL, model string, timeout time.Duration) *VisionClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &VisionClient{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type visionRequest struct {
	Model  string    `json:"model"`
	Pixels []float32 `json:"pixels"`
}

type visionResponse struct {
	Features []float32 `json:"features"`
	Error    string    `json:"error,omitempty"`
}

// EncodeImage sends preprocessed pixels to the sidecar and returns the
// feature vector. Transient failures are retried with linear backoff.
func (c *VisionClient) EncodeImage(ctx context.Context, pixels []float32) ([]float32, error) {
	reqBody := visionRequest{
		Model:  c.model,
		Pixels: pixels,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var resp *http.Response
	var lastErr error

	for i := 0; i < visionMaxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/encode", bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, lastErr = c.client.Do(req)
		if lastErr == nil && resp.StatusCode == http.StatusOK {
			break
		}

		// Client errors (bad payload, unknown model) never succeed on retry
		permanent := false
		if resp != nil {
			if lastErr == nil {
				lastErr = fmt.Errorf("vision encoder returned status %d", resp.StatusCode)
				permanent = resp.StatusCode < http.StatusInternalServerError
			}
			resp.Body.Close()
			resp = nil
		}
		if permanent {
			break
		}

		if i < visionMaxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second * time.Duration(i+1)):
			}
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("vision encode failed: %w", lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("vision encoder returned no successful response")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var encResp visionResponse
	if err := json.Unmarshal(body, &encResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if encResp.Error != "" {
		return nil, fmt.Errorf("vision encoder error: %s", encResp.Error)
	}
	if len(encResp.Features) == 0 {
		return nil, fmt.Errorf("no features in response")
	}

	return encResp.Features, nil
}

// Close releases resources
func (c *VisionClient) Close() error {
	return nil
}
