package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CloudClient is what the engine needs from the cloud side: authorize once
// per run with the stored sync credentials, then create rows in named
// collections and get back the cloud-assigned id.
type CloudClient interface {
	Authorize(token, deviceID string)
	Create(ctx context.Context, collection string, payload map[string]any) (uint, error)
}

// HTTPClient talks to the cloud tier's sync API.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	token    string
	deviceID string
}

// NewHTTPClient builds a client for the given cloud base URL. The request
// timeout bounds every per-row create so one hung call cannot stall a run
// forever.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Authorize installs the sync token and device id used on every request.
func (c *HTTPClient) Authorize(token, deviceID string) {
	c.token = token
	c.deviceID = deviceID
}

type createResponse struct {
	ID uint `json:"id"`
}

// Create POSTs one row to its collection endpoint and returns the id the
// cloud assigned.
func (c *HTTPClient) Create(ctx context.Context, collection string, payload map[string]any) (uint, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/api/v1/sync/%s", c.baseURL, collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Device-ID", c.deviceID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("cloud rejected create %s: status %d: %s", collection, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode create response for %s: %w", collection, err)
	}
	if out.ID == 0 {
		return 0, fmt.Errorf("cloud returned no id for %s", collection)
	}
	return out.ID, nil
}
