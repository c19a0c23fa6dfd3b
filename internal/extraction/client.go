package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lenflow/internal/config"
)

// Client calls the document-understanding vendor's extraction endpoint.
// The vendor fetches the document itself from the durable URL we hand
// it, so requests stay small.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates an extraction client from config.
func NewClient(cfg *config.ExtractionConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewClientWithEndpoint creates a client pointing at a custom endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.ExtractionConfig, endpoint string) *Client {
	c := NewClient(cfg)
	c.endpoint = endpoint
	return c
}

// ExtractInput carries what the vendor needs: a durable URL it can
// fetch the document from, plus the kind-specific configuration to run.
type ExtractInput struct {
	URL               string `json:"document_url"`
	DocumentKind      string `json:"document_kind"`
	ConfigurationName string `json:"configuration_name"`
	DocumentName      string `json:"document_name"`
}

// Extract runs the named extraction configuration against the document
// at the given URL and returns the decoded payload.
func (c *Client) Extract(ctx context.Context, input ExtractInput) (*Payload, error) {
	reqBody, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var payload Payload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("decoding extraction payload: %w", err)
	}
	return &payload, nil
}
