package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is an Adapter backed by an HTTP classification service.
type Client struct {
	baseURL string
	http    *http.Client
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// NewClient creates a classification client from the given configuration.
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
	}
}

func (c *Client) Classify(ctx context.Context, summary string) ([]Prediction, error) {
	body, err := json.Marshal(classifyRequest{Text: summary})
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/classify",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("classification service returned %d: %s", resp.StatusCode, data)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}

	return parsed.Predictions, nil
}
