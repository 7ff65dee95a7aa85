// Package extract calls the external text-understanding service that turns a
// pasted block of chat text into draft import rows for human review.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/toaiking/ECOGO-sub002/internal/importer"
)

type Client struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 20 * time.Second},
	}
}

// ParseRequest carries the raw text plus catalog and customer names the
// service may anchor on.
type ParseRequest struct {
	Text           string   `json:"text"`
	KnownProducts  []string `json:"known_products,omitempty"`
	KnownCustomers []string `json:"known_customers,omitempty"`
}

type ParseResponse struct {
	Rows []importer.RawRow `json:"rows"`
}

// Parse is a single shot, no retries; the caller decides what a failure
// means for its request.
func (c *Client) Parse(ctx context.Context, req ParseRequest) (*ParseResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/parse", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call extract service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("extract service: status %d: %s", resp.StatusCode, b)
	}

	var out ParseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
