// Package enrich calls an external text-enhancement webhook that turns a
// raw task title into an improved title plus a suggested step list.
//
// Enrichment is strictly best-effort: every failure mode (transport error,
// non-success status, malformed body, missing usable title) degrades to an
// empty result and is never surfaced to the caller. Task creation must not
// depend on the webhook being reachable.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nhle/taskflow/internal/model"
)

// Client is a thin HTTP client for the enhancement webhook.
type Client struct {
	webhookURL string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an enrichment client. An empty webhookURL yields a no-op
// client that always returns an empty result. token, when non-empty, is
// sent as a bearer token.
func New(webhookURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		webhookURL: webhookURL,
		token:      token,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// enhanceRequest is the webhook request body.
type enhanceRequest struct {
	Title string `json:"title"`
}

// enhanceResponse is one webhook response item. The webhook replies with
// either a single object or a one-element array of this shape.
type enhanceResponse struct {
	EnhancedTitle *string  `json:"enhanced_title"`
	Steps         []string `json:"steps"`
}

// Enhance sends the raw title to the webhook and returns whatever usable
// enrichment came back. It never returns an error; a failed or unusable
// call yields the zero EnrichmentResult. Exactly one attempt is made.
func (c *Client) Enhance(ctx context.Context, title string) model.EnrichmentResult {
	if c.webhookURL == "" {
		return model.EnrichmentResult{}
	}

	body, err := json.Marshal(enhanceRequest{Title: title})
	if err != nil {
		c.logger.Warn("enrichment request encoding failed", "error", err)
		return model.EnrichmentResult{}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body),
	)
	if err != nil {
		c.logger.Warn("enrichment request build failed", "error", err)
		return model.EnrichmentResult{}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("enrichment call failed", "error", err)
		return model.EnrichmentResult{}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("enrichment response read failed", "error", err)
		return model.EnrichmentResult{}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("enrichment returned non-success status",
			"status", resp.StatusCode)
		return model.EnrichmentResult{}
	}

	first, err := decodeFirst(respBody)
	if err != nil {
		c.logger.Warn("enrichment response unusable", "error", err)
		return model.EnrichmentResult{}
	}

	var result model.EnrichmentResult
	if first.EnhancedTitle != nil && *first.EnhancedTitle != "" {
		result.EnhancedTitle = *first.EnhancedTitle
	}
	if first.Steps != nil {
		result.Steps = first.Steps
	}
	return result
}

// decodeFirst accepts either a single response object or a one-element
// array containing one, the two shapes the webhook is known to produce.
func decodeFirst(data []byte) (enhanceResponse, error) {
	var single enhanceResponse
	if err := json.Unmarshal(data, &single); err == nil {
		return single, nil
	}

	var list []enhanceResponse
	if err := json.Unmarshal(data, &list); err != nil {
		return enhanceResponse{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(list) == 0 {
		return enhanceResponse{}, fmt.Errorf("empty response array")
	}
	return list[0], nil
}
