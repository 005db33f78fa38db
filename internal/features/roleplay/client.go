// Package roleplay implements the expressive GIF commands (hug, pat, boop
// and friends).
package roleplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the public nekos.best API.
const DefaultBaseURL = "https://nekos.best/api/v2"

// GIFClient fetches an animation URL for an action.
type GIFClient interface {
	FetchGIF(ctx context.Context, action string) (string, error)
}

// Client is the HTTP implementation of GIFClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client against baseURL; pass DefaultBaseURL in
// production.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type gifResponse struct {
	Results []struct {
		URL string `json:"url"`
	} `json:"results"`
}

// FetchGIF returns one random animation URL for the action. An empty string
// with nil error never happens; failures are errors so callers can fall back
// to a text-only reply.
func (c *Client) FetchGIF(ctx context.Context, action string) (string, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s gif: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s gif: unexpected status %d", action, resp.StatusCode)
	}

	var payload gifResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode %s gif response: %w", action, err)
	}
	if len(payload.Results) == 0 {
		return "", fmt.Errorf("no %s gifs returned", action)
	}
	return payload.Results[0].URL, nil
}
