package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultGeminiBaseURL is the public Gemini REST endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Wire types for the generateContent REST call. Only the fields the bot uses
// are modelled.

type genRequest struct {
	SystemInstruction *genContent  `json:"system_instruction,omitempty"`
	Contents          []genContent `json:"contents"`
	Tools             []genTool    `json:"tools,omitempty"`
}

type genContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text         string           `json:"text,omitempty"`
	FunctionCall *genFunctionCall `json:"functionCall,omitempty"`
}

type genFunctionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

type genTool struct {
	FunctionDeclarations []genFunctionDecl `json:"function_declarations"`
}

type genFunctionDecl struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  *genSchema `json:"parameters,omitempty"`
}

type genSchema struct {
	Type        string                `json:"type"`
	Description string                `json:"description,omitempty"`
	Properties  map[string]*genSchema `json:"properties,omitempty"`
	Required    []string              `json:"required,omitempty"`
}

type genResponse struct {
	Candidates []struct {
		Content genContent `json:"content"`
	} `json:"candidates"`
}

// GeminiClient calls the Gemini generateContent API over plain HTTP.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient builds a client for the given model.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// generate performs one generateContent round trip.
func (c *GeminiClient) generate(ctx context.Context, req *genRequest) (*genResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, snippet)
	}

	var out genResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	return &out, nil
}

// firstPart returns the first content part of the first candidate, or nil.
func (r *genResponse) firstPart() *genPart {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return nil
	}
	return &r.Candidates[0].Content.Parts[0]
}
