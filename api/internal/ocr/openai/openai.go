package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"multa-analyzer/api/internal/ocr"
	"multa-analyzer/api/internal/util"
)

const (
	// Model is fixed for this integration.
	Model           = "gpt-4o"
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
)

type Engine struct {
	APIKey   string
	Endpoint string
	httpc    *http.Client
}

func New(key string) *Engine {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}

	return &Engine{
		APIKey:   strings.TrimSpace(key),
		Endpoint: DefaultEndpoint,
		httpc:    &http.Client{Transport: tr},
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g., for custom timeouts or tracing).
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *Engine) WithEndpoint(u string) *Engine {
	if u = strings.TrimSpace(u); u != "" {
		e.Endpoint = u
	}
	return e
}

func (e *Engine) Name() string  { return "openai" }
func (e *Engine) Model() string { return Model }

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (e *Engine) Complete(ctx context.Context, prompt, imageRef string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("OPENAI_API_KEY is empty")
	}

	body := map[string]any{
		"model": Model,
		"messages": []any{
			map[string]any{
				"role": "user",
				"content": []any{
					map[string]any{"type": "text", "text": prompt},
					map[string]any{"type": "image_url", "image_url": map[string]any{"url": imageRef}},
				},
			},
		},
		"max_tokens":      ocr.MaxOutputTokens,
		"response_format": map[string]any{"type": "json_object"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai %d: %s", resp.StatusCode, util.Truncate(strings.TrimSpace(string(x)), 1024))
	}

	var raw chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("openai: bad response envelope: %w", err)
	}
	if len(raw.Choices) == 0 || raw.Choices[0].Message.Content == nil {
		return "", nil
	}
	return strings.TrimSpace(*raw.Choices[0].Message.Content), nil
}
