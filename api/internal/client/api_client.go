package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"multa-analyzer/api/internal/ocr"
	"multa-analyzer/api/internal/util"
)

const analyzePath = "/api/analyze-multa"

// APIClient calls a remote analysis service over HTTP.
type APIClient struct {
	BaseURL string
	httpc   *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpc:   &http.Client{Timeout: 180 * time.Second},
	}
}

func (c *APIClient) WithHTTPClient(h *http.Client) *APIClient {
	if h != nil {
		c.httpc = h
	}
	return c
}

type analyzeEnvelope struct {
	Success  bool          `json:"success"`
	Analysis ocr.Analysis  `json:"analysis"`
	Error    string        `json:"error"`
	Code     ocr.ErrorCode `json:"code"`
	Details  string        `json:"details"`
}

// Analyze posts the reference and returns the analysis of a success envelope.
// A success envelope without an analysis yields (nil, nil). Error envelopes
// come back as *ocr.Error with the server's code.
func (c *APIClient) Analyze(ctx context.Context, imageRef string) (ocr.Analysis, error) {
	payload, err := json.Marshal(map[string]string{"imageReference": imageRef})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+analyzePath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env analyzeEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("analyzer %d: %s", resp.StatusCode, util.Truncate(strings.TrimSpace(string(body)), 512))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := env.Code
		if code == "" {
			code = ocr.CodeUpstreamFailure
		}
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("analyzer returned status %d", resp.StatusCode)
		}
		return nil, &ocr.Error{Code: code, Message: msg, Details: env.Details}
	}
	if !env.Success {
		return nil, nil
	}
	return env.Analysis, nil
}
