package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"multa-analyzer/api/internal/ocr"
	"multa-analyzer/api/internal/util"
)

// Model is fixed for this integration.
const Model = "gemini-2.5-flash"

// maxImageBytes bounds a remote image download.
const maxImageBytes = 20 << 20

type Engine struct {
	APIKey string
	httpc  *http.Client
}

func New(apiKey string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		httpc:  &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHTTPClient replaces the client used to download remote image references.
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *Engine) Name() string  { return "gemini" }
func (e *Engine) Model() string { return Model }

func (e *Engine) Complete(ctx context.Context, prompt, imageRef string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	img, mime, err := e.loadImage(ctx, imageRef)
	if err != nil {
		return "", fmt.Errorf("gemini: image: %w", err)
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		MaxOutputTokens:  ptrInt32(ocr.MaxOutputTokens),
		ResponseMIMEType: "application/json",
	}

	resp, err := m.GenerateContent(ctx,
		genai.Text(prompt),
		&genai.Blob{MIMEType: mime, Data: img},
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(firstText(resp)), nil
}

// loadImage resolves a data URL in place and downloads a remote URL.
func (e *Engine) loadImage(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	if util.IsRemoteURL(ref) {
		return e.download(ctx, ref)
	}
	b, hint, err := util.DecodeBase64MaybeDataURL(ref)
	if err != nil {
		return nil, "", fmt.Errorf("bad base64: %w", err)
	}
	if len(b) == 0 {
		return nil, "", errors.New("empty image")
	}
	return b, util.PickMIME("", hint, b), nil
}

func (e *Engine) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(b) > maxImageBytes {
		return nil, "", fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}
	ct := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !strings.HasPrefix(ct, "image/") {
		ct = ""
	}
	return b, util.PickMIME(ct, "", b), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
