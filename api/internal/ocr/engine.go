package ocr

import (
	"context"
	"errors"
	"strings"
)

// Engine is a hosted vision model. Complete sends the prompt and the image
// reference as one chat request and returns the textual content of the first
// answer, or "" when the model produced none.
type Engine interface {
	Name() string
	Model() string
	Complete(ctx context.Context, prompt, imageRef string) (string, error)
}

type Engines struct {
	OpenAI Engine
	Gemini Engine
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	var eng Engine
	switch strings.ToLower(strings.TrimSpace(llmName)) {
	case "", "gpt", "openai":
		eng = e.OpenAI
	case "gemini":
		eng = e.Gemini
	default:
		return nil, errors.New("unknown llm_name; use 'openai' or 'gemini'")
	}
	if eng == nil {
		return nil, errors.New("llm " + llmName + " is not configured")
	}
	return eng, nil
}
