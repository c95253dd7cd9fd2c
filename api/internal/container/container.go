// Package container builds the analysis dependency graph from Config.
package container

import (
	"fmt"

	"github.com/rs/zerolog"

	"multa-analyzer/api/internal/config"
	"multa-analyzer/api/internal/ocr"
	"multa-analyzer/api/internal/ocr/gemini"
	"multa-analyzer/api/internal/ocr/openai"
)

// NewEngine returns the engine selected by LLM_PROVIDER. Only engines with a key are configured.
func NewEngine(cfg *config.Config) (ocr.Engine, error) {
	engines := &ocr.Engines{}
	if cfg.OpenAIAPIKey != "" {
		engines.OpenAI = openai.New(cfg.OpenAIAPIKey)
	}
	if cfg.GeminiAPIKey != "" {
		engines.Gemini = gemini.New(cfg.GeminiAPIKey)
	}
	eng, err := engines.GetEngine(cfg.LLMProvider)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return eng, nil
}

func NewAnalysisService(cfg *config.Config, log zerolog.Logger) (*ocr.Service, error) {
	eng, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("engine", eng.Name()).Str("model", eng.Model()).Msg("analysis engine ready")
	return ocr.NewService(eng, log), nil
}
