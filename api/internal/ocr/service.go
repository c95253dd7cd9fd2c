package ocr

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"multa-analyzer/api/internal/metrics"
	"multa-analyzer/api/internal/util"
)

type Service struct {
	engine Engine
	log    zerolog.Logger
}

func NewService(engine Engine, log zerolog.Logger) *Service {
	return &Service{
		engine: engine,
		log:    log.With().Str("engine", engine.Name()).Str("model", engine.Model()).Logger(),
	}
}

// Analyze turns an image reference (data URL or remote URL) into the model's
// JSON object. The object is returned as parsed; no field is validated or
// defaulted here.
func (s *Service) Analyze(ctx context.Context, imageRef string) (out Analysis, err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = string(CodeOf(err))
		}
		metrics.ObserveAnalysis(s.engine.Name(), result, time.Since(start))
	}()

	imageRef = strings.TrimSpace(imageRef)
	if imageRef == "" {
		return nil, newError(CodeInvalidInput, "image reference is required", nil)
	}

	s.log.Info().Bool("data_url", util.IsDataURL(imageRef)).Int("ref_len", len(imageRef)).Msg("starting notice analysis")

	content, err := s.engine.Complete(ctx, Prompt, imageRef)
	if err != nil {
		s.log.Error().Err(err).Msg("model call failed")
		return nil, newError(CodeUpstreamFailure, "model call failed", err)
	}
	content = util.StripCodeFences(content)
	if content == "" {
		s.log.Warn().Msg("model returned no content")
		return nil, newError(CodeEmptyResponse, "model returned no content", nil)
	}

	if err := json.Unmarshal([]byte(content), &out); err != nil {
		s.log.Warn().Err(err).Str("content", util.Truncate(content, 200)).Msg("model returned malformed JSON")
		return nil, newError(CodeMalformedResponse, "model returned malformed JSON", err)
	}
	if out == nil {
		// literal null
		return nil, newError(CodeMalformedResponse, "model returned malformed JSON", errNotObject)
	}

	s.log.Info().Dur("took", time.Since(start)).Int("fields", len(out)).Msg("notice analysis finished")
	return out, nil
}
