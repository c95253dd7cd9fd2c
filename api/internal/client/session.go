package client

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"multa-analyzer/api/internal/metrics"
	"multa-analyzer/api/internal/ocr"
	"multa-analyzer/api/internal/util"
)

// Session owns the State of one user and serializes updates to it.
// Uploads may overlap; Complete drops the late ones.
type Session struct {
	analyzer Analyzer
	log      zerolog.Logger

	mu    sync.Mutex
	state State
}

func NewSession(analyzer Analyzer, log zerolog.Logger) *Session {
	return &Session{
		analyzer: analyzer,
		log:      log,
		state:    NewState(),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Navigate(to Screen) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Navigate(s.state, to)
	return s.state
}

// HandleUpload encodes the file as a data URL, sends it to the analyzer and
// applies the result. It returns the state right after this upload completed
// together with what happened to the result.
func (s *Session) HandleUpload(ctx context.Context, file io.Reader, mime string) (final State, outcome Outcome) {
	s.mu.Lock()
	var t Ticket
	s.state, t = Begin(s.state)
	s.mu.Unlock()

	log := s.log.With().Uint64("seq", t.Seq).Logger()

	var (
		analysis ocr.Analysis
		err      error
	)
	defer func() {
		s.mu.Lock()
		s.state, outcome = Complete(s.state, t, analysis, err)
		final = s.state
		s.mu.Unlock()

		metrics.UploadsTotal.WithLabelValues(string(outcome)).Inc()
		switch outcome {
		case OutcomeFailed:
			log.Error().Err(err).Msg("upload failed")
		case OutcomeStale:
			log.Info().Uint64("latest_seq", final.Seq).Msg("discarded result of superseded upload")
		default:
			log.Debug().Str("outcome", string(outcome)).Msg("upload finished")
		}
	}()

	ref, err := util.EncodeDataURL(file, mime)
	if err != nil {
		return
	}
	analysis, err = s.analyzer.Analyze(ctx, ref)
	return
}
