package client

import (
	"context"

	"multa-analyzer/api/internal/ocr"
)

// Analyzer is either the in-process ocr.Service or an APIClient.
type Analyzer interface {
	Analyze(ctx context.Context, imageRef string) (ocr.Analysis, error)
}

type Screen string

const (
	ScreenUpload        Screen = "upload"
	ScreenAnalise       Screen = "analise"
	ScreenServicos      Screen = "servicos"
	ScreenIdentificacao Screen = "identificacao"
	ScreenConsulta      Screen = "consulta"
)

// State is the view state of one user. It is a value: Begin and Complete
// return a new State instead of mutating shared cells.
type State struct {
	Screen   Screen
	Busy     bool
	Analysis ocr.Analysis
	// Seq is the sequence number of the most recent upload.
	Seq uint64
	// LastErr is the failure of the most recent upload, nil after a success.
	LastErr error
}

func NewState() State {
	return State{Screen: ScreenUpload}
}

// Ticket identifies one upload.
type Ticket struct {
	Seq uint64
}

type Outcome string

const (
	OutcomeStored Outcome = "stored"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
	OutcomeStale  Outcome = "stale"
)

// Begin marks the state busy and issues the ticket of a new upload.
func Begin(s State) (State, Ticket) {
	s.Seq++
	s.Busy = true
	return s, Ticket{Seq: s.Seq}
}

// Complete applies the result of the upload identified by t.
// A ticket older than s.Seq is discarded so a slow earlier call never
// overwrites a later one. For the current ticket busy is cleared on every path.
func Complete(s State, t Ticket, a ocr.Analysis, err error) (State, Outcome) {
	if t.Seq != s.Seq {
		return s, OutcomeStale
	}
	s.Busy = false

	switch {
	case err != nil:
		s.LastErr = err
		return s, OutcomeFailed
	case a == nil:
		s.LastErr = nil
		return s, OutcomeEmpty
	default:
		s.Analysis = a
		s.Screen = ScreenAnalise
		s.LastErr = nil
		return s, OutcomeStored
	}
}

// Navigate switches the active screen. The stored analysis is kept.
func Navigate(s State, to Screen) State {
	s.Screen = to
	return s
}
