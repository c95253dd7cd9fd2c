package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multa-analyzer/api/internal/ocr"
)

type stubAnalyzer struct {
	mu    sync.Mutex
	refs  []string
	fn    func(ref string) (ocr.Analysis, error)
	calls int
}

func (s *stubAnalyzer) Analyze(_ context.Context, ref string) (ocr.Analysis, error) {
	s.mu.Lock()
	s.calls++
	s.refs = append(s.refs, ref)
	s.mu.Unlock()
	return s.fn(ref)
}

func TestBeginComplete_Stored(t *testing.T) {
	s, tk := Begin(NewState())
	assert.True(t, s.Busy)
	assert.Equal(t, uint64(1), tk.Seq)

	a := ocr.Analysis{"pontos": float64(5)}
	s, out := Complete(s, tk, a, nil)
	assert.Equal(t, OutcomeStored, out)
	assert.False(t, s.Busy)
	assert.Equal(t, ScreenAnalise, s.Screen)
	assert.Equal(t, a, s.Analysis)
}

func TestComplete_ReplacesWholesale(t *testing.T) {
	s, tk := Begin(NewState())
	s, _ = Complete(s, tk, ocr.Analysis{"tipo": "A", "condutor": "Maria"}, nil)
	s, tk = Begin(s)
	s, _ = Complete(s, tk, ocr.Analysis{"tipo": "B"}, nil)
	assert.Equal(t, ocr.Analysis{"tipo": "B"}, s.Analysis)
}

func TestComplete_EmptyResultKeepsView(t *testing.T) {
	s := Navigate(NewState(), ScreenServicos)
	s, tk := Begin(s)
	s, out := Complete(s, tk, nil, nil)
	assert.Equal(t, OutcomeEmpty, out)
	assert.False(t, s.Busy)
	assert.Equal(t, ScreenServicos, s.Screen)
	assert.Nil(t, s.Analysis)
	assert.NoError(t, s.LastErr)
}

// Failures do not advance the view, but unlike the original web client they
// are kept in LastErr so front-ends can show them instead of only logging.
func TestComplete_FailureIsSurfacedInState(t *testing.T) {
	s, tk := Begin(NewState())
	s, _ = Complete(s, tk, ocr.Analysis{"tipo": "A"}, nil)
	s = Navigate(s, ScreenUpload)

	boom := &ocr.Error{Code: ocr.CodeEmptyResponse, Message: "model returned no content"}
	s, tk = Begin(s)
	s, out := Complete(s, tk, nil, boom)
	assert.Equal(t, OutcomeFailed, out)
	assert.False(t, s.Busy)
	assert.Equal(t, ScreenUpload, s.Screen)
	assert.Equal(t, ocr.Analysis{"tipo": "A"}, s.Analysis)
	assert.ErrorIs(t, s.LastErr, ocr.ErrEmptyResponse)

	s, tk = Begin(s)
	s, _ = Complete(s, tk, ocr.Analysis{"tipo": "B"}, nil)
	assert.NoError(t, s.LastErr)
}

func TestComplete_StaleTicketDiscarded(t *testing.T) {
	s, first := Begin(NewState())
	s, second := Begin(s)

	s, out := Complete(s, second, ocr.Analysis{"tipo": "second"}, nil)
	assert.Equal(t, OutcomeStored, out)

	s, out = Complete(s, first, ocr.Analysis{"tipo": "first"}, nil)
	assert.Equal(t, OutcomeStale, out)
	assert.Equal(t, "second", s.Analysis["tipo"])
}

func TestComplete_StaleDoesNotClearBusy(t *testing.T) {
	s, first := Begin(NewState())
	s, _ = Begin(s)
	s, out := Complete(s, first, nil, errors.New("late failure"))
	assert.Equal(t, OutcomeStale, out)
	assert.True(t, s.Busy)
	assert.NoError(t, s.LastErr)
}

func TestSession_HandleUpload(t *testing.T) {
	an := &stubAnalyzer{fn: func(string) (ocr.Analysis, error) {
		return ocr.Analysis{"gravidade": "grave"}, nil
	}}
	sess := NewSession(an, zerolog.Nop())

	st, out := sess.HandleUpload(context.Background(), strings.NewReader("AAA"), "image/png")
	assert.Equal(t, OutcomeStored, out)
	assert.False(t, st.Busy)
	assert.Equal(t, ScreenAnalise, st.Screen)
	assert.Equal(t, []string{"data:image/png;base64,QUFB"}, an.refs)
	assert.Equal(t, st, sess.State())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestSession_ReadFailureClearsBusy(t *testing.T) {
	an := &stubAnalyzer{fn: func(string) (ocr.Analysis, error) { return nil, nil }}
	sess := NewSession(an, zerolog.Nop())

	st, out := sess.HandleUpload(context.Background(), failingReader{}, "image/png")
	assert.Equal(t, OutcomeFailed, out)
	assert.False(t, st.Busy)
	assert.EqualError(t, st.LastErr, "read failed")
	assert.Zero(t, an.calls)
}

func TestSession_SlowFirstUploadCannotClobberSecond(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	an := &stubAnalyzer{fn: func(ref string) (ocr.Analysis, error) {
		if strings.HasSuffix(ref, "c2xvdw==") { // "slow"
			close(started)
			<-release
			return ocr.Analysis{"tipo": "slow"}, nil
		}
		return ocr.Analysis{"tipo": "fast"}, nil
	}}
	sess := NewSession(an, zerolog.Nop())

	var wg sync.WaitGroup
	var slowOutcome Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowOutcome = sess.HandleUpload(context.Background(), strings.NewReader("slow"), "image/jpeg")
	}()
	<-started

	st, out := sess.HandleUpload(context.Background(), strings.NewReader("fast"), "image/jpeg")
	require.Equal(t, OutcomeStored, out)
	assert.Equal(t, "fast", st.Analysis["tipo"])

	close(release)
	wg.Wait()

	assert.Equal(t, OutcomeStale, slowOutcome)
	final := sess.State()
	assert.Equal(t, "fast", final.Analysis["tipo"])
	assert.False(t, final.Busy)
	assert.Equal(t, uint64(2), final.Seq)
}
