package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObserveAnalysis(t *testing.T) {
	before := testutil.ToFloat64(AnalysesTotal.WithLabelValues("test-engine", "ok"))
	ObserveAnalysis("test-engine", "ok", 1500*time.Millisecond)
	ObserveAnalysis("test-engine", "malformed_response", time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(AnalysesTotal.WithLabelValues("test-engine", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(AnalysesTotal.WithLabelValues("test-engine", "malformed_response")))
}
