package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.CacheLookup("openai", true)
	m.CacheLookup("openai", true)
	m.CacheLookup("openai", false)
	m.Synthesis("openai", 1500*time.Millisecond, nil)
	m.Synthesis("inworld", time.Second, errors.New("boom"))
	m.Vote("elevenlabs")

	assert.InDelta(t, 2, testutil.ToFloat64(m.audioRequests.WithLabelValues("openai", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.audioRequests.WithLabelValues("openai", "miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.votes.WithLabelValues("elevenlabs")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.synthesisDuration))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tts_audio_requests_total{cache="hit",provider="openai"} 2`)
	assert.Contains(t, string(body), `tts_synthesis_duration_seconds_count{provider="inworld",status="error"} 1`)
}
