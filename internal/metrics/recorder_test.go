package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/batchwatch/internal/engine"
	"github.com/dm/batchwatch/internal/model"
)

func TestRecordPoll(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordPoll(engine.PollResultOK, 120*time.Millisecond)
	r.RecordPoll(engine.PollResultOK, 80*time.Millisecond)
	r.RecordPoll(engine.PollResultError, time.Second)
	r.RecordPoll(engine.PollResultSkipped, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.pollTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.pollTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.pollTotal.WithLabelValues("skipped")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.pollDuration))

	count, err := testutil.GatherAndCount(r.Registry(), "batchwatch_poll_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordTransitionAndSkipped(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordTransition(model.StatusRunning, model.StatusCompleted)
	r.RecordTransition(model.StatusRunning, model.StatusCompleted)
	r.RecordTransition(model.StatusDraft, model.StatusScheduled)
	r.RecordSkippedRecords(3)
	r.RecordSkippedRecords(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.transitionsTotal.WithLabelValues("running", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitionsTotal.WithLabelValues("draft", "scheduled")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.skippedTotal))
}

func TestSetConnectionState(t *testing.T) {
	r := NewPrometheusRecorder()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.connectionState.WithLabelValues("idle")))

	r.SetConnectionState(model.StateError)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.connectionState.WithLabelValues("idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.connectionState.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.connectionState.WithLabelValues("connected")))
}

func TestServer(t *testing.T) {
	r := NewPrometheusRecorder()
	r.RecordPoll(engine.PollResultOK, 10*time.Millisecond)

	s, err := Listen("127.0.0.1:0", r, nil)
	require.NoError(t, err)

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `batchwatch_polls_total{result="ok"} 1`))
	assert.Contains(t, string(body), "go_goroutines")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}
