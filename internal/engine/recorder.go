package engine

import (
	"time"

	"github.com/dm/batchwatch/internal/model"
)

// Poll outcomes reported to a Recorder.
const (
	PollResultOK      = "ok"
	PollResultError   = "error"
	PollResultSkipped = "skipped"
)

// Recorder receives poller measurements. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordPoll(result string, elapsed time.Duration)
	RecordTransition(from, to model.BatchStatus)
	RecordSkippedRecords(n int)
	SetConnectionState(state model.ConnectionState)
}

type nopRecorder struct{}

func (nopRecorder) RecordPoll(string, time.Duration)                      {}
func (nopRecorder) RecordTransition(model.BatchStatus, model.BatchStatus) {}
func (nopRecorder) RecordSkippedRecords(int)                              {}
func (nopRecorder) SetConnectionState(model.ConnectionState)              {}
