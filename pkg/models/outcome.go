package models

import "fmt"

// Status is the terminal state of a composite workflow.
type Status string

const (
	// StatusCompleted means no step failed.
	StatusCompleted Status = "completed"
	// StatusCompletedWithFailures means at least one step failed but the
	// workflow still produced a usable result.
	StatusCompletedWithFailures Status = "completed_with_failures"
	// StatusFailed means the workflow produced no usable result.
	StatusFailed Status = "failed"
)

// Outcome accumulates the result of one composite workflow run: an ordered
// log, the bin clips and placements it created, and a terminal status.
// It lives for one invocation and is returned to the caller, never stored.
type Outcome struct {
	RunID    string       `json:"run_id"`
	Status   Status       `json:"status"`
	Log      []string     `json:"log"`
	Clips    []ClipRef    `json:"clips,omitempty"`
	Placed   []PlacedClip `json:"placed,omitempty"`
	Failures int          `json:"failures"`
}

// Logf appends a formatted line to the outcome log.
func (o *Outcome) Logf(format string, args ...any) {
	o.Log = append(o.Log, fmt.Sprintf(format, args...))
}

// Failf appends a formatted line and bumps the failure counter.
func (o *Outcome) Failf(format string, args ...any) {
	o.Failures++
	o.Logf(format, args...)
}

// Finish sets the terminal status from the failure counter: Completed when
// nothing failed, CompletedWithFailures otherwise. Workflows that produced
// no usable result set StatusFailed directly instead of calling Finish.
func (o *Outcome) Finish() {
	if o.Failures > 0 {
		o.Status = StatusCompletedWithFailures
		return
	}
	o.Status = StatusCompleted
}
