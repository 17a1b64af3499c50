// Package report turns batch results into summaries, exit-status
// classification and terminal output.
package report

import (
	"fmt"

	"github.com/sgaunet/repoherd/pkg/batch"
)

// Status classifies a finished batch for exit-code purposes.
type Status string

const (
	// StatusAllSuccess means no target failed. Skipped targets do not
	// count against the batch.
	StatusAllSuccess Status = "all-success"
	// StatusPartialFailure means some targets failed and some succeeded.
	StatusPartialFailure Status = "partial-failure"
	// StatusTotalFailure means targets failed and none succeeded.
	StatusTotalFailure Status = "total-failure"
)

// ExitCode maps the status onto the process exit code: 0 when everything
// succeeded, 1 for any failure. Configuration errors exit with 2 before a
// batch ever runs, so they never reach this mapping.
func (s Status) ExitCode() int {
	if s == StatusAllSuccess {
		return 0
	}
	return 1
}

// Summary tallies one batch run by outcome.
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Summarize counts the report's results.
func Summarize(r *batch.Report) Summary {
	succeeded, failed, skipped := r.Counts()
	return Summary{Succeeded: succeeded, Failed: failed, Skipped: skipped}
}

// Classify derives the batch status. An empty batch is a success.
func (s Summary) Classify() Status {
	switch {
	case s.Failed == 0:
		return StatusAllSuccess
	case s.Succeeded == 0:
		return StatusTotalFailure
	default:
		return StatusPartialFailure
	}
}

// String renders the summary as a one-line tally.
func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped", s.Succeeded, s.Failed, s.Skipped)
}
