package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sgaunet/repoherd/internal/security"
	"github.com/sgaunet/repoherd/internal/timeutil"
	"github.com/sgaunet/repoherd/pkg/batch"
)

// Render writes the per-target table followed by a summary line. Failure
// messages are sanitized so credentials never reach the terminal.
func Render(w io.Writer, r *batch.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Team", "Repository", "Outcome", "Attempts", "Duration", "Details"})
	for _, res := range r.Results {
		table.Append([]string{
			res.Target.Team.Name,
			res.Target.RepoName,
			string(res.Outcome),
			strconv.Itoa(res.Attempts),
			timeutil.FormatShort(res.Duration),
			details(res),
		})
	}
	table.Render()

	summary := Summarize(r)
	fmt.Fprintf(w, "\n%s: %s (elapsed %s)\n", r.Operation, summary, timeutil.FormatDuration(r.Elapsed))
}

// RenderText writes one terse line per target, for logs and quiet mode.
func RenderText(w io.Writer, r *batch.Report) {
	for _, res := range r.Results {
		line := fmt.Sprintf("%-7s %s", res.Outcome, res.Target.RepoName)
		if d := details(res); d != "" {
			line += ": " + d
		}
		fmt.Fprintln(w, line)
	}
	summary := Summarize(r)
	fmt.Fprintf(w, "%s: %s\n", r.Operation, summary)
}

func details(res batch.Result) string {
	if res.Err != nil {
		return security.SanitizeString(res.Err.Error())
	}
	return res.Payload
}
