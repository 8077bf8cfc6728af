package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/greenbase-cli/greenbase/schema"
)

// WriteHistoryStatus renders the history store status summary.
func WriteHistoryStatus(w io.Writer, status schema.HistoryStatus, output schema.OutputMode) error {
	if output == schema.JSONOut {
		return writeJSON(w, status)
	}

	if _, err := fmt.Fprintf(w, "History backend: %s\n", status.Backend); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Connected:  %v\n", status.Connected); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Total runs: %d\n", status.TotalRuns); err != nil {
		return err
	}
	if !status.LastRun.IsZero() {
		if _, err := fmt.Fprintf(w, "  Last run:   %s\n", status.LastRun.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistoryRuns renders recent runs as a table, newest first.
func WriteHistoryRuns(w io.Writer, runs []schema.SearchRun, output schema.OutputMode) error {
	if output == schema.JSONOut {
		return writeJSON(w, runs)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"When", "Project", "Criteria", "Outcome", "Revision", "Scanned", "Duration"})

	var data [][]string
	for _, run := range runs {
		data = append(data, []string{
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Project,
			run.Criteria,
			string(run.Outcome),
			run.Revision,
			fmt.Sprintf("%d", run.Scanned),
			run.Duration.Round(time.Millisecond).String(),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
