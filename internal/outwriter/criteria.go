package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/greenbase-cli/greenbase/schema"
)

// WriteCriteriaGroups renders the saved criteria groups, one table per group.
func WriteCriteriaGroups(w io.Writer, groups []schema.CheckGroup, output schema.OutputMode) error {
	if output == schema.JSONOut {
		return writeJSON(w, groups)
	}

	maxPatternWidth := terminalWidth() / 3

	for _, group := range groups {
		if _, err := fmt.Fprintf(w, "%s\n", group.Name); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Build Variant Regexes", "Success %", "Run %", "Successful Tasks", "Run Tasks"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})

		var data [][]string
		for _, rule := range group.Rules {
			data = append(data, []string{
				truncateList(rule.VariantPatterns, maxPatternWidth),
				formatThreshold(rule.SuccessThreshold),
				formatThreshold(rule.RunThreshold),
				strings.Join(rule.SuccessfulTasks, "\n"),
				strings.Join(rule.RunTasks, "\n"),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// formatThreshold renders an optional threshold, blank when unset.
func formatThreshold(t *float64) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%g", *t)
}

// truncateList joins items on newlines, truncating each to maxWidth with an
// ellipsis prefix.
func truncateList(items []string, maxWidth int) string {
	out := make([]string, len(items))
	for i, item := range items {
		runes := []rune(item)
		if len(runes) > maxWidth && maxWidth > 3 {
			item = "..." + string(runes[len(runes)-maxWidth+3:])
		}
		out[i] = item
	}
	return strings.Join(out, "\n")
}
