package outwriter

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/greenbase-cli/greenbase/schema"
)

// WriteRevisionInfo reports the matched revision, the dependent-repository
// revisions, and any git failures encountered while applying the action.
func WriteRevisionInfo(w io.Writer, info *schema.RevisionInfo, output schema.OutputMode) error {
	if output == schema.JSONOut {
		return writeJSON(w, info)
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if _, err := green.Fprintf(w, "Found revision: %s\n", info.Revision); err != nil {
		return err
	}
	for _, name := range sortedKeys(info.DepRevisions) {
		if _, err := green.Fprintf(w, "\t%s: %s\n", name, info.DepRevisions[name]); err != nil {
			return err
		}
	}

	if len(info.Errors) > 0 {
		yellowBold := color.New(color.FgYellow, color.Bold)
		if _, err := yellowBold.Fprintf(w, "Encountered %d errors performing git operations\n", len(info.Errors)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "Conflicts may need to be manually resolved."); err != nil {
			return err
		}
		for _, name := range sortedKeys(info.Errors) {
			if _, err := yellow.Fprintf(w, "\t%s: %s\n", name, info.Errors[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteNotFound reports search exhaustion. Not an error path, but the exit
// code upstream is non-zero.
func WriteNotFound(w io.Writer, scanned int, output schema.OutputMode) error {
	if output == schema.JSONOut {
		return writeJSON(w, map[string]any{"found": false, "scanned": scanned})
	}
	_, err := color.New(color.FgRed).Fprintf(w, "No revision found (scanned %d versions)\n", scanned)
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
