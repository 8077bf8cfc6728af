package contract

import (
	"os"

	log "github.com/charmbracelet/log"
)

// ConfigureLogging sets the global log level. Debug logging covers the search
// loop, evaluator decisions and git invocations.
func ConfigureLogging(verbose bool) {
	log.SetReportTimestamp(false)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}
