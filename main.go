// Greenbase finds the newest revision of a CI project whose build results
// satisfy configurable criteria and checks it out locally.
package main

import (
	"os"

	"github.com/greenbase-cli/greenbase/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
