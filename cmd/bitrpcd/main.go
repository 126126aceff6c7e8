// Command bitrpcd runs the BitRPC demo server and client.
package main

import (
	"fmt"
	"os"

	"github.com/bitrpc/bitrpc/cmd/bitrpcd/commands"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
