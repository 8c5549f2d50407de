// main holds the entry logic for the fpltracker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/k1lgor/fpl-momentum-tracker/cmd"
	"github.com/k1lgor/fpl-momentum-tracker/internal/iocache"
)

// main is the entry point for the fpltracker CLI.
// It hands the global store manager to the command layer, runs the
// selected command, and tears down persistence on the way out.
func main() {
	os.Exit(run())
}

// run wraps command execution so deferred cleanup survives the exit path.
func run() int {
	cmd.SetStoreManager(iocache.Manager)
	defer iocache.CloseCaching()
	defer func() { _ = cmd.StopProfiling() }()

	if err := cmd.Execute(); err != nil {
		fmt.Println("❌", err)
		return 1
	}
	return 0
}
