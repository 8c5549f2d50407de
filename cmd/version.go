package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fpltracker.",
	Long: `Display build information for this binary.

Shows the release version, the git commit it was built from, the build
timestamp and the Go runtime version. Include this output when reporting
bugs or checking that an installation picked up the expected release.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("fpltracker CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}
