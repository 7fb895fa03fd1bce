package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildJobs int

var buildCmd = &cobra.Command{
	Use:   "build <kind>...",
	Short: "Build and install the projects of the given kinds",
	Long: `Build runs the build step of every project in build priority order, then
the install step of every project in install priority order.`,
	Example:   "  winebuild build -j8 wine",
	Args:      kindArgs,
	ValidArgs: validKinds(),
	RunE:      runBuild,
}

func init() {
	buildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "Number of parallel jobs (default: jobs in winebuild.toml, else the tool's default)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	jobs := -1
	if cmd.Flags().Changed("jobs") {
		if buildJobs <= 0 {
			return fmt.Errorf("--jobs must be a positive integer, got %d", buildJobs)
		}
		jobs = buildJobs
	}
	return run(cmd, args, jobs)
}
