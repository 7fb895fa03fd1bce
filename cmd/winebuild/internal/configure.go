package internal

import (
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:       "configure <kind>...",
	Short:     "Configure the projects of the given kinds",
	Long:      `Configure resolves each kind into its projects, applies the option scripts and runs the configure step of every project in order.`,
	Example:   "  winebuild configure wine dxvk-mingw",
	Args:      kindArgs,
	ValidArgs: validKinds(),
	RunE:      runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	return run(cmd, args, 0)
}
