package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/priyxstudio/treesize/system"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the current executable version and exits.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "treesize v%s (%s %s/%s)\n", system.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
