package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

// NewRootCmd assembles the lodgr command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lodgr",
		Short:         "lodgr - property booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the dotenv config file")

	root.AddCommand(serveCmd())
	root.AddCommand(workerCmd())
	root.AddCommand(migrateCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
