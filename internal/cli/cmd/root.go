// Package cmd defines the webdeck command-line interface.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/webdeck/webdeck/internal/bootstrap"
	"github.com/webdeck/webdeck/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "webdeck",
	Short: "Desktop shell hosting web platforms as isolated sessions",
	Long: `Webdeck hosts multiple third-party web applications as isolated
child views stacked beneath a tab strip in one native window. Each
platform gets its own storage partition; downloads are mediated by the
shell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.NewFromEnv()
		ctx := logging.WithContext(context.Background(), logger)
		os.Exit(bootstrap.Run(ctx))
		return nil
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}
