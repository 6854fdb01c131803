// Package cli implements the tikfetch-server command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/topclip/tikfetch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "tikfetch-server",
	Short:   "Backend service that resolves and downloads TikTok videos",
	Version: version.Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
