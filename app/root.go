// Package app implements the relaone-web commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/relaone/relaone-web/internal/config"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config
	err        error
)

var rootCmd = &cobra.Command{
	Use:   "relaone-web",
	Short: "relaone-web serves the RelaOne volunteering platform pages",
	Long: `relaone-web serves the RelaOne volunteering platform pages.
It keeps one client session per browser against the RelaOne API
and guards every page by the signed-in user's role.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "directory holding main.toml (default ./etc/)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func readConfig() error {
	cfg, err = config.ReadConfig(configPath)

	return err
}
