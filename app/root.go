// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/apitemplate/apitemplate/internal/config"
)

var (
	configPath string         // Path to the configuration directory
	cfg        *config.Config // settings loaded by loadConfig

	rootCmd = &cobra.Command{
		Use:   "apitemplate",
		Short: "apitemplate is a REST API service template",
		Long: `apitemplate is a REST API service template built on fiber and gorm.
It serves CRUD resources backed by MySQL, PostgreSQL or SQLite.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		"",
		"config directory containing "+config.FileName+" (default $"+config.PathEnv+" or "+config.DefaultPath+")",
	)
}

// loadConfig reads the settings into cfg, used as PreRunE of commands needing them.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if configPath == "" {
		cfg, err = config.Get()
	} else {
		cfg, err = config.Load(configPath)
	}

	return err
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
