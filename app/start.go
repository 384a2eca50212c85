package app

import (
	"github.com/spf13/cobra"

	"github.com/apitemplate/apitemplate/internal/daemon"
)

var (
	devMode     bool
	autoMigrate bool
	listenPort  int
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode (same as DEBUG=true)")
	startCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Apply the schema of all registered models before serving")
	startCmd.Flags().IntVar(&listenPort, "port", 0, "Listen port, overrides Webserver.Port")

	rootCmd.AddCommand(startCmd)
}

// applyStartFlags overrides the loaded settings with the flags given on the command line.
func applyStartFlags(cmd *cobra.Command) {
	if devMode {
		cfg.DevMode = true
	}

	if autoMigrate {
		cfg.DB.AutoMigrate = true
	}

	if cmd.Flags().Changed("port") {
		cfg.Webserver.Port = listenPort
	}
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the web service",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd, args); err != nil {
			return err
		}

		applyStartFlags(cmd)

		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		d, err := daemon.New(cfg)
		if err != nil {
			return err
		}

		return d.Start()
	},
}
