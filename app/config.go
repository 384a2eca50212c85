package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apitemplate/apitemplate/internal/config"
)

func init() { //nolint: gochecknoinits
	configDumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON instead of TOML")

	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	configDumpCmd = &cobra.Command{
		Use:     "dump",
		Short:   "Print the merged configuration of defaults, file, .env and environment",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}
)
