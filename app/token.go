package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apitemplate/apitemplate/internal/security"
)

func init() { //nolint: gochecknoinits
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Subject (sub claim) of the token")
	_ = tokenCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(tokenCmd)
}

var (
	tokenSubject string

	tokenCmd = &cobra.Command{
		Use:     "token",
		Short:   "Issue a bearer access token for protected write routes",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := security.CreateAccessToken(cfg, tokenSubject)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)

			return err
		},
	}
)
