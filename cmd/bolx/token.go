package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bolx/internal/service"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token signed with BOLX_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if subject == "" {
				return errors.New("--subject is required")
			}

			issued, err := service.NewTokenService(&cfg.JWT).Issue(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), issued.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", issued.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringP("subject", "s", "", "token subject, e.g. a client or team name")
	cmd.Flags().Duration("ttl", 0, "token lifetime (default from BOLX_JWT_TOKEN_EXPIRY)")
	return cmd
}
