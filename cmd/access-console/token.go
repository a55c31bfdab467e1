package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"access-console/internal/infrastructure/auth"
)

func newTokenCmd() *cobra.Command {
	var secret, operator string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for AUTH_MODE=jwt",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" || operator == "" {
				return errors.New("--secret and --operator are required")
			}
			token, err := auth.IssueToken(secret, operator, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (AUTH_JWT_SECRET)")
	cmd.Flags().StringVar(&operator, "operator", "", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
