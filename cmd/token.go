package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/storycache/auth"
)

var errNoSigningKey = errors.New("auth.signing_key is not configured")

func newTokenCmd(root *rootOptions) *cobra.Command {
	var (
		subject string
		roles   []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an HS256 token for the admin endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.Auth.SigningKey == "" {
				return errNoSigningKey
			}

			tok, err := auth.SignHS256([]byte(cfg.Auth.SigningKey), auth.TokenSpec{
				Subject:  subject,
				Roles:    roles,
				Issuer:   cfg.Auth.Issuer,
				Audience: cfg.Auth.Audience,
				TTL:      ttl,
			}, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject (required)")
	cmd.Flags().StringSliceVar(&roles, "role", []string{"admin"}, "Roles to grant")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
