package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/bank_webhook_ledger/internal/platform/config"
	"github.com/SscSPs/bank_webhook_ledger/internal/utils"
)

func newTokenCommand() *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.JWTExpiryDuration
			}
			token, err := utils.GenerateJWT(subject, cfg.JWTSecret, ttl, cfg.JWTIssuer, time.Now())
			if err != nil {
				return fmt.Errorf("minting token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "account name (required)")
	_ = cmd.MarkFlagRequired("subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRY_DURATION)")

	return cmd
}
