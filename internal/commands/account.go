package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/dto"
	"github.com/SscSPs/bank_webhook_ledger/internal/platform/config"
	"github.com/SscSPs/bank_webhook_ledger/internal/repositories/database"
)

func newAccountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage ledger accounts",
	}
	accountCmd.AddCommand(newAccountCreateCommand())
	return accountCmd
}

func newAccountCreateCommand() *cobra.Command {
	var name, balance, status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account in the configured ledger store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opening, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			repos, closeStore, err := database.OpenLedgerStore(ctx, cfg, logger, database.OpenOptions{Migrate: true})
			if err != nil {
				return err
			}
			defer closeStore()

			svc := services.NewAccountService(repos.AccountRepo, repos.LedgerRepo)
			account, err := svc.CreateAccount(ctx, dto.CreateAccountRequest{
				Name:    name,
				Balance: opening,
				Status:  domain.AccountStatus(status),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
				account.AccountID, account.Name, account.Balance.StringFixed(2), account.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "unique account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&status, "status", string(domain.AccountActive), "active or pending")

	return cmd
}
