// Package commands implements the ledgerctl operator CLI.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the bank webhook ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newKeygenCommand())
	rootCmd.AddCommand(newTokenCommand())
	rootCmd.AddCommand(newAccountCommand())

	return rootCmd
}
