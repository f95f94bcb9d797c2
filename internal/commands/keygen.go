package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/envelope"
	"github.com/SscSPs/bank_webhook_ledger/internal/platform/config"
)

func newKeygenCommand() *cobra.Command {
	var dir string
	var bits int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the service key pair and one key pair per registered bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := config.LoadConfig()
				if err != nil {
					return err
				}
				dir = cfg.KeysDir
			}
			if bits < envelope.KeyBits {
				return fmt.Errorf("key size must be at least %d bits, got %d", envelope.KeyBits, bits)
			}

			// key files only depend on which banks are registered
			banks := services.NewDefaultRegistry(nil).Banks()
			written, err := envelope.GenerateKeyFiles(dir, banks, bits)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated keys for %d banks in %s\n", len(banks), dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "output directory (defaults to KEYS_DIR)")
	cmd.Flags().IntVar(&bits, "bits", envelope.KeyBits, "RSA key size")

	return cmd
}
