package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/grammar"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/services"
)

func TestStrategyRegistry(t *testing.T) {
	registry := services.NewDefaultRegistry(new(MockLedgerStore))

	assert.Equal(t, []domain.BankID{domain.BankAcme, domain.BankFoodics}, registry.Banks())

	acme, err := registry.Resolve(domain.BankAcme)
	require.NoError(t, err)
	assert.Equal(t, domain.BankAcme, acme.Bank())

	foodics, err := registry.Resolve(domain.BankFoodics)
	require.NoError(t, err)
	assert.Equal(t, domain.BankFoodics, foodics.Bank())

	_, err = registry.Resolve("globex")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedBank)

	_, err = registry.Resolve("")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedBank)
}

func TestStrategyRegistry_DuplicateBankPanics(t *testing.T) {
	store := new(MockLedgerStore)
	assert.Panics(t, func() {
		services.NewStrategyRegistry(services.NewGrammarStrategy(grammar.Acme(), store), services.NewGrammarStrategy(grammar.Acme(), store))
	})
}

// brokenGrammar fails every line with an error that is not a parse rejection.
type brokenGrammar struct{}

func (brokenGrammar) Bank() domain.BankID { return "globex" }

func (brokenGrammar) Parse(string) (domain.TransactionCandidate, error) {
	return domain.TransactionCandidate{}, errors.New("grammar table unavailable")
}

func TestGrammarRegistry_FromSet(t *testing.T) {
	store := new(MockLedgerStore)
	registry := services.NewGrammarRegistry(grammar.NewSet(grammar.Foodics(), brokenGrammar{}), store)

	assert.Equal(t, []domain.BankID{domain.BankFoodics, "globex"}, registry.Banks())
	_, err := registry.Resolve(domain.BankAcme)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedBank)

	globex, err := registry.Resolve("globex")
	require.NoError(t, err)
	res := globex.Import(context.Background(), "anything", portssvc.ImportContext{AccountID: "acc-1"})
	assert.Equal(t, portssvc.OutcomeFailed, res.Outcome)
	assert.False(t, res.Retryable)
	assert.Empty(t, store.Calls)
}
