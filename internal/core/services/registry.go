package services

import (
	"fmt"
	"sort"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/grammar"
	portsrepo "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_webhook_ledger/internal/core/ports/services"
)

// StrategyRegistry maps bank identifiers to their ingestion strategy.
// It is built once at startup and never modified.
type StrategyRegistry struct {
	strategies map[domain.BankID]portssvc.IngestionStrategy
}

var _ portssvc.StrategyResolver = (*StrategyRegistry)(nil)

// NewStrategyRegistry panics if two strategies claim the same bank.
func NewStrategyRegistry(strategies ...portssvc.IngestionStrategy) *StrategyRegistry {
	m := make(map[domain.BankID]portssvc.IngestionStrategy, len(strategies))
	for _, s := range strategies {
		if _, dup := m[s.Bank()]; dup {
			panic(fmt.Sprintf("duplicate ingestion strategy for bank %q", s.Bank()))
		}
		m[s.Bank()] = s
	}
	return &StrategyRegistry{strategies: m}
}

// NewGrammarRegistry registers one grammar-driven strategy per bank of set.
func NewGrammarRegistry(set *grammar.Set, store portsrepo.LedgerStore) *StrategyRegistry {
	banks := set.Banks()
	strategies := make([]portssvc.IngestionStrategy, 0, len(banks))
	for _, bank := range banks {
		strategies = append(strategies, NewGrammarStrategy(set.Get(bank), store))
	}
	return NewStrategyRegistry(strategies...)
}

// NewDefaultRegistry registers every supported bank against store.
func NewDefaultRegistry(store portsrepo.LedgerStore) *StrategyRegistry {
	return NewGrammarRegistry(grammar.Default(), store)
}

// Resolve returns the strategy for bank or apperrors.ErrUnsupportedBank.
func (r *StrategyRegistry) Resolve(bank domain.BankID) (portssvc.IngestionStrategy, error) {
	s, ok := r.strategies[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedBank, bank)
	}
	return s, nil
}

// Banks returns the registered bank ids in sorted order.
func (r *StrategyRegistry) Banks() []domain.BankID {
	banks := make([]domain.BankID, 0, len(r.strategies))
	for b := range r.strategies {
		banks = append(banks, b)
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i] < banks[j] })
	return banks
}
