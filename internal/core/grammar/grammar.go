// Package grammar turns raw bank webhook lines into transaction candidates.
//
// Each bank sends one transaction per line in its own fixed format. A grammar is
// a pure function of the line: it never touches the store and never panics.
package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/bank_webhook_ledger/internal/apperrors"
	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrParse is returned for lines that do not match a bank's format.
var ErrParse = fmt.Errorf("%w: malformed transaction line", apperrors.ErrValidation)

const dateLayout = "20060102"

// MaxAmountDigits bounds the integer part of a parsed amount. Ledger columns hold 18
// integer digits; the rest is headroom for balances.
const MaxAmountDigits = 15

// Grammar parses one bank's line format.
type Grammar interface {
	Bank() domain.BankID
	Parse(line string) (domain.TransactionCandidate, error)
}

// regexGrammar is a Grammar driven by a single anchored pattern with named groups.
// amount, reference and date are required groups; extra lists the named groups copied into metadata.
type regexGrammar struct {
	bank    domain.BankID
	pattern *regexp.Regexp
	extra   []string
}

func newRegexGrammar(bank domain.BankID, pattern string, extra ...string) *regexGrammar {
	re := regexp.MustCompile(pattern)
	for _, name := range append([]string{"amount", "reference", "date"}, extra...) {
		if re.SubexpIndex(name) < 0 {
			panic(fmt.Sprintf("grammar %s: pattern lacks group %q", bank, name))
		}
	}
	return &regexGrammar{bank: bank, pattern: re, extra: extra}
}

func (g *regexGrammar) Bank() domain.BankID {
	return g.bank
}

func (g *regexGrammar) Parse(line string) (domain.TransactionCandidate, error) {
	m := g.pattern.FindStringSubmatch(line)
	if m == nil {
		return domain.TransactionCandidate{}, fmt.Errorf("%w: %s line does not match", ErrParse, g.bank)
	}
	group := func(name string) string { return m[g.pattern.SubexpIndex(name)] }

	amount, err := parseCommaAmount(group("amount"))
	if err != nil {
		return domain.TransactionCandidate{}, err
	}
	date, err := time.Parse(dateLayout, group("date"))
	if err != nil {
		return domain.TransactionCandidate{}, fmt.Errorf("%w: invalid date %q", ErrParse, group("date"))
	}

	meta := map[string]string{domain.MetaBank: string(g.bank)}
	for _, name := range g.extra {
		meta[name] = group(name)
	}

	return domain.TransactionCandidate{
		Amount:    amount,
		Reference: group("reference"),
		Date:      date,
		Metadata:  meta,
	}, nil
}

// parseCommaAmount parses amounts written with a comma decimal separator, e.g. "1234,56".
func parseCommaAmount(raw string) (decimal.Decimal, error) {
	whole, _, _ := strings.Cut(raw, ",")
	if len(strings.TrimLeft(whole, "0")) > MaxAmountDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q exceeds %d integer digits", ErrParse, raw, MaxAmountDigits)
	}
	amount, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid amount %q", ErrParse, raw)
	}
	return amount, nil
}

// Set holds the grammars known to the service, keyed by bank.
type Set struct {
	grammars map[domain.BankID]Grammar
}

// NewSet builds a Set. It panics if two grammars claim the same bank.
func NewSet(grammars ...Grammar) *Set {
	s := &Set{grammars: make(map[domain.BankID]Grammar, len(grammars))}
	for _, g := range grammars {
		if _, exists := s.grammars[g.Bank()]; exists {
			panic(fmt.Sprintf("grammar for bank %q registered twice", g.Bank()))
		}
		s.grammars[g.Bank()] = g
	}
	return s
}

// Default returns the grammars of every supported bank.
func Default() *Set {
	return NewSet(Acme(), Foodics())
}

// Get returns the grammar for bank, or nil if there is none.
func (s *Set) Get(bank domain.BankID) Grammar {
	return s.grammars[bank]
}

// Banks lists the registered banks in lexical order.
func (s *Set) Banks() []domain.BankID {
	banks := make([]domain.BankID, 0, len(s.grammars))
	for b := range s.grammars {
		banks = append(banks, b)
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i] < banks[j] })
	return banks
}

// IsParseError reports whether err came from a grammar rejecting a line.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
