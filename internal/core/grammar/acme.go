package grammar

import "github.com/SscSPs/bank_webhook_ledger/internal/core/domain"

// Acme lines look like "1234,56//12345//20240315": amount, reference, date.
// The fraction is optional.
func Acme() Grammar {
	return newRegexGrammar(domain.BankAcme,
		`^(?P<amount>\d+(,\d{2})?)//(?P<reference>\d+)//(?P<date>\d{8})$`)
}
