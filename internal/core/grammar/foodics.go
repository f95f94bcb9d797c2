package grammar

import "github.com/SscSPs/bank_webhook_ledger/internal/core/domain"

// Foodics lines look like "202403151234,56#12345#note/foo/type/PAYMENT".
// note and type are free text; note stops at the first "/type/" that leaves a valid tail.
func Foodics() Grammar {
	return newRegexGrammar(domain.BankFoodics,
		`^(?P<date>\d{8})(?P<amount>\d+,\d{2})#(?P<reference>\d+)#note/(?P<note>.*?)/type/(?P<type>.*?)$`,
		domain.MetaNote, domain.MetaType)
}
