// Package paymentxml renders ledger movements as PaymentRequestMessage documents.
package paymentxml

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ContentType is the media type of a rendered document.
const ContentType = "application/xml; charset=utf-8"

// PaymentRequestMessage is the root element. Empty leaf elements are omitted;
// PaymentType and ChargeDetails are only written when they differ from the defaults.
type PaymentRequestMessage struct {
	XMLName       xml.Name     `xml:"PaymentRequestMessage"`
	TransferInfo  TransferInfo `xml:"TransferInfo"`
	SenderInfo    SenderInfo   `xml:"SenderInfo"`
	ReceiverInfo  ReceiverInfo `xml:"ReceiverInfo"`
	Notes         *Notes       `xml:"Notes,omitempty"`
	PaymentType   string       `xml:"PaymentType,omitempty"`
	ChargeDetails string       `xml:"ChargeDetails,omitempty"`
}

type TransferInfo struct {
	Reference string `xml:"Reference,omitempty"`
	Date      string `xml:"Date,omitempty"`
	Amount    string `xml:"Amount,omitempty"`
	Currency  string `xml:"Currency,omitempty"`
	Bank      string `xml:"Bank,omitempty"`
}

type SenderInfo struct {
	AccountNumber string `xml:"AccountNumber,omitempty"`
}

type ReceiverInfo struct {
	BankCode        string `xml:"BankCode,omitempty"`
	AccountNumber   string `xml:"AccountNumber,omitempty"`
	BeneficiaryName string `xml:"BeneficiaryName,omitempty"`
}

type Notes struct {
	Note []string `xml:"Note"`
}

// Payment is the flat input of New.
type Payment struct {
	Reference             string
	Date                  string
	Amount                decimal.Decimal
	Currency              string
	Bank                  string
	SenderAccountNumber   string
	ReceiverBankCode      string
	ReceiverAccountNumber string
	BeneficiaryName       string
	Notes                 []string
	PaymentType           string
	ChargeDetails         string
}

// New builds the message for p, applying the omission rules.
func New(p Payment) PaymentRequestMessage {
	msg := PaymentRequestMessage{
		TransferInfo: TransferInfo{
			Reference: p.Reference,
			Date:      p.Date,
			Amount:    p.Amount.StringFixed(2),
			Currency:  p.Currency,
			Bank:      p.Bank,
		},
		SenderInfo: SenderInfo{AccountNumber: p.SenderAccountNumber},
		ReceiverInfo: ReceiverInfo{
			BankCode:        p.ReceiverBankCode,
			AccountNumber:   p.ReceiverAccountNumber,
			BeneficiaryName: p.BeneficiaryName,
		},
	}

	var notes []string
	for _, n := range p.Notes {
		if n != "" {
			notes = append(notes, n)
		}
	}
	if len(notes) > 0 {
		msg.Notes = &Notes{Note: notes}
	}
	if p.PaymentType != domain.DefaultPaymentType {
		msg.PaymentType = p.PaymentType
	}
	if p.ChargeDetails != domain.DefaultChargeDetails {
		msg.ChargeDetails = p.ChargeDetails
	}
	return msg
}

// FromTransfer renders the confirmation of a completed transfer.
func FromTransfer(result domain.TransferResult, bankCode string) PaymentRequestMessage {
	req := result.Request
	return New(Payment{
		Reference:             req.Reference,
		Date:                  req.Date.Format(domain.DateLayout),
		Amount:                req.Amount,
		Currency:              req.Currency,
		SenderAccountNumber:   result.Sender.AccountID,
		ReceiverBankCode:      bankCode,
		ReceiverAccountNumber: result.Receiver.AccountID,
		BeneficiaryName:       result.Receiver.Name,
		Notes:                 req.Notes,
		PaymentType:           req.PaymentType,
		ChargeDetails:         req.ChargeDetails,
	})
}

// FromEntry renders one ledger entry from the point of view of its owner.
// For debits the owner is the sender; for credits the owner is the beneficiary.
func FromEntry(entry domain.LedgerEntry, owner domain.Account, bankCode string) PaymentRequestMessage {
	p := Payment{
		Reference:        entry.Reference,
		Date:             entry.EntryDate.Format(domain.DateLayout),
		Amount:           entry.AbsAmount(),
		Currency:         entry.Metadata[domain.MetaCurrency],
		Bank:             strings.ToUpper(entry.Metadata[domain.MetaBank]),
		ReceiverBankCode: bankCode,
		PaymentType:      entry.Metadata[domain.MetaPaymentType],
		ChargeDetails:    entry.Metadata[domain.MetaChargeDetails],
	}
	if note := entry.Metadata[domain.MetaNote]; note != "" {
		p.Notes = strings.Split(note, "\n")
	}
	if entry.IsDebit() {
		p.SenderAccountNumber = owner.AccountID
		p.BeneficiaryName = entry.ToLabel
	} else {
		p.ReceiverAccountNumber = owner.AccountID
		p.BeneficiaryName = owner.Name
	}
	return New(p)
}

// Render serialises msg with an XML declaration and two-space indentation.
func Render(msg PaymentRequestMessage) ([]byte, error) {
	body, err := xml.MarshalIndent(msg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering payment xml: %w", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}
