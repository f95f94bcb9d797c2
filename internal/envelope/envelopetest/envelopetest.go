// Package envelopetest provides throwaway key material for tests.
package envelopetest

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/SscSPs/bank_webhook_ledger/internal/envelope"
)

var (
	poolOnce sync.Once
	pool     []*rsa.PrivateKey
	poolErr  error
)

// keys returns a small set of 2048-bit keys generated once per test binary.
func keys(t testing.TB) []*rsa.PrivateKey {
	t.Helper()
	poolOnce.Do(func() {
		for range 3 {
			k, err := rsa.GenerateKey(rand.Reader, envelope.KeyBits)
			if err != nil {
				poolErr = err
				return
			}
			pool = append(pool, k)
		}
	})
	if poolErr != nil {
		t.Fatalf("generating test keys: %v", poolErr)
	}
	return pool
}

// Keyring builds a keyring for banks. Banks share keys round-robin from a fixed pool.
func Keyring(t testing.TB, banks ...domain.BankID) *envelope.Keyring {
	t.Helper()
	pool := keys(t)
	material := make(map[domain.BankID]envelope.BankKeys, len(banks))
	for i, bank := range banks {
		k := pool[1+i%(len(pool)-1)]
		material[bank] = envelope.BankKeys{Public: &k.PublicKey, Private: k}
	}
	ring, err := envelope.NewKeyring(pool[0], material)
	if err != nil {
		t.Fatalf("building test keyring: %v", err)
	}
	return ring
}

// Sealer builds a Sealer over a fresh test keyring for banks.
func Sealer(t testing.TB, banks ...domain.BankID) *envelope.Sealer {
	t.Helper()
	return envelope.NewSealer(Keyring(t, banks...), nil)
}
