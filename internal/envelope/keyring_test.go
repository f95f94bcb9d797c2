package envelope

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndLoadKeyring(t *testing.T) {
	dir := t.TempDir()
	banks := []domain.BankID{domain.BankAcme, domain.BankFoodics}

	written, err := GenerateKeyFiles(dir, banks, KeyBits)
	require.NoError(t, err)
	assert.Len(t, written, 6)
	for _, name := range []string{"private.pem", "public.pem", "acme_private.pem", "acme_public.pem", "foodics_private.pem", "foodics_public.pem"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	ring, err := LoadKeyring(dir, banks, nil)
	require.NoError(t, err)
	_, err = ring.keys("globex")
	assert.ErrorIs(t, err, ErrUnknownCounterparty)

	sealer := NewSealer(ring, nil)
	env, err := sealer.Seal(domain.BankFoodics, map[string]string{"status": "ok"})
	require.NoError(t, err)
	raw, err := sealer.Open(domain.BankFoodics, env.CipherText, env.Signature)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestLoadKeyring_MissingOrInvalid(t *testing.T) {
	dir := t.TempDir()
	_, err := GenerateKeyFiles(dir, []domain.BankID{domain.BankAcme}, KeyBits)
	require.NoError(t, err)

	// foodics has no files at all
	_, err = LoadKeyring(dir, []domain.BankID{domain.BankAcme, domain.BankFoodics}, nil)
	assert.ErrorIs(t, err, ErrKey)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme_public.pem"), []byte("not a key"), 0o644))
	_, err = LoadKeyring(dir, []domain.BankID{domain.BankAcme}, nil)
	assert.ErrorIs(t, err, ErrKey)

	require.NoError(t, os.Remove(filepath.Join(dir, "private.pem")))
	_, err = LoadKeyring(dir, nil, nil)
	assert.ErrorIs(t, err, ErrKey)
}

func TestNewKeyring_RejectsWrongSize(t *testing.T) {
	small, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	_, err = NewKeyring(small, nil)
	assert.ErrorIs(t, err, ErrKey)
	_, err = NewKeyring(nil, nil)
	assert.ErrorIs(t, err, ErrKey)
}

// signedOpen signs cipherText with the bank key so that only the payload checks can fail.
func signedOpen(t *testing.T, s *Sealer, bank domain.BankID, cipherText string) error {
	t.Helper()
	keys, err := s.keys.keys(bank)
	require.NoError(t, err)
	digest := sha256.Sum256([]byte(cipherText))
	sig, err := rsa.SignPKCS1v15(rand.Reader, keys.Private, crypto.SHA256, digest[:])
	require.NoError(t, err)
	_, err = s.Open(bank, cipherText, base64.StdEncoding.EncodeToString(sig))
	return err
}

func TestOpen_MalformedPayloadWithValidSignature(t *testing.T) {
	dir := t.TempDir()
	_, err := GenerateKeyFiles(dir, []domain.BankID{domain.BankAcme}, KeyBits)
	require.NoError(t, err)
	ring, err := LoadKeyring(dir, []domain.BankID{domain.BankAcme}, nil)
	require.NoError(t, err)
	s := NewSealer(ring, nil)
	keys, _ := ring.keys(domain.BankAcme)

	// wrong width
	assert.ErrorIs(t, signedOpen(t, s, domain.BankAcme, "abc"), ErrMalformedPayload)
	assert.ErrorIs(t, signedOpen(t, s, domain.BankAcme, ""), ErrMalformedPayload)

	// right width, not base64
	assert.ErrorIs(t, signedOpen(t, s, domain.BankAcme, strings.Repeat("*", BlockWidth)), ErrMalformedPayload)

	// right width, valid base64, garbage ciphertext
	garbage := base64.StdEncoding.EncodeToString(make([]byte, 256))
	assert.ErrorIs(t, signedOpen(t, s, domain.BankAcme, garbage), ErrMalformedPayload)

	// decrypts fine, but the plaintext is not JSON
	block, err := rsa.EncryptPKCS1v15(rand.Reader, keys.Public, []byte("{not json"))
	require.NoError(t, err)
	assert.ErrorIs(t, signedOpen(t, s, domain.BankAcme, base64.StdEncoding.EncodeToString(block)), ErrMalformedPayload)
}
