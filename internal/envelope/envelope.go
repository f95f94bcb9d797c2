// Package envelope implements the encrypted and signed wire format exchanged with banks.
//
// A message is serialized to JSON, split into 64-byte chunks and each chunk is
// encrypted with RSA PKCS#1 v1.5. Every 256-byte ciphertext block base64-encodes
// to exactly 344 characters, so blocks are concatenated without a delimiter and
// split again by width. The concatenated string is signed with SHA-256.
package envelope

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
)

const (
	// ChunkSize is the plaintext size encrypted per RSA operation.
	ChunkSize = 64
	// BlockWidth is the base64 width of one 256-byte ciphertext block.
	BlockWidth = 344
)

// Envelope is the {data, signature} pair carried over the webhook transport.
type Envelope struct {
	CipherText string `json:"data"`
	Signature  string `json:"signature"`
}

// Sealer seals and opens envelopes for registered counterparties.
type Sealer struct {
	keys   *Keyring
	logger *slog.Logger
}

// NewSealer creates a Sealer backed by keys.
func NewSealer(keys *Keyring, logger *slog.Logger) *Sealer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sealer{keys: keys, logger: logger}
}

// Seal encrypts v for bank and signs the ciphertext.
//
// The signature is made with the private key held for bank, mirroring how the
// bank side seals its own messages. The service key pair is not used here.
func (s *Sealer) Seal(bank domain.BankID, v any) (Envelope, error) {
	keys, err := s.keys.keys(bank)
	if err != nil {
		s.logger.Error("Seal requested for unknown bank", slog.String("bank", string(bank)))
		return Envelope{}, err
	}

	plain, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	var sb strings.Builder
	sb.Grow((len(plain)/ChunkSize + 1) * BlockWidth)
	for start := 0; start < len(plain); start += ChunkSize {
		end := min(start+ChunkSize, len(plain))
		block, err := rsa.EncryptPKCS1v15(rand.Reader, keys.Public, plain[start:end])
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: encrypting chunk %d: %v", ErrCrypto, start/ChunkSize, err)
		}
		sb.WriteString(base64.StdEncoding.EncodeToString(block))
	}
	cipherText := sb.String()

	digest := sha256.Sum256([]byte(cipherText))
	sig, err := rsa.SignPKCS1v15(rand.Reader, keys.Private, crypto.SHA256, digest[:])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: signing: %v", ErrCrypto, err)
	}

	s.logger.Debug("Sealed envelope",
		slog.String("bank", string(bank)),
		slog.Int("plaintext_length", len(plain)),
		slog.Int("ciphertext_length", len(cipherText)),
	)
	return Envelope{
		CipherText: cipherText,
		Signature:  base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// Open verifies and decrypts an envelope from bank and returns the JSON plaintext.
// Nothing is decrypted unless the signature verifies.
func (s *Sealer) Open(bank domain.BankID, cipherText, signature string) (json.RawMessage, error) {
	logger := s.logger.With(slog.String("bank", string(bank)))

	keys, err := s.keys.keys(bank)
	if err != nil {
		logger.Error("Open requested for unknown bank")
		return nil, err
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		logger.Warn("Signature is not valid base64", slog.Int("signature_length", len(signature)))
		return nil, fmt.Errorf("%w: signature encoding: %v", ErrInvalidSignature, err)
	}
	digest := sha256.Sum256([]byte(cipherText))
	if err := rsa.VerifyPKCS1v15(keys.Public, crypto.SHA256, digest[:], sig); err != nil {
		logger.Warn("Signature verification failed",
			slog.Int("signature_length", len(signature)),
			slog.Int("data_length", len(cipherText)),
		)
		return nil, ErrInvalidSignature
	}

	if len(cipherText) == 0 || len(cipherText)%BlockWidth != 0 {
		logger.Warn("Ciphertext length is not a whole number of blocks", slog.Int("data_length", len(cipherText)))
		return nil, fmt.Errorf("%w: ciphertext length %d", ErrMalformedPayload, len(cipherText))
	}

	plain := make([]byte, 0, len(cipherText)/BlockWidth*ChunkSize)
	for i := 0; i < len(cipherText); i += BlockWidth {
		block, err := base64.StdEncoding.DecodeString(cipherText[i : i+BlockWidth])
		if err != nil {
			logger.Warn("Failed to decode block", slog.Int("block_index", i/BlockWidth))
			return nil, fmt.Errorf("%w: block %d encoding", ErrMalformedPayload, i/BlockWidth)
		}
		chunk, err := rsa.DecryptPKCS1v15(nil, keys.Private, block)
		if err != nil {
			logger.Warn("Failed to decrypt block", slog.Int("block_index", i/BlockWidth))
			return nil, fmt.Errorf("%w: block %d decryption", ErrMalformedPayload, i/BlockWidth)
		}
		plain = append(plain, chunk...)
	}

	if !json.Valid(plain) {
		logger.Warn("Decrypted payload is not JSON", slog.Int("decrypted_length", len(plain)))
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedPayload)
	}
	return json.RawMessage(plain), nil
}
