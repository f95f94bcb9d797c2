package envelope

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
)

// GenerateKeyFiles writes a fresh service key pair and one key pair per bank into dir,
// using the file names LoadKeyring expects. Existing files are overwritten.
func GenerateKeyFiles(dir string, banks []domain.BankID, bits int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating key directory %s: %w", dir, err)
	}

	var written []string
	writePair := func(privName, pubName string) error {
		key, err := rsa.GenerateKey(rand.Reader, bits)
		if err != nil {
			return fmt.Errorf("generating %d-bit key: %w", bits, err)
		}
		privPEM, pubPEM, err := EncodeKeyPair(key)
		if err != nil {
			return err
		}
		privPath := filepath.Join(dir, privName)
		if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", privPath, err)
		}
		pubPath := filepath.Join(dir, pubName)
		if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", pubPath, err)
		}
		written = append(written, privPath, pubPath)
		return nil
	}

	if err := writePair(servicePrivateFile, servicePublicFile); err != nil {
		return written, err
	}
	for _, bank := range banks {
		if err := writePair(PrivateKeyFile(bank), PublicKeyFile(bank)); err != nil {
			return written, err
		}
	}
	return written, nil
}

// EncodeKeyPair PEM-encodes key as PKCS#8 and its public half as PKIX.
func EncodeKeyPair(key *rsa.PrivateKey) (privPEM, pubPEM []byte, err error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("marshalling private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("marshalling public key: %w", err)
	}
	privPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM, nil
}
