package envelope

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SscSPs/bank_webhook_ledger/internal/core/domain"
)

// KeyBits is the RSA modulus size every key in the store must have.
// The 344-character block width of the wire format depends on it.
const KeyBits = 2048

const (
	servicePrivateFile = "private.pem"
	servicePublicFile  = "public.pem"
)

// BankKeys is the key material held for one counterparty.
type BankKeys struct {
	Public  *rsa.PublicKey
	Private *rsa.PrivateKey
}

// Keyring is the read-only key store loaded once at startup and shared by every request.
type Keyring struct {
	banks   map[domain.BankID]BankKeys
	service *rsa.PrivateKey
}

// NewKeyring builds a Keyring from already parsed keys.
func NewKeyring(service *rsa.PrivateKey, banks map[domain.BankID]BankKeys) (*Keyring, error) {
	if service == nil {
		return nil, fmt.Errorf("%w: service private key is nil", ErrKey)
	}
	if err := checkBits("service private key", &service.PublicKey); err != nil {
		return nil, err
	}
	copied := make(map[domain.BankID]BankKeys, len(banks))
	for bank, keys := range banks {
		if keys.Public == nil || keys.Private == nil {
			return nil, fmt.Errorf("%w: incomplete key pair for bank %s", ErrKey, bank)
		}
		if err := checkBits(string(bank)+" public key", keys.Public); err != nil {
			return nil, err
		}
		if err := checkBits(string(bank)+" private key", &keys.Private.PublicKey); err != nil {
			return nil, err
		}
		copied[bank] = keys
	}
	return &Keyring{banks: copied, service: service}, nil
}

// LoadKeyring reads {bank}_public.pem and {bank}_private.pem for every bank plus the
// service pair from dir. Any missing or invalid file is an error.
func LoadKeyring(dir string, banks []domain.BankID, logger *slog.Logger) (*Keyring, error) {
	if logger == nil {
		logger = slog.Default()
	}

	service, err := readPrivateKey(filepath.Join(dir, servicePrivateFile))
	if err != nil {
		return nil, err
	}
	if _, err := readPublicKey(filepath.Join(dir, servicePublicFile)); err != nil {
		return nil, err
	}

	loaded := make(map[domain.BankID]BankKeys, len(banks))
	for _, bank := range banks {
		pub, err := readPublicKey(filepath.Join(dir, PublicKeyFile(bank)))
		if err != nil {
			return nil, err
		}
		priv, err := readPrivateKey(filepath.Join(dir, PrivateKeyFile(bank)))
		if err != nil {
			return nil, err
		}
		loaded[bank] = BankKeys{Public: pub, Private: priv}
		logger.Info("Loaded key material for bank",
			slog.String("bank", string(bank)),
			slog.Int("public_key_bits", pub.N.BitLen()),
			slog.Int("private_key_bits", priv.N.BitLen()),
		)
	}

	return NewKeyring(service, loaded)
}

func (k *Keyring) keys(bank domain.BankID) (BankKeys, error) {
	keys, ok := k.banks[bank]
	if !ok {
		return BankKeys{}, fmt.Errorf("%w: %q", ErrUnknownCounterparty, bank)
	}
	return keys, nil
}

// PublicKeyFile is the file name of a bank's public key inside the key store.
func PublicKeyFile(bank domain.BankID) string {
	return string(bank) + "_public.pem"
}

// PrivateKeyFile is the file name of a bank's private key inside the key store.
func PrivateKeyFile(bank domain.BankID) string {
	return string(bank) + "_private.pem"
}

func readPEM(path string) (*pem.Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrKey, path, err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%w: %s is not PEM encoded", ErrKey, path)
	}
	return block, nil
}

func readPublicKey(path string) (*rsa.PublicKey, error) {
	block, err := readPEM(path)
	if err != nil {
		return nil, err
	}
	pub, err := parsePublicKey(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrKey, path, err)
	}
	return pub, checkBits(path, pub)
}

func readPrivateKey(path string) (*rsa.PrivateKey, error) {
	block, err := readPEM(path)
	if err != nil {
		return nil, err
	}
	priv, err := parsePrivateKey(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrKey, path, err)
	}
	return priv, checkBits(path, &priv.PublicKey)
}

func parsePublicKey(block *pem.Block) (*rsa.PublicKey, error) {
	switch block.Type {
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		pub, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("not an RSA public key")
		}
		return pub, nil
	default:
		return nil, fmt.Errorf("unexpected PEM block %q", block.Type)
	}
}

func parsePrivateKey(block *pem.Block) (*rsa.PrivateKey, error) {
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		priv, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("not an RSA private key")
		}
		return priv, nil
	default:
		return nil, fmt.Errorf("unexpected PEM block %q", block.Type)
	}
}

func checkBits(name string, pub *rsa.PublicKey) error {
	if bits := pub.N.BitLen(); bits != KeyBits {
		return fmt.Errorf("%w: %s is %d bits, want %d", ErrKey, name, bits, KeyBits)
	}
	return nil
}
