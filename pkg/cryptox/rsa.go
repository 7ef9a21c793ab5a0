package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// MinRSABits is the smallest modulus accepted for a signing key.
const MinRSABits = 2048

// KeyFormat selects how a generated private key is wrapped in PEM.
type KeyFormat int

const (
	PKCS1 KeyFormat = iota // "RSA PRIVATE KEY", what the signing key file normally holds
	PKCS8                  // "PRIVATE KEY", what `openssl genpkey` writes
)

// GenerateRSAKey returns a fresh signing key as PKCS1 PEM.
func GenerateRSAKey(bits int) ([]byte, error) {
	return GenerateRSAKeyPEM(bits, PKCS1)
}

// GenerateRSAKeyPKCS8 returns a fresh signing key as PKCS8 PEM.
func GenerateRSAKeyPKCS8(bits int) ([]byte, error) {
	return GenerateRSAKeyPEM(bits, PKCS8)
}

// GenerateRSAKeyPEM generates an RSA key of the given size and encodes it in
// format. Keys below MinRSABits are refused.
func GenerateRSAKeyPEM(bits int, format KeyFormat) ([]byte, error) {
	if bits < MinRSABits {
		return nil, fmt.Errorf("cryptox: signing key needs at least %d bits, got %d", MinRSABits, bits)
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("cryptox: generate RSA key: %w", err)
	}

	block, err := encodeRSAKey(key, format)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(block), nil
}

func encodeRSAKey(key *rsa.PrivateKey, format KeyFormat) (*pem.Block, error) {
	switch format {
	case PKCS1:
		return &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}, nil
	case PKCS8:
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("cryptox: marshal PKCS8 key: %w", err)
		}
		return &pem.Block{Type: "PRIVATE KEY", Bytes: der}, nil
	default:
		return nil, fmt.Errorf("cryptox: unknown key format %d", format)
	}
}
