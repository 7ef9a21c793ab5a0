package jwtx

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
)

const (
	// AlgorithmRS256 is the only signing algorithm the KeyManager speaks.
	AlgorithmRS256 = "RS256"

	// MainKeyID is the kid stamped on every token we sign.
	MainKeyID = "main"
)

// KeyManager owns the single RSA signing keypair of an instance. It is
// immutable once constructed, so it can be shared freely between goroutines.
// The private key never leaves it: callers can only ask for signatures,
// verification, or the public parameters.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	signer Signer
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// PrivateKeyPEM is the RSA private key, PKCS1 or PKCS8.
	PrivateKeyPEM []byte

	// KeyID defaults to MainKeyID.
	KeyID string

	// Issuer is checked by Verify. Tokens without a matching iss are
	// rejected unless Issuer is empty.
	Issuer string
}

// NewKeyManager loads the keypair described by opts and wires the signer,
// verifier and KeySet together.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if len(opts.PrivateKeyPEM) == 0 {
		return nil, errors.New("jwtx: private key is required")
	}

	kid := opts.KeyID
	if kid == "" {
		kid = MainKeyID
	}

	signer, err := NewSignerRS256(kid, opts.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}
	if err := signer.Validate(); err != nil {
		return nil, fmt.Errorf("jwtx: validate signing key: %w", err)
	}

	keyset := NewKeySet()
	if err := keyset.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: failed to add signer to keyset: %w", err)
	}

	return &KeyManager{
		Verifier: NewCommonRS256(keyset, opts.Issuer),
		KeySet:   keyset,
		signer:   signer,
	}, nil
}

// NewEphemeralKeyManager generates a fresh keypair in memory. Tokens signed
// by it die with the process, which is what tests and throwaway
// environments want.
func NewEphemeralKeyManager(issuer string, bits int) (*KeyManager, error) {
	if bits == 0 {
		bits = cryptox.MinRSABits
	}

	pemBytes, err := cryptox.GenerateRSAKey(bits)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to generate RS256 key: %w", err)
	}

	return NewKeyManager(KeyManagerOptions{
		PrivateKeyPEM: pemBytes,
		Issuer:        issuer,
	})
}

// Sign signs claims with the managed key. The header always carries the
// manager's kid.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	return km.signer.Sign(claims)
}

// Verify checks a token against the managed key.
func (km *KeyManager) Verify(token string) (Claims, error) {
	return km.Verifier.Verify(token)
}

// PublicKeyParams returns the modulus and public exponent, base64url
// encoded without padding.
func (km *KeyManager) PublicKeyParams() (n, e string) {
	jwk := km.signer.PublicJWK()
	return jwk.N, jwk.E
}

// JWKS returns the publishable key set.
func (km *KeyManager) JWKS() JWKS {
	return km.KeySet.PublicJWKS()
}

// KID returns the key id stamped into token headers.
func (km *KeyManager) KID() string {
	return km.signer.KID()
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string {
	return km.signer.Alg()
}

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}
