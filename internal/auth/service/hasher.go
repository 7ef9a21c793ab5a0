package service

import (
	"github.com/aussiebroadwan/identity/pkg/cryptox"
)

// PasswordHasher turns passwords into stored digests and checks them.
// Verify returns a non-nil error for any mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

var _ PasswordHasher = cryptox.Argon2id{}
