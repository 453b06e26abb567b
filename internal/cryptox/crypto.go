// Package cryptox derives login verifiers from user passwords.
//
// The server never sees a password. The client derives a key with argon2id
// from (password, salt) and sends sha256(key) as the verifier; the server
// stores the salt and the verifier and compares them on login.
package cryptox

import (
	"crypto/sha256"

	"github.com/dmitrijs2005/billsync/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltLen = 32
	KeyLen  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// NewSalt returns a fresh random salt for registration.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltLen)
}

// DeriveKey stretches password with argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeyLen)
}

// MakeVerifier returns the value the server stores and compares against.
func MakeVerifier(key []byte) []byte {
	sum := sha256.Sum256(key)
	return sum[:]
}
