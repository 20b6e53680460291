// Package crypto implements server-side password hashing and random
// identifier generation.
package crypto

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. Hashes are stored as "iterations:salthex:hashhex" so the
// iteration count can be raised without invalidating existing rows.
const (
	saltLen   = 16
	hashLen   = 64
	iteration = 8192
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// EncodePassword hashes password with a fresh salt and returns the encoded
// storage form.
func EncodePassword(password string) (string, error) {
	salt, err := RandBytes(saltLen)
	if err != nil {
		return "", err
	}
	hash := pbkdf2.Key([]byte(password), salt, iteration, hashLen, sha1.New)
	return fmt.Sprintf("%d:%s:%s", iteration, hex.EncodeToString(salt), hex.EncodeToString(hash)), nil
}

// VerifyPassword verifies password against an encoded hash in constant time.
// A malformed encoded value verifies as false.
func VerifyPassword(password, encoded string) bool {
	parts := strings.SplitN(encoded, ":", 3)
	if len(parts) != 3 {
		return false
	}
	iters, err := strconv.Atoi(parts[0])
	if err != nil || iters <= 0 {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	hash, err := hex.DecodeString(parts[2])
	if err != nil || len(hash) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, iters, len(hash), sha1.New)
	return subtle.ConstantTimeCompare(got, hash) == 1
}
