package crypto

import (
	"crypto/rand"
	"math/big"
)

const (
	sessionIDLen     = 16
	sessionIDCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	skuDigits = 6
	skuPrefix = "S"
	digits    = "0123456789"
)

// RandString returns a random string of length n drawn from charset using a
// cryptographically secure source.
func RandString(n int, charset string) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}

// NewSessionID generates an unguessable session token.
func NewSessionID() (string, error) {
	return RandString(sessionIDLen, sessionIDCharset)
}

// NewSKU generates a stock keeping unit token.
func NewSKU() (string, error) {
	s, err := RandString(skuDigits, digits)
	if err != nil {
		return "", err
	}
	return skuPrefix + s, nil
}
