package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodePassword_RoundTrip(t *testing.T) {
	encoded, err := EncodePassword("s3cret")
	require.NoError(t, err)

	require.True(t, VerifyPassword("s3cret", encoded))
	require.False(t, VerifyPassword("wrong", encoded))
}

func TestEncodePassword_FreshSaltPerCall(t *testing.T) {
	a, err := EncodePassword("same")
	require.NoError(t, err)
	b, err := EncodePassword("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.True(t, VerifyPassword("same", a))
	require.True(t, VerifyPassword("same", b))
}

func TestEncodePassword_StorageForm(t *testing.T) {
	encoded, err := EncodePassword("pw")
	require.NoError(t, err)

	parts := strings.SplitN(encoded, ":", 3)
	require.Len(t, parts, 3)
	require.Equal(t, "8192", parts[0])
	require.Len(t, parts[1], saltLen*2)
	require.Len(t, parts[2], hashLen*2)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"not-an-encoded-hash",
		"8192:zzzz:abcd",
		"8192:abcd:zzzz",
		"-1:abcd:abcd",
		"x:abcd:abcd",
		"8192:abcd:",
	} {
		require.False(t, VerifyPassword("pw", encoded), "encoded=%q", encoded)
	}
}

func TestNewSessionID(t *testing.T) {
	id, err := NewSessionID()
	require.NoError(t, err)
	require.Len(t, id, sessionIDLen)
	for _, r := range id {
		require.Contains(t, sessionIDCharset, string(r))
	}

	other, err := NewSessionID()
	require.NoError(t, err)
	require.NotEqual(t, id, other)
}

func TestNewSKU(t *testing.T) {
	sku, err := NewSKU()
	require.NoError(t, err)
	require.Len(t, sku, 1+skuDigits)
	require.Equal(t, skuPrefix, sku[:1])
	for _, r := range sku[1:] {
		require.Contains(t, digits, string(r))
	}
}
