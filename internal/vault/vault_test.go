package vault

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

func testCookies() []schemas.Cookie {
	return []schemas.Cookie{
		{Name: "c_user", Value: "100012345678", Domain: ".facebook.com", Path: "/", Secure: true, HTTPOnly: true},
		{Name: "xs", Value: "session-token", Domain: ".facebook.com", Path: "/", Expires: time.Now().Add(24 * time.Hour).Truncate(time.Second)},
	}
}

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	v, err := NewFromHex(key)
	require.NoError(t, err)
	return v
}

func TestNew_RejectsBadKeySize(t *testing.T) {
	_, err := New(make([]byte, 16))
	assert.Error(t, err)

	_, err = New(nil)
	assert.Error(t, err)
}

func TestNewFromHex(t *testing.T) {
	_, err := NewFromHex("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	assert.NoError(t, err)

	_, err = NewFromHex("not-hex")
	assert.Error(t, err)

	_, err = NewFromHex("abcd")
	assert.Error(t, err)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	v := newTestVault(t)
	cookies := testCookies()

	blob, err := v.Encode(cookies)
	require.NoError(t, err)
	assert.NotContains(t, blob, "session-token", "blob must not leak plaintext")

	got, err := v.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, cookies[0], got[0])
	assert.Equal(t, cookies[1].Name, got[1].Name)
	assert.True(t, cookies[1].Expires.Equal(got[1].Expires))
}

func TestEncode_NonDeterministic(t *testing.T) {
	v := newTestVault(t)

	a, err := v.Encode(testCookies())
	require.NoError(t, err)
	b, err := v.Encode(testCookies())
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per encode")
}

func TestDecode_MalformedBlobs(t *testing.T) {
	v := newTestVault(t)

	tests := []struct {
		name string
		blob string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"too short", base64.StdEncoding.EncodeToString([]byte("tiny"))},
		{"garbage ciphertext", base64.StdEncoding.EncodeToString(make([]byte, 64))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Decode(tt.blob)
			assert.ErrorIs(t, err, schemas.ErrDecode)
		})
	}
}

func TestDecode_WrongKey(t *testing.T) {
	blob, err := newTestVault(t).Encode(testCookies())
	require.NoError(t, err)

	_, err = newTestVault(t).Decode(blob)
	assert.ErrorIs(t, err, schemas.ErrDecode, "a different key must fail authentication")
}

func TestDecode_TamperedBlob(t *testing.T) {
	v := newTestVault(t)
	blob, err := v.Encode(testCookies())
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = v.Decode(base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, schemas.ErrDecode)
}
