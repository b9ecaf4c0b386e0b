package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()

	key, err := DeriveKey("test-state-secret")
	require.NoError(t, err)
	require.Len(t, key, KeyLen)

	return key
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("access-token-value")

	encrypted, err := Encrypt(plaintext, key)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, encrypted)
	assert.Greater(t, len(encrypted), NonceSize)

	decrypted, err := Decrypt(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncrypt_UniqueNonce(t *testing.T) {
	key := testKey(t)

	first, err := Encrypt([]byte("same input"), key)
	require.NoError(t, err)
	second, err := Encrypt([]byte("same input"), key)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "ciphertexts must differ because of random nonce")
}

func TestEncrypt_InvalidInput(t *testing.T) {
	key := testKey(t)

	_, err := Encrypt(nil, key)
	assert.Error(t, err)

	_, err = Encrypt([]byte("data"), []byte("short-key"))
	assert.Error(t, err)
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := testKey(t)

	encrypted, err := Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	otherKey, err := DeriveKey("another-secret")
	require.NoError(t, err)

	_, err = Decrypt(encrypted, otherKey)
	assert.Error(t, err)
}

func TestDecrypt_Truncated(t *testing.T) {
	key := testKey(t)

	_, err := Decrypt([]byte("short"), key)
	assert.Error(t, err)
}

func TestBase64RoundTrip(t *testing.T) {
	key := testKey(t)

	encoded, err := EncryptToBase64([]byte("refresh-token-value"), key)
	require.NoError(t, err)

	decoded, err := DecryptFromBase64(encoded, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("refresh-token-value"), decoded)
}

func TestDecryptFromBase64_InvalidEncoding(t *testing.T) {
	_, err := DecryptFromBase64("%%% not base64 %%%", testKey(t))
	assert.Error(t, err)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	first, err := DeriveKey("secret")
	require.NoError(t, err)
	second, err := DeriveKey("secret")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	_, err = DeriveKey("")
	assert.Error(t, err)
}
