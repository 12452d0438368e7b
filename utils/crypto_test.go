package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAESKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := Encrypt("user@example.com", testAESKey)
	require.NoError(t, err)
	assert.NotEqual(t, "user@example.com", encrypted)

	decrypted, err := Decrypt(encrypted, testAESKey)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", decrypted)
}

func TestEncryptRejectsBadKeys(t *testing.T) {
	_, err := Encrypt("data", "")
	assert.Error(t, err)

	_, err = Encrypt("data", "short")
	assert.Error(t, err)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	_, err := Decrypt("not-base64!", testAESKey)
	assert.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", testAESKey)
	assert.Error(t, err)
}

func TestGenerateAuthTokenPlainEmail(t *testing.T) {
	token, err := GenerateAuthToken("user-1", "user@example.com", "test-secret", "")
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["uid"])
	assert.Equal(t, "user@example.com", claims["email"])
}

func TestGenerateAuthTokenEncryptedEmail(t *testing.T) {
	token, err := GenerateAuthToken("user-1", "user@example.com", "test-secret", testAESKey)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	encrypted, ok := claims["email"].(string)
	require.True(t, ok)
	assert.NotEqual(t, "user@example.com", encrypted)

	decrypted, err := Decrypt(encrypted, testAESKey)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", decrypted)
}

func TestUserFromToken(t *testing.T) {
	token, err := GenerateAuthToken("user-1", "user@example.com", "test-secret", testAESKey)
	require.NoError(t, err)

	uid, email, err := UserFromToken(token, "test-secret", testAESKey)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
	assert.Equal(t, "user@example.com", email)

	_, _, err = UserFromToken(token, "other-secret", testAESKey)
	assert.Error(t, err)

	_, _, err = UserFromToken("not-a-token", "test-secret", "")
	assert.Error(t, err)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateAuthToken("user-1", "user@example.com", "test-secret", "")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestGenerateULID(t *testing.T) {
	a := GenerateULID()
	b := GenerateULID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
