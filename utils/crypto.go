// Package utils contains ID generation and token helpers
package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/oklog/ulid/v2"
)

func GenerateULID() string {
	return ulid.Make().String()
}

func Encrypt(data, key string) (string, error) {
	if len(key) == 0 {
		log.Printf("ERROR: Empty key provided to Encrypt")
		return "", errors.New("empty encryption key")
	}

	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		log.Printf("ERROR: Invalid key length %d. Must be 16, 24, or 32 bytes", len(key))
		return "", errors.New("invalid key length")
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		log.Printf("ERROR: aes.NewCipher failed: %v", err)
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		log.Printf("ERROR: cipher.NewGCM failed: %v", err)
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		log.Printf("ERROR: Failed to generate nonce: %v", err)
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(data), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func Decrypt(encrypted, key string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(data) < gcm.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// GenerateAuthToken relays a backend-provided identity as a signed token.
// When an AES key is configured the email claim is encrypted; no
// credential validation happens here.
func GenerateAuthToken(userID, email, jwtSecret, aesKey string) (string, error) {
	emailClaim := email
	if aesKey != "" {
		encrypted, err := Encrypt(email, aesKey)
		if err != nil {
			log.Printf("ERROR: Failed to encrypt email in GenerateAuthToken: %v", err)
			return "", err
		}
		emailClaim = encrypted
	}

	claims := jwt.MapClaims{
		"uid":   userID,
		"email": emailClaim,
		"iat":   time.Now().UTC().Unix(),
		"exp":   time.Now().UTC().Add(30 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	result, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		log.Printf("ERROR: Failed to sign JWT token: %v", err)
		return "", err
	}

	return result, nil
}

// UserFromToken validates an issued token and recovers the relayed
// identity, decrypting the email claim when an AES key is configured.
func UserFromToken(tokenString, jwtSecret, aesKey string) (string, string, error) {
	claims, err := ValidateJWT(tokenString, jwtSecret)
	if err != nil {
		return "", "", err
	}

	uid, _ := claims["uid"].(string)
	email, _ := claims["email"].(string)

	if aesKey != "" && email != "" {
		decrypted, err := Decrypt(email, aesKey)
		if err != nil {
			log.Printf("ERROR: Failed to decrypt email claim: %v", err)
			return "", "", err
		}
		email = decrypted
	}

	return uid, email, nil
}

func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
