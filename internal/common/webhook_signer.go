package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// WebhookURLSigner issues and validates HMAC-signed tokens embedded in the
// callback URLs handed to external providers. A valid token proves the
// caller was given the URL for that specific integration; unlike dashboard
// links the tokens are reusable until they expire.
type WebhookURLSigner struct {
	secretKey []byte
}

// NewWebhookURLSigner creates a new webhook URL signer
func NewWebhookURLSigner(secretKey []byte) *WebhookURLSigner {
	return &WebhookURLSigner{secretKey: secretKey}
}

// GenerateToken signs a callback token for one integration.
func (s *WebhookURLSigner) GenerateToken(integrationID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"integration_id": integrationID,
		"jti":            uuid.New().String(),
		"exp":            time.Now().Add(ttl).Unix(),
		"iat":            time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken checks a callback token and returns the integration id it
// was issued for.
func (s *WebhookURLSigner) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	integrationID, ok := (*claims)["integration_id"].(string)
	if !ok {
		return "", errors.New("missing or invalid integration_id claim")
	}

	expFloat, ok := (*claims)["exp"].(float64)
	if !ok {
		return "", errors.New("missing or invalid exp claim")
	}
	if time.Now().After(time.Unix(int64(expFloat), 0)) {
		return "", errors.New("token expired")
	}

	return integrationID, nil
}
