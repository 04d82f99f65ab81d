package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"carvistors/config"
	"carvistors/models"

	"github.com/golang-jwt/jwt"
)

const fallbackSecret = "your-secret-key"

func secretKey() []byte {
	if s := config.AppConfig.JWTSecret; s != "" {
		return []byte(s)
	}
	return []byte(fallbackSecret)
}

// TokenClaims is the authenticated identity carried by a token.
type TokenClaims struct {
	Subject string
	Email   string
	Kind    models.AccountKind
	Role    string
}

// IsAdmin reports whether the token belongs to an admin account.
func (c TokenClaims) IsAdmin() bool { return c.Kind == models.KindAdmin }

// GenerateToken creates a signed JWT for the account. The token expires after
// the specified duration.
func GenerateToken(subject, email string, kind models.AccountKind, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"kind":  string(kind),
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ParseClaims validates tokenString and extracts its identity.
func ParseClaims(tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	kind, err := models.ParseAccountKind(stringClaim(claims, "kind"))
	if err != nil {
		return nil, err
	}

	return &TokenClaims{
		Subject: sub,
		Email:   stringClaim(claims, "email"),
		Kind:    kind,
		Role:    stringClaim(claims, "role"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
