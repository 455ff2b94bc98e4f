package models

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rohanthewiz/serr"
)

// JWT configuration constants
const (
	// TokenExpirationHours defines how long session tokens remain valid (1 year,
	// matching the long-lived browser session of the original cookie).
	TokenExpirationHours = 24 * 365

	// TokenIssuer identifies the application that issued the token
	TokenIssuer = "still"

	// JWTSecretEnvVar is the environment variable containing the signing key
	JWTSecretEnvVar = "STILL_JWT_SECRET"

	// MinSecretLength is the minimum acceptable length for the JWT secret
	MinSecretLength = 32
)

// jwtSecret holds the signing key loaded from environment
var jwtSecret []byte

// TokenClaims extends JWT standard claims with the user identity.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// InitJWT loads the JWT signing key from environment.
// Must be called at application startup before any token operations.
func InitJWT() error {
	secret := os.Getenv(JWTSecretEnvVar)

	if secret == "" {
		// For development only; production deployments must set the env var
		secret = "development-only-secret-do-not-use-in-production"
	}

	if len(secret) < MinSecretLength {
		return serr.New("JWT secret must be at least 32 characters")
	}

	jwtSecret = []byte(secret)
	return nil
}

// GenerateToken creates a signed session JWT for an authenticated user.
func GenerateToken(user *User) (string, error) {
	if len(jwtSecret) == 0 {
		return "", serr.New("JWT not initialized - call InitJWT first")
	}

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * TokenExpirationHours)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", serr.Wrap(err, "failed to sign token")
	}

	return tokenString, nil
}

// ValidateToken parses and validates a session JWT.
// Returns the claims if valid, or an error if the token is expired,
// malformed, or has an invalid signature.
func ValidateToken(tokenString string) (*TokenClaims, error) {
	if len(jwtSecret) == 0 {
		return nil, serr.New("JWT not initialized - call InitJWT first")
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, serr.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, serr.Wrap(err, "failed to parse token")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, serr.New("invalid token claims")
	}

	return claims, nil
}
