package models

import (
	"os"
	"testing"
)

func setupJWT(t *testing.T, secret string) {
	t.Helper()
	os.Setenv(JWTSecretEnvVar, secret)
	t.Cleanup(func() { os.Unsetenv(JWTSecretEnvVar) })
	if err := InitJWT(); err != nil {
		t.Fatalf("InitJWT() unexpected error: %v", err)
	}
}

// TestTokenRoundTrip tests generating and validating a session JWT.
func TestTokenRoundTrip(t *testing.T) {
	setupJWT(t, "test-secret-key-for-jwt-testing-32chars")

	user := &User{ID: "user_jo%40example.com", Email: "jo@example.com"}
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned an empty token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("claims = %+v, want the user's identity", claims)
	}
	if claims.Issuer != TokenIssuer {
		t.Errorf("issuer = %q, want %q", claims.Issuer, TokenIssuer)
	}
}

// TestValidateTokenRejectsGarbage tests malformed and tampered tokens.
func TestValidateTokenRejectsGarbage(t *testing.T) {
	setupJWT(t, "test-secret-key-for-jwt-testing-32chars")

	user := &User{ID: "user_a", Email: "a@b.c"}
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "definitely-not-a-jwt"},
		{"tampered signature", token[:len(token)-4] + "XXXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

// TestInitJWTShortSecret tests the minimum-length guard.
func TestInitJWTShortSecret(t *testing.T) {
	os.Setenv(JWTSecretEnvVar, "too-short")
	t.Cleanup(func() { os.Unsetenv(JWTSecretEnvVar) })

	if err := InitJWT(); err == nil {
		t.Error("expected an error for a short secret")
	}
}
