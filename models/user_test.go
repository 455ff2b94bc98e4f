package models

import "testing"

// TestAuthenticateOrCreateFirstLogin tests implicit registration.
func TestAuthenticateOrCreateFirstLogin(t *testing.T) {
	setupTestDB(t)

	user, err := AuthenticateOrCreate("jo@example.com", "hunter22")
	if err != nil {
		t.Fatalf("AuthenticateOrCreate() unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("first login should register, got nil user")
	}
	if user.ID != "user_jo%40example.com" {
		t.Errorf("user id = %q, want user_jo%%40example.com", user.ID)
	}
	if user.Email != "jo@example.com" {
		t.Errorf("email = %q, want jo@example.com", user.Email)
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

// TestAuthenticateOrCreateRepeat tests the correct and wrong password paths
// against an existing account.
func TestAuthenticateOrCreateRepeat(t *testing.T) {
	setupTestDB(t)

	first, err := AuthenticateOrCreate("jo@example.com", "hunter22")
	if err != nil || first == nil {
		t.Fatalf("setup login failed: user=%v err=%v", first, err)
	}

	again, err := AuthenticateOrCreate("jo@example.com", "hunter22")
	if err != nil {
		t.Fatalf("repeat login unexpected error: %v", err)
	}
	if again == nil || again.ID != first.ID {
		t.Errorf("repeat login = %+v, want the same account %q", again, first.ID)
	}

	wrong, err := AuthenticateOrCreate("jo@example.com", "not-the-password")
	if err != nil {
		t.Fatalf("wrong password should not error: %v", err)
	}
	if wrong != nil {
		t.Error("wrong password should yield nil user, not a new account")
	}
}

// TestAuthenticateOrCreateNormalizesEmail tests that casing and whitespace
// collapse to one account.
func TestAuthenticateOrCreateNormalizesEmail(t *testing.T) {
	setupTestDB(t)

	a, err := AuthenticateOrCreate("Jo@Example.COM ", "pw123456")
	if err != nil || a == nil {
		t.Fatalf("setup login failed: user=%v err=%v", a, err)
	}
	b, err := AuthenticateOrCreate("jo@example.com", "pw123456")
	if err != nil {
		t.Fatalf("normalized login unexpected error: %v", err)
	}
	if b == nil || b.ID != a.ID {
		t.Errorf("variant spellings produced different accounts: %v vs %v", a, b)
	}
}

// TestAuthenticateOrCreateMissingFields tests the validation error.
func TestAuthenticateOrCreateMissingFields(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"no email", "", "pw"},
		{"no password", "jo@example.com", ""},
		{"neither", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AuthenticateOrCreate(tt.email, tt.password); err == nil {
				t.Error("expected an error for missing credentials")
			}
		})
	}
}

// TestUserIDForEmail tests the url-encoded id derivation.
func TestUserIDForEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jo@example.com", "user_jo%40example.com"},
		{"a+b@x.io", "user_a%2Bb%40x.io"},
	}

	for _, tt := range tests {
		if got := UserIDForEmail(tt.email); got != tt.want {
			t.Errorf("UserIDForEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

// TestGetUserByID tests lookup and the nil miss.
func TestGetUserByID(t *testing.T) {
	setupTestDB(t)

	created, err := AuthenticateOrCreate("jo@example.com", "pw123456")
	if err != nil || created == nil {
		t.Fatalf("setup login failed: user=%v err=%v", created, err)
	}

	got, err := GetUserByID(created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() unexpected error: %v", err)
	}
	if got == nil || got.Email != "jo@example.com" {
		t.Errorf("GetUserByID() = %+v, want the created user", got)
	}

	missing, err := GetUserByID("user_nobody")
	if err != nil {
		t.Fatalf("GetUserByID() miss errored: %v", err)
	}
	if missing != nil {
		t.Errorf("GetUserByID() miss = %+v, want nil", missing)
	}
}
