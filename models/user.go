package models

import (
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"golang.org/x/crypto/bcrypt"
)

// User is an authenticated principal. The id embeds the url-encoded email
// ("user_jo%40example.com") so it is stable, human-tracing, and usable as a
// foreign key for the per-user note set.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// CreateUsersTableSQL is the DDL for the users table.
const CreateUsersTableSQL = `
CREATE TABLE IF NOT EXISTS users (
    id            VARCHAR PRIMARY KEY,
    email         VARCHAR NOT NULL UNIQUE,
    password_hash VARCHAR NOT NULL,
    created_at    TIMESTAMP NOT NULL,
    last_login_at TIMESTAMP
);
`

// UserOutput is the JSON wire representation of a User. The password hash
// never leaves the models package.
type UserOutput struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ToOutput converts a User to its wire representation.
func (u *User) ToOutput() UserOutput {
	return UserOutput{ID: u.ID, Email: u.Email}
}

// NormalizeEmail trims and lowercases an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserIDForEmail derives the stable user id for an email address.
func UserIDForEmail(email string) string {
	return "user_" + url.QueryEscape(email)
}

// AuthenticateOrCreate validates credentials against the stored hash, or
// registers the account if the email has never been seen. Returns nil (and
// no error) on a wrong password so callers surface a uniform
// invalid-credentials response.
func AuthenticateOrCreate(email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, serr.New("email and password are required")
	}

	user, err := getUserByEmail(email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, serr.Wrap(err, "failed to hash password")
		}

		user = &User{
			ID:           UserIDForEmail(email),
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC(),
		}
		_, err = db.Exec(`
			INSERT INTO users (id, email, password_hash, created_at, last_login_at)
			VALUES (?, ?, ?, ?, ?)`,
			user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.CreatedAt)
		if err != nil {
			return nil, serr.Wrap(err, "failed to create user")
		}

		logger.Info("User registered on first login", "user_id", user.ID)
		return user, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}

	now := time.Now().UTC()
	if _, err := db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, now, user.ID); err != nil {
		logger.LogErr(err, "failed to record login time", "user_id", user.ID)
	}

	return user, nil
}

// GetUserByID retrieves a user by id. Returns nil if absent.
func GetUserByID(id string) (*User, error) {
	return getUserBy(`id = ?`, id)
}

func getUserByEmail(email string) (*User, error) {
	return getUserBy(`email = ?`, email)
}

func getUserBy(where string, arg string) (*User, error) {
	row := db.QueryRow(`
		SELECT id, email, password_hash, created_at, last_login_at
		FROM users WHERE `+where, arg)

	user := &User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.LastLoginAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, serr.Wrap(err, "failed to get user")
	}
	return user, nil
}
