package api

import (
	"encoding/json"
	"net/http"

	"github.com/holyholical/still/models"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"
)

// UserCookie mirrors web.UserCookie; declared here to avoid an import cycle.
const UserCookie = "still_user"

// LoginInput contains credentials for authentication.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse contains the user and token returned on successful authentication
type AuthResponse struct {
	User  models.UserOutput `json:"user"`
	Token string            `json:"token"`
}

// Login authenticates a user, registering the account on first sight of the
// email, and returns a session JWT. Also sets the session cookie for the
// browser page flow.
// POST /api/v1/auth/login
//
// Errors:
//   - 400: Missing email or password
//   - 401: Invalid credentials
func Login(ctx rweb.Context) error {
	var input LoginInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	input.Email = models.NormalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return writeError(ctx, http.StatusBadRequest, "email and password are required")
	}

	user, err := models.AuthenticateOrCreate(input.Email, input.Password)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "authentication error"), "email", input.Email)
		return writeError(ctx, http.StatusInternalServerError, "authentication error")
	}

	if user == nil {
		// Wrong password - don't reveal whether the account existed before
		return writeError(ctx, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := models.GenerateToken(user)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to generate token"), "user_id", user.ID)
		return writeError(ctx, http.StatusInternalServerError, "failed to generate token")
	}

	if err := ctx.SetCookie(UserCookie, user.ID); err != nil {
		logger.LogErr(err, "failed to set session cookie")
	}

	logger.Info("User signed in", "user_id", user.ID)
	return writeSuccess(ctx, http.StatusOK, AuthResponse{
		User:  user.ToOutput(),
		Token: token,
	})
}

// Logout clears the session cookie. Bearer tokens simply lapse client-side;
// the server holds no session state to invalidate.
// POST /api/v1/auth/logout
func Logout(ctx rweb.Context) error {
	if err := ctx.SetCookie(UserCookie, ""); err != nil {
		logger.LogErr(err, "failed to clear session cookie")
	}
	return writeSuccess(ctx, http.StatusOK, map[string]bool{"signed_out": true})
}
