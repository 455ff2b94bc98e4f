package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/holyholical/still/models"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
)

// UserCookie is the session cookie carrying the user id for the browser flow.
// The sync client uses Bearer tokens instead.
const UserCookie = "still_user"

// CorsMiddleware handles CORS headers for cross-origin requests
func CorsMiddleware(c rweb.Context) error {
	c.Response().SetHeader("Access-Control-Allow-Origin", "*")
	c.Response().SetHeader("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Response().SetHeader("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

	if c.Request().Method() == "OPTIONS" {
		c.SetStatus(http.StatusOK)
		return nil
	}

	return c.Next()
}

// AuthMiddleware resolves the caller's identity and stores it in the request
// context. Identity arrives either as a Bearer JWT (API clients) or as the
// session cookie set at login (browser flow). Absence of both just means the
// request proceeds unauthenticated; handlers that need identity check
// CurrentUserID themselves and respond 401.
func AuthMiddleware(c rweb.Context) error {
	authHeader := c.Request().Header("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := models.ValidateToken(tokenString)
		if err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("authenticated", true)
			return c.Next()
		}
		// Invalid token - continue as unauthenticated; don't log every
		// bad token (could be noise from an attack)
	}

	if cookieValue, err := c.GetCookie(UserCookie); err == nil && cookieValue != "" {
		c.Set("user_id", normalizeUserID(cookieValue))
		c.Set("authenticated", true)
		return c.Next()
	}

	c.Set("user_id", "")
	c.Set("authenticated", false)
	return c.Next()
}

// normalizeUserID unwraps one layer of percent-encoding from a user id.
// User ids embed percent sequences ("user_jo%40example.com"), and some
// intermediaries re-encode cookie values, turning % into %25. If the raw
// value shows that signature, decode once; otherwise pass it through.
func normalizeUserID(raw string) string {
	if !strings.Contains(raw, "%25") {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// LoggingMiddleware provides request logging
func LoggingMiddleware(c rweb.Context) error {
	start := time.Now()

	err := c.Next()

	logger.Debug("Request completed",
		"method", c.Request().Method(),
		"path", c.Request().Path(),
		"duration", time.Since(start),
		"error", err,
	)

	return err
}
