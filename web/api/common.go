package api

import (
	"net/http"

	"github.com/rohanthewiz/rweb"
)

// APIResponse provides a consistent JSON response structure for all API
// endpoints. Success responses include data, error responses include an
// error message.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// writeSuccess sends a successful JSON response with data.
func writeSuccess(ctx rweb.Context, status int, data interface{}) error {
	ctx.SetStatus(status)
	return ctx.WriteJSON(APIResponse{Success: true, Data: data})
}

// writeError sends an error JSON response.
func writeError(ctx rweb.Context, status int, message string) error {
	ctx.SetStatus(status)
	return ctx.WriteJSON(APIResponse{Success: false, Error: message})
}

// CurrentUserID extracts the authenticated user id from the request context.
// Returns empty string if the request is unauthenticated.
func CurrentUserID(ctx rweb.Context) string {
	id, _ := ctx.Get("user_id").(string)
	return id
}

// Health handles GET /api/v1/health
func Health(ctx rweb.Context) error {
	return writeSuccess(ctx, http.StatusOK, map[string]string{"status": "ok"})
}
