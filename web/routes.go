package web

import (
	"github.com/holyholical/still/web/api"
	"github.com/holyholical/still/web/pages"

	"github.com/rohanthewiz/rweb"
)

// setupRoutes configures all application routes
func setupRoutes(s *rweb.Server) {
	// Page routes - HTML responses
	s.Get("/", pages.Home)
	s.Get("/share/:token", pages.SharedNote)

	// Health check endpoint
	s.Get("/api/v1/health", api.Health)

	// Authentication
	s.Post("/api/v1/auth/login", api.Login)
	s.Post("/api/v1/auth/logout", api.Logout)

	// Per-user note set (auth required)
	s.Get("/api/v1/notes", api.ListNotes)         // Full note list for the identity
	s.Post("/api/v1/notes", api.UpsertNote)       // Upsert: update, client-id create, or mint
	s.Delete("/api/v1/notes/:id", api.DeleteNote) // Hard delete

	// Share links
	s.Post("/api/v1/notes/share", api.CreateShareToken)  // Bind a token to a note (auth)
	s.Get("/api/v1/share/:token", api.GetSharedNote)     // Anonymous read by token
	s.Post("/api/v1/share/:token", api.UpdateSharedNote) // Anonymous collaborative write by token
}
