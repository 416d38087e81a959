package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the API surface for the mobile client. adminToken
// guards the maintenance endpoints; leaving it empty disables them.
func RegisterRoutes(r chi.Router, users *UserHandler, roster *RosterHandler, auth Authenticator, adminToken string) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", users.Register)
		r.Post("/login", users.Login)
		r.With(RequireAuth(auth)).Post("/logout", users.Logout)
	})

	r.Route("/api/roster", func(r chi.Router) {
		r.Use(RequireAuth(auth))
		r.Get("/", roster.GetRoster)
		r.Post("/import", roster.ImportRoster)
		r.Delete("/", roster.ClearRoster)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(RequireAdminToken(adminToken))
		r.Delete("/rosters", roster.ClearAllRosters)
	})
}
