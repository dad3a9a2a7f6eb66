// Package router sets up all HTTP routes and middleware chains of the
// directory API. Routes are grouped by audience: public, auth, client and
// admin, each with its own middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"guialocal/internal/handlers"
	"guialocal/internal/middleware"
	"guialocal/internal/session"
)

// Handlers bundles the handler groups the router dispatches to.
type Handlers struct {
	Public *handlers.Public
	Auth   *handlers.Auth
	Client *handlers.Client
	Admin  *handlers.Admin
	Photos *handlers.Photos
}

// New creates and returns the configured Chi router. secureCookies means
// the API is served over HTTPS: cookies get Secure and responses HSTS.
// loginLimiter throttles sign-in attempts.
func New(sessionStore *session.Store, secureCookies bool, loginLimiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(secureCookies))

	// Health check: no session, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessionStore))
		r.Use(middleware.NewCSRF(secureCookies))

		// Public directory.
		r.Get("/categories", h.Public.Categories)
		r.Get("/menus/{location}", h.Public.Menu)
		r.Get("/listings", h.Public.Listings)
		r.Get("/listings/{slug}", h.Public.Listing)

		// Authentication.
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.With(middleware.RequireAuth).Get("/me", h.Auth.Me)
			r.With(middleware.RequireAuth).Post("/2fa/setup", h.Auth.TwoFASetup)
			r.With(middleware.RequireAuth).Post("/2fa/verify", h.Auth.TwoFAVerify)
		})

		// Business owners manage their own listings.
		r.Route("/client", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireClient)

			r.Get("/listings", h.Client.Listings)
			r.Post("/listings", h.Client.CreateListing)
			r.Put("/listings/{id}", h.Client.UpdateListing)
			r.Delete("/listings/{id}", h.Client.DeleteListing)
			r.Put("/listings/{id}/status", h.Client.SetListingStatus)
			r.Post("/photos", h.Photos.Upload)
		})

		// Administration.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.Admin.Categories)
				r.Post("/", h.Admin.CreateCategory)
				r.Put("/{id}", h.Admin.UpdateCategory)
				r.Delete("/{id}", h.Admin.DeleteCategory)
			})
			r.Get("/orphans", h.Admin.Orphans)
			r.Post("/photos", h.Photos.Upload)

			r.Route("/menus", func(r chi.Router) {
				r.Get("/", h.Admin.Menus)
				r.Post("/", h.Admin.CreateMenuItem)
				r.Put("/{id}", h.Admin.UpdateMenuItem)
				r.Delete("/{id}", h.Admin.DeleteMenuItem)
			})

			r.Route("/listing-statuses", func(r chi.Router) {
				r.Get("/", h.Admin.ListingStatuses)
				r.Post("/", h.Admin.CreateListingStatus)
				r.Put("/{id}", h.Admin.RenameListingStatus)
				r.Delete("/{id}", h.Admin.DeleteListingStatus)
			})

			r.Route("/listings", func(r chi.Router) {
				r.Get("/", h.Admin.Listings)
				r.Post("/", h.Admin.CreateListing)
				r.Put("/{id}", h.Admin.UpdateListing)
				r.Delete("/{id}", h.Admin.DeleteListing)
				r.Put("/{id}/moderation", h.Admin.SetModeration)
				r.Put("/{id}/status", h.Admin.SetListingStatus)
				r.Get("/{id}/moderation-log", h.Admin.ModerationLog)
			})

			r.Get("/settings", h.Admin.Settings)
			r.Put("/settings", h.Admin.SaveSettings)

			r.Get("/users", h.Admin.Users)
			r.Put("/users/{id}/plan", h.Admin.SetUserPlan)
			r.Post("/users/{id}/reset-2fa", h.Auth.ResetUserTwoFA)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
