package server

import (
	"net/http"

	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/diewo77/go-contacts/auth"
	"github.com/diewo77/go-contacts/httpx"
	"github.com/diewo77/go-contacts/internal/handlers"
	"github.com/diewo77/go-contacts/internal/middleware"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.Data(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB probe (SELECT 1)
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.Error(w, http.StatusServiceUnavailable, "degraded")
			return
		}
		httpx.Data(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	uh := handlers.NewUserHandler(db)
	ch := handlers.NewContactHandler(db)
	ah := handlers.NewAddressHandler(db)

	requireAuth := auth.Middleware(db)
	protected := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }

	// Public user endpoints
	mux.HandleFunc("POST /api/users", uh.Register)
	mux.HandleFunc("POST /api/users/login", uh.Login)

	// Session-holder endpoints
	mux.Handle("GET /api/users/current", protected(uh.Current))
	mux.Handle("PATCH /api/users/current", protected(uh.Update))
	mux.Handle("DELETE /api/users/logout", protected(uh.Logout))

	// Contact endpoints
	mux.Handle("POST /api/contacts", protected(ch.Create))
	mux.Handle("GET /api/contacts", protected(ch.Search))
	mux.Handle("GET /api/contacts/{id}", protected(ch.Get))
	mux.Handle("PUT /api/contacts/{id}", protected(ch.Update))
	mux.Handle("DELETE /api/contacts/{id}", protected(ch.Delete))

	// Address endpoints, nested under the owning contact
	mux.Handle("POST /api/contacts/{contactId}/addresses", protected(ah.Create))
	mux.Handle("GET /api/contacts/{contactId}/addresses", protected(ah.List))
	mux.Handle("GET /api/contacts/{contactId}/addresses/{addressId}", protected(ah.Get))
	mux.Handle("PUT /api/contacts/{contactId}/addresses/{addressId}", protected(ah.Update))
	mux.Handle("DELETE /api/contacts/{contactId}/addresses/{addressId}", protected(ah.Delete))

	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{auth.HeaderName},
	})

	return middleware.Recover(middleware.Logging(c.Handler(mux)))
}
