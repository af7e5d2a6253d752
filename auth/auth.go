package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/go-contacts/httpx"
	"github.com/diewo77/go-contacts/internal/models"
)

type ctxKey string

const userCtxKey = ctxKey("currentUser")

// HeaderName is the request header carrying the session token. Clients send
// the bare token, no scheme prefix.
const HeaderName = "Authorization"

// NewToken returns a fresh opaque session token. UUIDv4 is backed by
// crypto/rand, so tokens are unguessable.
func NewToken() string { return uuid.NewString() }

// TokenFromRequest extracts the raw session token from the request.
func TokenFromRequest(r *http.Request) (string, bool) {
	t := r.Header.Get(HeaderName)
	return t, t != ""
}

// WithUser stores the resolved user in context.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// UserFromContext extracts the resolved user.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*models.User)
	return u, ok && u != nil
}

// Middleware guards protected routes. It resolves the token against the user
// table and attaches the matched user to the request context; a missing or
// unknown token is rejected with 401 before the handler runs. Users whose
// token was cleared at logout no longer match.
func Middleware(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := TokenFromRequest(r)
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			var user models.User
			if err := db.WithContext(r.Context()).Where("token = ?", token).First(&user).Error; err != nil {
				httpx.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
		})
	}
}
