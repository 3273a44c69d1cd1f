package middleware

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminTokenAuth guards the manager API with the bcrypt hash of the administrator token.
type AdminTokenAuth struct {
	admin     string
	tokenHash []byte
}

func NewAdminTokenAuth(admin string, tokenHash string) *AdminTokenAuth {
	return &AdminTokenAuth{
		admin:     admin,
		tokenHash: []byte(tokenHash),
	}
}

func (a *AdminTokenAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := getBearerToken(r)
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("missing admin token"))
			return
		}
		if len(a.tokenHash) == 0 || bcrypt.CompareHashAndPassword(a.tokenHash, []byte(token)) != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("invalid admin token"))
			return
		}

		ctx := context.WithValue(r.Context(), ADMIN, a.admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
