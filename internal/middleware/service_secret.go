package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/api_context"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/handler/api"
)

// WithServiceSecret only lets through requests carrying
// `Authorization: Bearer <secret>`. An empty secret rejects everything.
func WithServiceSecret(secret string) func(http.Handler) http.Handler {
	want := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if len(want) == 0 {
				api.WriteError(ctx, w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				api.WriteError(ctx, w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}
			got := []byte(strings.TrimPrefix(auth, "Bearer "))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				api.WriteError(ctx, w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}

			ctx = api_context.WithAuthSubject(ctx, api_context.ServiceSubject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
