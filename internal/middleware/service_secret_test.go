package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/api_context"
)

func TestWithServiceSecret(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		authHeader     string
		wantStatus     int
		expectNextCall bool
	}{
		{name: "missing header", secret: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", secret: "s3cret", authHeader: "Basic s3cret", wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", secret: "s3cret", authHeader: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "prefix of secret", secret: "s3cret", authHeader: "Bearer s3c", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured secret", secret: "", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "valid", secret: "s3cret", authHeader: "Bearer s3cret", wantStatus: http.StatusNoContent, expectNextCall: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if sub, _ := api_context.AuthSubjectFromContext(r.Context()); sub != api_context.ServiceSubject {
					t.Errorf("subject = %q; want %q", sub, api_context.ServiceSubject)
				}
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/process-images", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			WithServiceSecret(tc.secret)(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if nextCalled != tc.expectNextCall {
				t.Fatalf("nextCalled = %v; want %v", nextCalled, tc.expectNextCall)
			}
			if !tc.expectNextCall && rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("expected JSON error body")
			}
		})
	}
}
