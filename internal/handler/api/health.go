package api

import (
	"context"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler reports liveness, and readiness of the database when db is set.
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if db != nil {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				WriteError(ctx, w, http.StatusServiceUnavailable, "database unreachable", err)
				return
			}
		}
		RespondJSON(ctx, w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
