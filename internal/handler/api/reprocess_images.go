package api

import (
	"fmt"
	"net/http"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
)

type ReprocessImagesResponse struct {
	Message string `json:"message"`
	*port.BatchOutput
}

func ReprocessImagesHandler(svc port.BacklogReprocessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		out, err := svc.ReprocessBacklog(ctx)
		if err != nil {
			WriteError(ctx, w, http.StatusInternalServerError, "could not list unprocessed images", err)
			return
		}

		msg := "No images need processing"
		if out.Total > 0 {
			msg = fmt.Sprintf("Processed %d of %d image(s)", out.Processed, out.Total)
		}
		if out.Results == nil {
			out.Results = []port.ProcessingOutcome{}
		}

		RespondJSON(ctx, w, http.StatusOK, ReprocessImagesResponse{Message: msg, BatchOutput: out})
		logger.Infof(ctx, "✅  Reprocessing finished: %d processed, %d failed", out.Processed, out.Failed)
	}
}
