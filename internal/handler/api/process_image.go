package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/validation"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
)

type ProcessImageRequest struct {
	ImageURL    string `json:"imageUrl" validate:"required,url"`
	StoragePath string `json:"storagePath" validate:"required,storagepath"`
}

// ProcessImageHandler renders the variants of an image given by URL and
// returns them encoded in the response. Nothing is stored.
func ProcessImageHandler(svc port.ImagePreviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req ProcessImageRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			WriteError(ctx, w, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(ctx, w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(ctx, w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(ctx, "❌  Validation failed: %s", errsJSON)
			return
		}

		out, err := svc.PreviewImage(ctx, port.PreviewImageInput{
			ImageURL:    req.ImageURL,
			StoragePath: req.StoragePath,
		})
		if err != nil {
			var fetchErr *productimage.FetchError
			var decodeErr *variant.DecodeError
			switch {
			case errors.As(err, &fetchErr), errors.As(err, &decodeErr):
				WriteError(ctx, w, http.StatusInternalServerError, err.Error(), err)
			default:
				WriteError(ctx, w, http.StatusInternalServerError, "could not process image", err)
			}
			return
		}

		RespondJSON(ctx, w, http.StatusOK, out)
		logger.Infof(ctx, "✅  Successfully rendered %d variant(s) for %s", len(out.Variants), req.StoragePath)
	}
}
