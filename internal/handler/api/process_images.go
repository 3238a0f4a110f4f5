package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/validation"
)

// ImageRecord mirrors the product_images row sent by the storage trigger or
// the batch sweep. Only id is required; blanks are loaded from the database.
type ImageRecord struct {
	ID                  string `json:"id" validate:"required,uuid"`
	ProductID           string `json:"product_id" validate:"omitempty,uuid"`
	OriginalURL         string `json:"original_url" validate:"omitempty,url"`
	OriginalStoragePath string `json:"original_storage_path" validate:"omitempty,storagepath"`
}

type ProcessImagesRequest struct {
	Record *ImageRecord `json:"record" validate:"required"`
}

type ProcessImagesResponse struct {
	Success bool                     `json:"success"`
	Updates *port.ProcessImageOutput `json:"updates"`
}

// ProcessImagesHandler processes one stored product image and records its
// variants.
func ProcessImagesHandler(svc port.ImageProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			WriteError(ctx, w, http.StatusBadRequest, "could not read request body", err)
			return
		}
		if strings.TrimSpace(string(raw)) == "" {
			WriteError(ctx, w, http.StatusBadRequest, "request body is required", nil)
			return
		}

		var req ProcessImagesRequest
		if err := json.Unmarshal(raw, &req); err != nil {
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

		in, err := req.Record.toInput()
		if err != nil {
			WriteError(ctx, w, http.StatusBadRequest, "invalid record", err)
			return
		}

		out, err := svc.ProcessImage(ctx, in)
		if err != nil {
			switch {
			case errors.Is(err, productimage.ErrImageNotFound):
				WriteError(ctx, w, http.StatusNotFound, fmt.Sprintf("product image #%s not found", in.ID), err)
			case errors.Is(err, productimage.ErrAlreadyProcessing):
				WriteError(ctx, w, http.StatusConflict, fmt.Sprintf("product image #%s is already being processed", in.ID), err)
			default:
				WriteError(ctx, w, http.StatusInternalServerError, err.Error(), err)
			}
			return
		}

		RespondJSON(ctx, w, http.StatusOK, ProcessImagesResponse{Success: true, Updates: out})
		logger.Infof(ctx, "✅  Successfully processed product image #%s", in.ID)
	}
}

func (rec *ImageRecord) toInput() (port.ProcessImageInput, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return port.ProcessImageInput{}, fmt.Errorf("invalid id: %w", err)
	}
	in := port.ProcessImageInput{
		ID:                  id,
		OriginalURL:         rec.OriginalURL,
		OriginalStoragePath: rec.OriginalStoragePath,
	}
	if rec.ProductID != "" {
		if in.ProductID, err = uuid.Parse(rec.ProductID); err != nil {
			return port.ProcessImageInput{}, fmt.Errorf("invalid product_id: %w", err)
		}
	}
	return in, nil
}
