package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/mock"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

func TestReprocessImagesHandler_Success(t *testing.T) {
	ok := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	bad := uuid.MustParse("bbbbbbbb-bbbb-cccc-dddd-eeeeeeeeeeee")
	svc := &mock.MockBacklogReprocessor{Out: &port.BatchOutput{
		Total: 2, Processed: 1, Failed: 1,
		Results: []port.ProcessingOutcome{
			{ID: ok, Status: port.OutcomeSuccess, Result: &port.ProcessImageOutput{}},
			{ID: bad, Status: port.OutcomeFailed, Error: "failed to download source image"},
		},
	}}

	rec := httptest.NewRecorder()
	ReprocessImagesHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reprocess-images", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var got struct {
		Message   string `json:"message"`
		Total     int    `json:"total"`
		Processed int    `json:"processed"`
		Failed    int    `json:"failed"`
		Results   []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Message == "" || got.Total != 2 || got.Processed != 1 || got.Failed != 1 {
		t.Errorf("unexpected summary %+v", got)
	}
	if len(got.Results) != 2 || got.Results[1].ID != bad.String() || got.Results[1].Error == "" {
		t.Errorf("unexpected results %+v", got.Results)
	}
}

func TestReprocessImagesHandler_Empty(t *testing.T) {
	svc := &mock.MockBacklogReprocessor{Out: &port.BatchOutput{}}

	rec := httptest.NewRecorder()
	ReprocessImagesHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reprocess-images", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if results, ok := got["results"].([]any); !ok || len(results) != 0 {
		t.Errorf("results should be an empty array, got %v", got["results"])
	}
}

func TestReprocessImagesHandler_ScanError(t *testing.T) {
	svc := &mock.MockBacklogReprocessor{Err: errors.New("db down")}

	rec := httptest.NewRecorder()
	ReprocessImagesHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reprocess-images", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", rec.Code)
	}
}
