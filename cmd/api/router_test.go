package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/lock"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/metrics"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/mock"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/usecase/productimage"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const secret = "s3cret"

type harness struct {
	router  http.Handler
	repo    *mock.ImageRepo
	strg    *mock.Storage
	fetcher *mock.Fetcher
	img     *model.ProductImage
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	src := image.NewRGBA(image.Rect(0, 0, 600, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 600; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, src, nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}

	img := &model.ProductImage{
		ID:                  uuid.NewUUID(),
		ProductID:           uuid.NewUUID(),
		OriginalURL:         "https://storage.test/product-images/products/p1/front.jpg",
		OriginalStoragePath: "products/p1/front.jpg",
		ProcessingStatus:    model.ProcessingStatusPending,
	}

	repo := mock.NewImageRepo(img)
	repo.ListOut = []*model.ProductImage{img}
	strg := &mock.Storage{}
	fetcher := &mock.Fetcher{Bodies: map[string][]byte{img.OriginalURL: buf.Bytes()}}
	gen := variant.NewGenerator(variant.NewWebPEncoder())

	reg := prometheus.NewRegistry()
	pm := metrics.NewPipelineMetrics(reg)
	processor := productimage.NewImageProcessor(repo, fetcher, gen, strg, lock.NewNoop(), pm, productimage.Config{})

	r := newRouter(routeDeps{
		previewer:     productimage.NewImagePreviewer(fetcher, gen, variant.DefaultSpecs),
		processor:     processor,
		reprocessor:   productimage.NewBacklogReprocessor(repo, processor, pm, 2, productimage.DefaultStaleAfter),
		serviceSecret: secret,
		metrics:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	return &harness{router: r, repo: repo, strg: strg, fetcher: fetcher, img: img}
}

func (h *harness) do(method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AuthGateHasNoSideEffects(t *testing.T) {
	h := newHarness(t)
	body := fmt.Sprintf(`{"record":{"id":%q}}`, h.img.ID)

	for _, path := range []string{"/process-images", "/admin/reprocess-images"} {
		for _, auth := range []string{"", "Bearer wrong", "Basic " + secret} {
			rec := h.do(http.MethodPost, path, auth, body)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s with %q: status = %d; want 401", path, auth, rec.Code)
			}
		}
	}

	if n := h.strg.Saved(); n != 0 {
		t.Errorf("storage writes = %d; want 0", n)
	}
	if h.repo.SaveCalls != 0 || len(h.repo.Processing) != 0 || len(h.repo.FailedIDs) != 0 {
		t.Errorf("database writes happened: save=%d processing=%d failed=%d", h.repo.SaveCalls, len(h.repo.Processing), len(h.repo.FailedIDs))
	}
	if h.repo.ListCalled {
		t.Error("backlog scan must not start without auth")
	}
	if len(h.fetcher.Calls) != 0 {
		t.Errorf("source downloads = %d; want 0", len(h.fetcher.Calls))
	}
}

func TestRouter_ProcessImagesWithSecret(t *testing.T) {
	h := newHarness(t)
	body := fmt.Sprintf(`{"record":{"id":%q}}`, h.img.ID)

	rec := h.do(http.MethodPost, "/process-images", "Bearer "+secret, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	// three variants uploaded; the original is only recorded
	if n := h.strg.Saved(); n != 3 {
		t.Errorf("storage writes = %d; want 3", n)
	}
	if got := h.repo.Image(h.img.ID); got.ProcessingStatus != model.ProcessingStatusCompleted {
		t.Errorf("status = %q; want completed", got.ProcessingStatus)
	}
}

func TestRouter_ReprocessWithSecret(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/admin/reprocess-images", "Bearer "+secret, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) || !strings.Contains(rec.Body.String(), `"processed":1`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	h := newHarness(t)

	if rec := h.do(http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", rec.Code)
	}

	rec := h.do(http.MethodGet, "/does-not-exist", "", "")
	if rec.Code != http.StatusNotFound || rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("unknown route: status %d, content type %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = h.do(http.MethodGet, "/process-image", "", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: status %d", rec.Code)
	}
}

func TestRouter_ProcessImageByURL(t *testing.T) {
	h := newHarness(t)
	body := fmt.Sprintf(`{"imageUrl":%q,"storagePath":"products/p1/front.jpg"}`, h.img.OriginalURL)

	rec := h.do(http.MethodPost, "/process-image", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (body %s)", rec.Code, rec.Body.String())
	}
	for _, want := range []string{"products/p1/front_thumbnail.webp", "products/p1/front_medium.webp", "products/p1/front_large.webp"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("response missing %q", want)
		}
	}
	if n := h.strg.Saved(); n != 0 {
		t.Errorf("preview must not upload, got %d writes", n)
	}
}
