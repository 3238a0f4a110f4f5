package integration

import (
	"context"
	"testing"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/repository/mariadb"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

func newRecord(status model.ProcessingStatus, thumb *string) *model.ProductImage {
	id := uuid.NewUUID()
	return &model.ProductImage{
		ID:                  id,
		ProductID:           uuid.NewUUID(),
		OriginalURL:         "http://example.invalid/" + id.String() + ".jpg",
		OriginalStoragePath: "products/" + id.String() + ".jpg",
		ThumbnailURL:        thumb,
		ProcessingStatus:    status,
	}
}

func TestImageRepositoryIntegration_ListUnprocessed(t *testing.T) {
	ctx := context.Background()
	db := migratedDB(t)
	repo := mariadb.NewImageRepository(db)

	done := ptrString("http://cdn/thumb.webp")
	pending := newRecord(model.ProcessingStatusPending, nil)
	failed := newRecord(model.ProcessingStatusFailed, done)
	legacy := newRecord(model.ProcessingStatusCompleted, nil)
	completed := newRecord(model.ProcessingStatusCompleted, done)
	fresh := newRecord(model.ProcessingStatusProcessing, nil)
	stale := newRecord(model.ProcessingStatusProcessing, nil)

	for _, img := range []*model.ProductImage{pending, failed, legacy, completed, fresh, stale} {
		insertImage(t, db, img)
	}
	if _, err := db.ExecContext(ctx, "UPDATE product_images SET updated_at = ? WHERE id = ?",
		time.Now().UTC().Add(-time.Hour), stale.ID); err != nil {
		t.Fatalf("age stale row: %v", err)
	}

	got, err := repo.ListUnprocessed(ctx, time.Now().UTC().Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("ListUnprocessed: %v", err)
	}

	want := map[uuid.UUID]bool{pending.ID: true, failed.ID: true, legacy.ID: true, stale.ID: true}
	if len(got) != len(want) {
		t.Fatalf("got %d eligible images; want %d", len(got), len(want))
	}
	for _, img := range got {
		if !want[img.ID] {
			t.Errorf("image #%s (%s) should not be eligible", img.ID, img.ProcessingStatus)
		}
	}
}

func TestImageRepositoryIntegration_SaveResultIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := migratedDB(t)
	repo := mariadb.NewImageRepository(db)

	img := newRecord(model.ProcessingStatusPending, nil)
	insertImage(t, db, img)

	if err := repo.MarkProcessing(ctx, img.ID); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}

	objectID := "etag-1"
	variants := []model.ImageVariant{
		{ProductImageID: img.ID, VariantName: model.VariantThumbnail, Width: 400, Height: 300, ByteSize: 10, Format: "webp",
			StoragePath: "p_thumbnail.webp", PublicURL: "http://cdn/p_thumbnail.webp", StorageObjectID: &objectID},
		{ProductImageID: img.ID, VariantName: model.VariantOriginal, Width: 2000, Height: 1500, ByteSize: 99, Format: "jpeg",
			StoragePath: "p.jpg", PublicURL: "http://cdn/p.jpg"},
	}
	img.Blurhash = ptrString("LEHV6nWB2yk8pyo0adR*.7kCMdnj")
	img.ThumbnailURL = ptrString("http://cdn/p_thumbnail.webp")
	img.ProcessingStatus = model.ProcessingStatusProcessing
	if err := img.TransitionTo(model.ProcessingStatusCompleted); err != nil {
		t.Fatalf("transition: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.SaveResult(ctx, img, variants); err != nil {
			t.Fatalf("SaveResult #%d: %v", i+1, err)
		}
	}

	got, err := repo.ListVariants(ctx, img.ID)
	if err != nil {
		t.Fatalf("ListVariants: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d variant rows; want 2", len(got))
	}

	// a later run without a placeholder keeps the stored one
	img.Blurhash = nil
	variants[0].Width = 399
	if err := repo.SaveResult(ctx, img, variants[:1]); err != nil {
		t.Fatalf("SaveResult without blurhash: %v", err)
	}

	stored, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Blurhash == nil || *stored.Blurhash != "LEHV6nWB2yk8pyo0adR*.7kCMdnj" {
		t.Errorf("blurhash = %v; want it kept", stored.Blurhash)
	}
	if stored.ProcessingStatus != model.ProcessingStatusCompleted {
		t.Errorf("status = %q", stored.ProcessingStatus)
	}

	got, _ = repo.ListVariants(ctx, img.ID)
	for _, v := range got {
		if v.VariantName == model.VariantThumbnail && v.Width != 399 {
			t.Errorf("thumbnail width = %d; want the upserted 399", v.Width)
		}
	}
}

func TestImageRepositoryIntegration_MarkFailed(t *testing.T) {
	ctx := context.Background()
	db := migratedDB(t)
	repo := mariadb.NewImageRepository(db)

	img := newRecord(model.ProcessingStatusProcessing, nil)
	insertImage(t, db, img)

	if err := repo.MarkFailed(ctx, img.ID, "decode: unsupported format"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	stored, err := repo.GetByID(ctx, img.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ProcessingStatus != model.ProcessingStatusFailed {
		t.Errorf("status = %q; want failed", stored.ProcessingStatus)
	}
	if stored.FailureMessage == nil || *stored.FailureMessage != "decode: unsupported format" {
		t.Errorf("failure message = %v", stored.FailureMessage)
	}
}
