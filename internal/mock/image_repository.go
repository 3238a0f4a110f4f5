package mock

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

// ImageRepo is an in-memory image repository for tests. Variants are keyed
// by (image id, variant name) the same way the database keys them.
type ImageRepo struct {
	mu sync.Mutex

	Images   map[uuid.UUID]*model.ProductImage
	Variants map[uuid.UUID]map[string]model.ImageVariant

	ListOut []*model.ProductImage

	GetErr          error
	ListErr         error
	MarkErr         error
	SaveErr         error
	ListVariantsErr error

	ListBefore    time.Time
	ListCalled    bool
	Processing    []uuid.UUID
	FailedIDs     []uuid.UUID
	FailedReasons []string
	SaveCalls     int
}

func NewImageRepo(images ...*model.ProductImage) *ImageRepo {
	r := &ImageRepo{
		Images:   map[uuid.UUID]*model.ProductImage{},
		Variants: map[uuid.UUID]map[string]model.ImageVariant{},
	}
	for _, img := range images {
		cp := *img
		r.Images[img.ID] = &cp
	}
	return r
}

func (m *ImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	img, ok := m.Images[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *img
	return &cp, nil
}

func (m *ImageRepo) ListUnprocessed(ctx context.Context, staleBefore time.Time) ([]*model.ProductImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalled = true
	m.ListBefore = staleBefore
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

func (m *ImageRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Processing = append(m.Processing, id)
	if m.MarkErr != nil {
		return m.MarkErr
	}
	if img, ok := m.Images[id]; ok {
		img.ProcessingStatus = model.ProcessingStatusProcessing
	}
	return nil
}

func (m *ImageRepo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedIDs = append(m.FailedIDs, id)
	m.FailedReasons = append(m.FailedReasons, reason)
	if m.MarkErr != nil {
		return m.MarkErr
	}
	if img, ok := m.Images[id]; ok {
		img.ProcessingStatus = model.ProcessingStatusFailed
		r := reason
		img.FailureMessage = &r
	}
	return nil
}

func (m *ImageRepo) SaveResult(ctx context.Context, img *model.ProductImage, variants []model.ImageVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}

	stored, ok := m.Images[img.ID]
	if !ok {
		cp := *img
		stored = &cp
		m.Images[img.ID] = stored
	}
	// mirrors COALESCE in the real update
	if img.Blurhash != nil {
		stored.Blurhash = img.Blurhash
	}
	if img.ThumbnailURL != nil {
		stored.ThumbnailURL = img.ThumbnailURL
	}
	if img.MediumURL != nil {
		stored.MediumURL = img.MediumURL
	}
	if img.LargeURL != nil {
		stored.LargeURL = img.LargeURL
	}
	stored.ProcessingStatus = img.ProcessingStatus
	stored.FailureMessage = img.FailureMessage

	if m.Variants[img.ID] == nil {
		m.Variants[img.ID] = map[string]model.ImageVariant{}
	}
	for _, v := range variants {
		m.Variants[img.ID][v.VariantName] = v
	}
	return nil
}

func (m *ImageRepo) ListVariants(ctx context.Context, id uuid.UUID) ([]model.ImageVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListVariantsErr != nil {
		return nil, m.ListVariantsErr
	}
	out := make([]model.ImageVariant, 0, len(m.Variants[id]))
	for _, v := range m.Variants[id] {
		out = append(out, v)
	}
	return out, nil
}

// Image returns a copy of the stored image.
func (m *ImageRepo) Image(id uuid.UUID) *model.ProductImage {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.Images[id]
	if !ok {
		return nil
	}
	cp := *img
	return &cp
}
