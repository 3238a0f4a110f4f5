package productimage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/mock"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

func TestReprocessBacklog_CompletenessUnderPartialFailure(t *testing.T) {
	productID := uuid.NewUUID()
	var images []*model.ProductImage
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		images = append(images, newImage(productID, name))
	}
	f := newFixture(images...)
	f.repo.ListOut = images
	body := jpegFixture(t, 200, 150)
	for i, img := range images {
		if i%2 == 1 {
			f.fetcher.Errs[img.OriginalURL] = errors.New("unreachable")
			continue
		}
		f.fetcher.Bodies[img.OriginalURL] = body
	}

	svc := NewBacklogReprocessor(f.repo, f.processor(), nil, 2, time.Minute)
	out, err := svc.ReprocessBacklog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Total != 5 || out.Processed != 3 || out.Failed != 2 || len(out.Results) != 5 {
		t.Fatalf("summary = total %d processed %d failed %d results %d", out.Total, out.Processed, out.Failed, len(out.Results))
	}
	for i, r := range out.Results {
		if r.ID != images[i].ID || r.ProductID != productID {
			t.Errorf("result %d identifies %s/%s", i, r.ID, r.ProductID)
		}
		if i%2 == 1 {
			if r.Status != port.OutcomeFailed || r.Error == "" || r.Result != nil {
				t.Errorf("result %d = %+v; want failed with error", i, r)
			}
		} else if r.Status != port.OutcomeSuccess || r.Result == nil {
			t.Errorf("result %d = %+v; want success", i, r)
		}
	}
}

func TestReprocessBacklog_ScanError(t *testing.T) {
	repo := mock.NewImageRepo()
	repo.ListErr = errors.New("db fail")
	proc := &mock.MockImageProcessor{}
	svc := NewBacklogReprocessor(repo, proc, nil, 2, time.Minute)

	_, err := svc.ReprocessBacklog(context.Background())
	if err == nil || err.Error() != "db fail" {
		t.Fatalf("expected db fail, got %v", err)
	}
	if proc.Called {
		t.Error("processor should not be called when the scan fails")
	}
}

func TestReprocessBacklog_Empty(t *testing.T) {
	repo := mock.NewImageRepo()
	svc := NewBacklogReprocessor(repo, &mock.MockImageProcessor{}, nil, 2, time.Minute)

	out, err := svc.ReprocessBacklog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 0 || out.Results == nil || len(out.Results) != 0 {
		t.Errorf("unexpected output %+v", out)
	}
}

func TestReprocessBacklog_StaleCutoff(t *testing.T) {
	repo := mock.NewImageRepo()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewBacklogReprocessor(repo, &mock.MockImageProcessor{}, nil, 1, 15*time.Minute).(*backlogReprocessorSrv)
	svc.now = func() time.Time { return now }

	if _, err := svc.ReprocessBacklog(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(-15 * time.Minute); !repo.ListBefore.Equal(want) {
		t.Errorf("stale cutoff = %v; want %v", repo.ListBefore, want)
	}
}

// gatedProcessor records how many calls run at the same time.
type gatedProcessor struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	panicFor uuid.UUID
	mu       sync.Mutex
	seen     map[uuid.UUID]bool
}

func (p *gatedProcessor) ProcessImage(ctx context.Context, in port.ProcessImageInput) (*port.ProcessImageOutput, error) {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		cur := p.maxSeen.Load()
		if n <= cur || p.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	p.mu.Lock()
	p.seen[in.ID] = true
	p.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	if in.ID == p.panicFor {
		panic("decoder exploded")
	}
	return &port.ProcessImageOutput{}, nil
}

func TestReprocessBacklog_BoundedAndPanicSafe(t *testing.T) {
	var images []*model.ProductImage
	for i := 0; i < 12; i++ {
		images = append(images, newImage(uuid.NewUUID(), "img"))
	}
	repo := mock.NewImageRepo()
	repo.ListOut = images
	proc := &gatedProcessor{panicFor: images[3].ID, seen: map[uuid.UUID]bool{}}

	svc := NewBacklogReprocessor(repo, proc, nil, 3, time.Minute)
	out, err := svc.ReprocessBacklog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := proc.maxSeen.Load(); got > 3 {
		t.Errorf("max concurrent = %d; want <= 3", got)
	}
	if len(proc.seen) != 12 {
		t.Errorf("processed %d distinct images; want 12", len(proc.seen))
	}
	if out.Processed != 11 || out.Failed != 1 {
		t.Errorf("processed %d failed %d; want 11 and 1", out.Processed, out.Failed)
	}
	if r := out.Results[3]; r.Status != port.OutcomeFailed || r.Error == "" {
		t.Errorf("panicking item = %+v", r)
	}
}

func TestReprocessBacklog_AlreadyProcessingIsFailedOutcome(t *testing.T) {
	img := newImage(uuid.NewUUID(), "photo")
	repo := mock.NewImageRepo(img)
	repo.ListOut = []*model.ProductImage{img}
	proc := &mock.MockImageProcessor{Err: ErrAlreadyProcessing}

	out, err := NewBacklogReprocessor(repo, proc, nil, 1, time.Minute).ReprocessBacklog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Failed != 1 || out.Results[0].Error != ErrAlreadyProcessing.Error() {
		t.Errorf("unexpected output %+v", out)
	}
	if in := proc.Inputs[0]; in.OriginalURL != img.OriginalURL || in.OriginalStoragePath != img.OriginalStoragePath {
		t.Errorf("processor input = %+v", in)
	}
}
