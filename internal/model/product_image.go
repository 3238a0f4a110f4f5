package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
)

type ProcessingStatus string

const (
	ProcessingStatusPending    ProcessingStatus = "pending"
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusCompleted  ProcessingStatus = "completed"
	ProcessingStatusFailed     ProcessingStatus = "failed"
)

var ErrInvalidTransition = errors.New("invalid processing status transition")

// processing -> processing restarts a run whose worker died before persisting.
var statusTransitions = map[ProcessingStatus][]ProcessingStatus{
	ProcessingStatusPending:    {ProcessingStatusProcessing},
	ProcessingStatusFailed:     {ProcessingStatusProcessing},
	ProcessingStatusCompleted:  {ProcessingStatusProcessing},
	ProcessingStatusProcessing: {ProcessingStatusProcessing, ProcessingStatusCompleted, ProcessingStatusFailed},
}

func (s ProcessingStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s ProcessingStatus) CanTransitionTo(next ProcessingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ProductImage is one uploaded source image of a product together with the
// outputs derived from it by the processing pipeline.
type ProductImage struct {
	ID                  uuid.UUID        `json:"id"`
	ProductID           uuid.UUID        `json:"product_id"`
	OriginalURL         string           `json:"original_url"`
	OriginalStoragePath string           `json:"original_storage_path"`
	Blurhash            *string          `json:"blurhash"`
	ThumbnailURL        *string          `json:"thumbnail_url"`
	MediumURL           *string          `json:"medium_url"`
	LargeURL            *string          `json:"large_url"`
	ProcessingStatus    ProcessingStatus `json:"processing_status"`
	FailureMessage      *string          `json:"failure_message"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// TransitionTo moves the image to the next processing status if the
// transition table allows it.
func (p *ProductImage) TransitionTo(next ProcessingStatus) error {
	current := p.ProcessingStatus
	if current == "" {
		current = ProcessingStatusPending
	}
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, current, next)
	}
	p.ProcessingStatus = next
	if next != ProcessingStatusFailed {
		p.FailureMessage = nil
	}
	return nil
}

// Fail moves a running image to the failed status and records why.
func (p *ProductImage) Fail(reason string) error {
	if err := p.TransitionTo(ProcessingStatusFailed); err != nil {
		return err
	}
	p.FailureMessage = &reason
	return nil
}

// HasDerivedOutputs reports whether any of the legacy derived columns is set.
// Rows that predate the status column are considered unprocessed when none is.
func (p *ProductImage) HasDerivedOutputs() bool {
	return p.Blurhash != nil || p.ThumbnailURL != nil || p.MediumURL != nil || p.LargeURL != nil
}

// SetVariantURL fills the legacy column matching the variant name. It reports
// false for names without a legacy column (e.g. "original").
func (p *ProductImage) SetVariantURL(name, url string) bool {
	u := url
	switch name {
	case VariantThumbnail:
		p.ThumbnailURL = &u
	case VariantMedium:
		p.MediumURL = &u
	case VariantLarge:
		p.LargeURL = &u
	default:
		return false
	}
	return true
}
