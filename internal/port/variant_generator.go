package port

import (
	"context"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
)

// VariantGenerator decodes a source buffer and renders resized variants.
type VariantGenerator interface {
	Inspect(src []byte) (variant.Source, error)
	Generate(ctx context.Context, src []byte, specs []variant.Spec) (variant.Source, []variant.Result, error)
}
