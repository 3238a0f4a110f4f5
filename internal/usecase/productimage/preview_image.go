package productimage

import (
	"context"
	"errors"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/placeholder"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
)

type imagePreviewerSrv struct {
	fetcher port.Fetcher
	gen     port.VariantGenerator
	specs   []variant.Spec
}

// compile-time check: *imagePreviewerSrv must satisfy port.ImagePreviewer
var _ port.ImagePreviewer = (*imagePreviewerSrv)(nil)

// NewImagePreviewer constructs an ImagePreviewer implementation.
func NewImagePreviewer(fetcher port.Fetcher, gen port.VariantGenerator, specs []variant.Spec) port.ImagePreviewer {
	if len(specs) == 0 {
		specs = variant.DefaultSpecs
	}
	return &imagePreviewerSrv{fetcher: fetcher, gen: gen, specs: specs}
}

// PreviewImage renders the variants of an image by URL and hands the encoded
// bytes back. Nothing is stored; uploading is left to the caller.
func (s *imagePreviewerSrv) PreviewImage(ctx context.Context, in port.PreviewImageInput) (*port.PreviewImageOutput, error) {
	if in.ImageURL == "" || in.StoragePath == "" {
		return nil, errors.New("image url and storage path are required")
	}

	src, err := s.fetcher.Fetch(ctx, in.ImageURL)
	if err != nil {
		return nil, &FetchError{URL: in.ImageURL, Err: err}
	}

	source, results, err := s.gen.Generate(ctx, src, s.specs)
	if err != nil {
		return nil, err
	}

	out := &port.PreviewImageOutput{
		OriginalURL: in.ImageURL,
		Variants:    make([]port.PreviewVariant, 0, len(results)),
		Width:       source.Width,
		Height:      source.Height,
		FileSize:    source.ByteSize,
	}
	for _, res := range results {
		if res.Err != nil {
			logger.Warnf(ctx, "preview variant %q of %q not generated: %v", res.Spec.Name, in.ImageURL, res.Err)
			continue
		}
		out.Variants = append(out.Variants, port.PreviewVariant{
			Name: res.Generated.Name,
			Path: VariantPath(in.StoragePath, res.Generated.Name),
			Data: res.Generated.Data,
			Size: res.Generated.ByteSize,
		})
	}

	if h, err := placeholder.EncodeImage(source.Image); err != nil {
		logger.Warnf(ctx, "blurhash of %q skipped: %v", in.ImageURL, err)
	} else {
		out.Blurhash = &h
	}

	return out, nil
}
