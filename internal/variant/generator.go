// Package variant turns one source raster into the resized, re-encoded
// copies served to storefront clients.
package variant

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	FormatWebP      = "webp"
	ContentTypeWebP = "image/webp"
	Quality         = 85
)

type Spec struct {
	Name         string
	MaxDimension int
	Format       string
}

// DefaultSpecs is the fixed set generated for every product image.
var DefaultSpecs = []Spec{
	{Name: "thumbnail", MaxDimension: 400, Format: FormatWebP},
	{Name: "medium", MaxDimension: 800, Format: FormatWebP},
	{Name: "large", MaxDimension: 1200, Format: FormatWebP},
}

// Generated is one encoded variant. Dimensions and size are read back from
// the encoded bytes.
type Generated struct {
	Name     string
	Width    int
	Height   int
	ByteSize int64
	Format   string
	Data     []byte
}

// Result pairs a Spec with either its output or the reason it failed.
type Result struct {
	Spec      Spec
	Generated *Generated
	Err       error
}

// Source describes the decoded original.
type Source struct {
	Width    int
	Height   int
	Format   string
	ByteSize int64
	Image    image.Image
}

type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("variant: failed to decode source image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Generator struct {
	enc     WebPEncoder
	quality int
}

func NewGenerator(enc WebPEncoder) *Generator {
	log.Println("initialising variant generator...")
	return &Generator{enc: enc, quality: Quality}
}

// Inspect reads the native dimensions and format without decoding pixels.
func (g *Generator) Inspect(src []byte) (Source, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return Source{}, &DecodeError{Err: err}
	}
	return Source{Width: cfg.Width, Height: cfg.Height, Format: format, ByteSize: int64(len(src))}, nil
}

// Decode fully decodes src.
func (g *Generator) Decode(src []byte) (Source, error) {
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return Source{}, &DecodeError{Err: err}
	}
	b := img.Bounds()
	if b.Empty() {
		return Source{}, &DecodeError{Err: fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())}
	}
	return Source{Width: b.Dx(), Height: b.Dy(), Format: format, ByteSize: int64(len(src)), Image: img}, nil
}

// Generate decodes src once and produces one variant per spec concurrently.
// Results keep the order of specs; a failing spec never affects its siblings.
func (g *Generator) Generate(ctx context.Context, src []byte, specs []Spec) (Source, []Result, error) {
	source, err := g.Decode(src)
	if err != nil {
		return Source{}, nil, err
	}

	results := make([]Result, len(specs))
	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec Spec) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result{Spec: spec, Err: fmt.Errorf("variant %q: panic: %v", spec.Name, r)}
				}
			}()
			if err := ctx.Err(); err != nil {
				results[i] = Result{Spec: spec, Err: err}
				return
			}
			out, err := g.Render(source.Image, spec)
			results[i] = Result{Spec: spec, Generated: out, Err: err}
		}(i, spec)
	}
	wg.Wait()

	return source, results, nil
}

// Render fits img inside spec.MaxDimension on both axes, never upscaling,
// and encodes it.
func (g *Generator) Render(img image.Image, spec Spec) (*Generated, error) {
	if spec.MaxDimension <= 0 {
		return nil, fmt.Errorf("variant %q: invalid max dimension %d", spec.Name, spec.MaxDimension)
	}
	if spec.Format != "" && spec.Format != FormatWebP {
		return nil, fmt.Errorf("variant %q: unsupported format %q", spec.Name, spec.Format)
	}

	// imaging.Fit returns a clone when the source already fits.
	resized := imaging.Fit(img, spec.MaxDimension, spec.MaxDimension, imaging.Lanczos)

	buf := &bytes.Buffer{}
	if err := g.enc.Encode(resized, g.quality, buf); err != nil {
		return nil, fmt.Errorf("variant %q: failed to encode WebP: %w", spec.Name, err)
	}

	data := buf.Bytes()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("variant %q: failed to read encoded output: %w", spec.Name, err)
	}

	return &Generated{
		Name:     spec.Name,
		Width:    cfg.Width,
		Height:   cfg.Height,
		ByteSize: int64(len(data)),
		Format:   format,
		Data:     data,
	}, nil
}
