package productimage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/mock"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/model"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/variant"
)

func jpegFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 5 {
		for x := 0; x < w; x += 5 {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func newImage(productID uuid.UUID, name string) *model.ProductImage {
	p := "products/" + productID.String() + "/" + name + ".jpg"
	return &model.ProductImage{
		ID:                  uuid.NewUUID(),
		ProductID:           productID,
		OriginalURL:         "https://storage.test/product-images/" + p,
		OriginalStoragePath: p,
		ProcessingStatus:    model.ProcessingStatusPending,
	}
}

type fixture struct {
	repo    *mock.ImageRepo
	fetcher *mock.Fetcher
	strg    *mock.Storage
	locker  *mock.Locker
	gen     port.VariantGenerator
}

func newFixture(images ...*model.ProductImage) *fixture {
	return &fixture{
		repo:    mock.NewImageRepo(images...),
		fetcher: &mock.Fetcher{Bodies: map[string][]byte{}, Errs: map[string]error{}},
		strg:    &mock.Storage{},
		locker:  &mock.Locker{},
		gen:     variant.NewGenerator(variant.NewWebPEncoder()),
	}
}

func (f *fixture) processor() port.ImageProcessor {
	return NewImageProcessor(f.repo, f.fetcher, f.gen, f.strg, f.locker, nil, Config{})
}

func inputFor(img *model.ProductImage) port.ProcessImageInput {
	return port.ProcessImageInput{
		ID:                  img.ID,
		ProductID:           img.ProductID,
		OriginalURL:         img.OriginalURL,
		OriginalStoragePath: img.OriginalStoragePath,
	}
}
