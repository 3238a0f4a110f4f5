// Package placeholder derives the compact blurhash string clients render
// while the real image is still loading.
package placeholder

import (
	"fmt"
	"image"

	"github.com/buckket/go-blurhash"
	"github.com/disintegration/imaging"
)

const (
	AnalysisSize = 32
	XComponents  = 4
	YComponents  = 3
)

// EncodingError reports a pixel buffer or component configuration the
// encoder cannot work with.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "placeholder: " + e.Reason
}

// Encode hashes a raw non-premultiplied RGBA buffer of width*height pixels.
func Encode(pix []byte, width, height, xComponents, yComponents int) (string, error) {
	if width < 1 || height < 1 {
		return "", &EncodingError{Reason: fmt.Sprintf("invalid dimensions %dx%d", width, height)}
	}
	if len(pix) != width*height*4 {
		return "", &EncodingError{Reason: fmt.Sprintf("pixel buffer is %d bytes, want %d", len(pix), width*height*4)}
	}
	if xComponents < 1 || xComponents > 9 || yComponents < 1 || yComponents > 9 {
		return "", &EncodingError{Reason: fmt.Sprintf("components %dx%d out of range 1..9", xComponents, yComponents)}
	}

	img := &image.NRGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	hash, err := blurhash.Encode(xComponents, yComponents, img)
	if err != nil {
		return "", &EncodingError{Reason: err.Error()}
	}
	return hash, nil
}

// EncodeImage downsamples img to the analysis size and hashes it with the
// fixed component counts.
func EncodeImage(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", &EncodingError{Reason: "empty image"}
	}
	small := imaging.Resize(img, AnalysisSize, AnalysisSize, imaging.Box)
	return Encode(small.Pix, AnalysisSize, AnalysisSize, XComponents, YComponents)
}
