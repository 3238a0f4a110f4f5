package port

import "context"

// Fetcher downloads the bytes of a source image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
