package ports

import (
	"context"
	"io"
)

// AssetStore keeps uploaded files (custom cards, logos) and returns a reference
// that can later be resolved to the file.
type AssetStore interface {
	Put(ctx context.Context, folder, name string, content io.Reader) (string, error)
}
