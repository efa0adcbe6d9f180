package apiclient

import (
	"context"
	"io"
)

// ObjectWriter writes a receipt straight to object storage for gs:// targets.
// storage.Client satisfies it.
type ObjectWriter interface {
	Upload(ctx context.Context, uri string, r io.Reader, contentType string) error
}
