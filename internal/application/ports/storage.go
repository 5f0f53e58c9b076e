package ports

import (
	"context"
	"io"
)

// PhotoStorage blob store para fotos de rocas.
type PhotoStorage interface {
	// Upload guarda el objeto y devuelve su URL pública.
	Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
}
