package repository

import "context"

// PhotoStorage keeps uploaded order photos.
type PhotoStorage interface {
	Upload(ctx context.Context, data []byte, suggestedName, contentType string) (string, error)
	PublicURL(path string) string
}
