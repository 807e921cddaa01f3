// Package storage persists uploaded profile images either on local disk or
// in a MinIO bucket.
package storage

import (
	"context"
	"io"
)

// ImageStore saves images and hands back the path clients use to fetch them.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	// Remove deletes an image previously returned by Save. Paths the store
	// does not own, such as the default avatar, are ignored.
	Remove(ctx context.Context, publicPath string) error
}
