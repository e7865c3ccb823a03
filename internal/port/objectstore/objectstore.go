// Package objectstore defines the object storage port (interface).
package objectstore

import "context"

// ObjectStore is the narrow interface to blob storage. Keys are full
// tenant-namespaced paths built from tenant.Paths; adapters never derive
// tenant segments themselves.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns domain.ErrNotFound (wrapped) for missing keys.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
