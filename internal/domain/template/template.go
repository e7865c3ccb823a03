// Package template defines the stored document template domain model.
package template

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// Template is a tenant-owned DOCX template. The raw bytes live in the
// object store; this struct is the metadata row. Templates are immutable
// once uploaded.
type Template struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Name       string    `json:"name"`
	Variables  []string  `json:"variables"` // declared placeholders, parse order
	SizeBytes  int64     `json:"size_bytes"`
	StorageKey string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// CreateRequest is the input for uploading a template.
type CreateRequest struct {
	Name string `json:"name"`
	// Content is the base64-encoded DOCX payload for JSON uploads.
	// Multipart uploads carry the bytes out of band.
	Content string `json:"content,omitempty"`
}

// ValidateName checks that a template name is safe for use in storage keys.
// It rejects path separators, dot prefixes, and traversal patterns.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > 128 {
		return errors.New("name too long (max 128 chars)")
	}
	if strings.ContainsAny(name, `/\`) {
		return errors.New("name must not contain path separators")
	}
	if strings.Contains(name, "..") {
		return errors.New("name must not contain '..'")
	}
	if name[0] == '.' {
		return errors.New("name must not start with '.'")
	}
	if filepath.Clean(name) != name {
		return errors.New("name contains invalid path characters")
	}
	return nil
}
