// Package tenant defines the tenant domain model for multi-tenancy.
package tenant

import (
	"errors"
	"time"
)

// Tenant represents an isolated customer whose templates, documents, and
// quotas never overlap with another tenant's.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields required to create a new tenant.
type CreateRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Validate checks that the CreateRequest has all required fields and that
// the identifier is safe to embed in storage namespaces.
func (r *CreateRequest) Validate() error {
	if err := ValidateID(r.ID); err != nil {
		return err
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a tenant.
type UpdateRequest struct {
	Name    string `json:"name,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// Identity is the authenticated caller derived fresh from a credential on
// every request. It is never persisted.
type Identity struct {
	TenantID    string    `json:"tenant_id"`
	DisplayName string    `json:"display_name"`
	Scopes      []string  `json:"scopes,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"` // zero = no expiry
}

// HasScope checks whether the identity carries the required scope.
// A nil scope set means unrestricted access (signed-token identities).
func (i *Identity) HasScope(required string) bool {
	if i.Scopes == nil {
		return true
	}
	for _, s := range i.Scopes {
		if s == required || s == ScopeAdminAll {
			return true
		}
	}
	return false
}

// Resource-based credential scopes.
const (
	ScopeTemplatesRead  = "templates:read"
	ScopeTemplatesWrite = "templates:write"
	ScopeDocumentsRead  = "documents:read"
	ScopeDocumentsWrite = "documents:write"
	ScopeAdminAll       = "admin:all"
)

// ValidScopes is the set of all recognized credential scopes.
var ValidScopes = map[string]bool{
	ScopeTemplatesRead:  true,
	ScopeTemplatesWrite: true,
	ScopeDocumentsRead:  true,
	ScopeDocumentsWrite: true,
	ScopeAdminAll:       true,
}

// ValidateScopes checks that all scopes are recognized.
func ValidateScopes(scopes []string) error {
	for _, s := range scopes {
		if !ValidScopes[s] {
			return errors.New("invalid scope: " + s)
		}
	}
	return nil
}
