// Package document defines the generated document domain model.
package document

import (
	"errors"
	"fmt"
	"time"
)

// Format is the output container format of a generated document.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	// FormatBoth requests docx and pdf outputs in one generation call.
	FormatBoth Format = "both"
)

// ValidFormats is the set of accepted output formats.
var ValidFormats = map[Format]bool{
	FormatDOCX: true,
	FormatPDF:  true,
	FormatBoth: true,
}

// Document is the metadata row for a generated artifact. The (optionally
// encrypted) bytes live in the object store. Documents are immutable once
// created and are removed by explicit delete or the retention sweep.
type Document struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	TemplateID string    `json:"template_id,omitempty"`
	Format     Format    `json:"format"`
	SizeBytes  int64     `json:"size_bytes"`
	Encrypted  bool      `json:"encrypted"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at,omitzero"` // zero = no expiry
}

// GenerateRequest is the input for a document generation call.
// Exactly one of TemplateID or TemplateURL must be set.
type GenerateRequest struct {
	TemplateID   string         `json:"template_id,omitempty"`
	TemplateURL  string         `json:"template_url,omitempty"`
	Data         map[string]any `json:"data"`
	OutputFormat Format         `json:"output_format,omitempty"` // default docx
	Store        bool           `json:"store,omitempty"`
}

// Validate checks the generation request shape. The template URL, when
// present, is additionally vetted by ValidateTemplateURL before any fetch.
func (r *GenerateRequest) Validate() error {
	if r.TemplateID == "" && r.TemplateURL == "" {
		return errors.New("template_id or template_url is required")
	}
	if r.TemplateID != "" && r.TemplateURL != "" {
		return errors.New("template_id and template_url are mutually exclusive")
	}
	if r.Data == nil {
		return errors.New("data is required")
	}
	if r.OutputFormat == "" {
		r.OutputFormat = FormatDOCX
	}
	if !ValidFormats[r.OutputFormat] {
		return fmt.Errorf("invalid output_format %q", r.OutputFormat)
	}
	return nil
}

// GeneratedOutput is one produced artifact in a generation response.
type GeneratedOutput struct {
	Format Format `json:"format"`
	// Content is the inline base64 payload when the document was not stored.
	Content string `json:"content,omitempty"`
	// DocumentID and StorageKey locate a stored document.
	DocumentID string `json:"document_id,omitempty"`
	StorageKey string `json:"storage_key,omitempty"`
}

// GenerateResponse is the result of a generation call. Warnings carry
// non-fatal degradations such as a skipped PDF conversion.
type GenerateResponse struct {
	Outputs  []GeneratedOutput `json:"outputs"`
	Warnings []string          `json:"warnings,omitempty"`
}
