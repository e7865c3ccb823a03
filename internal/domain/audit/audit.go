// Package audit defines the audit trail domain model and the redaction
// rules applied before any entry leaves the process.
package audit

import "time"

// Entry is a single audit record. Details has already been through Redact
// by the time an entry reaches a sink.
type Entry struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource,omitempty"`
	Outcome   string         `json:"outcome"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Audit entry outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDenied  = "denied"
)

// Audit actions recorded by the service.
const (
	ActionTokenIssued     = "auth.token_issued"
	ActionAuthFailed      = "auth.failed"
	ActionKeyCreated      = "auth.key_created"
	ActionKeyDeleted      = "auth.key_deleted"
	ActionTemplateUpload  = "template.uploaded"
	ActionTemplateDeleted = "template.deleted"
	ActionDocGenerated    = "document.generated"
	ActionDocDownloaded   = "document.downloaded"
	ActionRateLimited     = "request.rate_limited"
)

// Redacted replaces sensitive values in audit details.
const Redacted = "[REDACTED]"

// sensitiveKeys are field names whose values never reach an audit sink.
// Matching is case-insensitive on the lowered key.
var sensitiveKeys = map[string]bool{
	"cpf":           true,
	"cnpj":          true,
	"rg":            true,
	"password":      true,
	"senha":         true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"secret":        true,
	"authorization": true,
}

// Redact returns a copy of details with sensitive values replaced. It
// descends one level into nested maps (the "data" payload of generation
// requests); deeper values are summarized rather than copied.
func Redact(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		if sensitiveKeys[lower(k)] {
			out[k] = Redacted
			continue
		}
		if m, ok := v.(map[string]any); ok {
			inner := make(map[string]any, len(m))
			for ik, iv := range m {
				if sensitiveKeys[lower(ik)] {
					inner[ik] = Redacted
				} else if _, nested := iv.(map[string]any); nested {
					inner[ik] = "[object]"
				} else {
					inner[ik] = iv
				}
			}
			out[k] = inner
			continue
		}
		out[k] = v
	}
	return out
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
