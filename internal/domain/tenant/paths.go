package tenant

import (
	"fmt"
	"regexp"
)

// Paths are the four storage namespaces scoped exclusively to one tenant.
// They are derived deterministically from the tenant ID; two distinct
// tenant IDs never resolve to overlapping namespaces.
type Paths struct {
	Templates string
	Documents string
	Temp      string
	Logs      string
}

// validID constrains tenant identifiers to a charset that cannot traverse
// or collide inside a path: no dots, no separators, no empty segments.
var validID = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidateID rejects tenant identifiers that are unsafe to embed in a
// storage namespace. The identifier must come from the validated identity,
// never from a raw request parameter.
func ValidateID(id string) error {
	if !validID.MatchString(id) {
		return fmt.Errorf("invalid tenant id %q", id)
	}
	return nil
}

// PathsFor resolves the private namespaces for a tenant. It fails on any
// identifier that does not pass ValidateID, so a crafted identifier can
// never escape its prefix.
func PathsFor(tenantID string) (Paths, error) {
	if err := ValidateID(tenantID); err != nil {
		return Paths{}, err
	}
	base := "tenants/" + tenantID
	return Paths{
		Templates: base + "/templates",
		Documents: base + "/documents",
		Temp:      base + "/temp",
		Logs:      base + "/logs",
	}, nil
}
