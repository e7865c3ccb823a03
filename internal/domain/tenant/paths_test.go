package tenant

import (
	"strings"
	"testing"
)

func TestPathsForDisjointNamespaces(t *testing.T) {
	a, err := PathsFor("acme")
	if err != nil {
		t.Fatalf("paths for acme: %v", err)
	}
	b, err := PathsFor("acme2")
	if err != nil {
		t.Fatalf("paths for acme2: %v", err)
	}

	for _, pair := range [][2]string{
		{a.Templates, b.Templates},
		{a.Documents, b.Documents},
		{a.Temp, b.Temp},
		{a.Logs, b.Logs},
	} {
		if strings.HasPrefix(pair[0]+"/", pair[1]+"/") || strings.HasPrefix(pair[1]+"/", pair[0]+"/") {
			t.Errorf("namespaces overlap: %q vs %q", pair[0], pair[1])
		}
	}
}

func TestPathsForRejectsTraversal(t *testing.T) {
	hostile := []string{
		"",
		"..",
		"../other",
		"a/../b",
		"acme/",
		"acme/other",
		`acme\other`,
		"acme.other",
		".hidden",
		"ACME",
		"tenants/acme",
		"acme\x00",
		strings.Repeat("a", 65),
	}
	for _, id := range hostile {
		if _, err := PathsFor(id); err == nil {
			t.Errorf("PathsFor(%q): expected rejection", id)
		}
	}
}

func TestPathsForAcceptsWellFormedIDs(t *testing.T) {
	for _, id := range []string{"acme", "acme-corp", "t_01", "a", "0abc"} {
		p, err := PathsFor(id)
		if err != nil {
			t.Errorf("PathsFor(%q): %v", id, err)
			continue
		}
		if !strings.HasPrefix(p.Templates, "tenants/"+id+"/") {
			t.Errorf("PathsFor(%q): unexpected prefix %q", id, p.Templates)
		}
	}
}

func TestIdentityHasScope(t *testing.T) {
	unrestricted := &Identity{TenantID: "acme"}
	if !unrestricted.HasScope(ScopeTemplatesWrite) {
		t.Error("nil scopes should grant access")
	}

	scoped := &Identity{TenantID: "acme", Scopes: []string{ScopeTemplatesRead}}
	if !scoped.HasScope(ScopeTemplatesRead) {
		t.Error("expected templates:read to be granted")
	}
	if scoped.HasScope(ScopeDocumentsWrite) {
		t.Error("documents:write should be denied")
	}

	admin := &Identity{TenantID: "acme", Scopes: []string{ScopeAdminAll}}
	if !admin.HasScope(ScopeDocumentsWrite) {
		t.Error("admin:all should grant everything")
	}
}
