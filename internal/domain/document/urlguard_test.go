package document

import (
	"net"
	"testing"
)

func TestValidateTemplateURLRejectsNonHTTPS(t *testing.T) {
	for _, raw := range []string{
		"http://example.com/t.docx",
		"ftp://example.com/t.docx",
		"file:///etc/passwd",
		"://broken",
		"https://",
	} {
		if err := ValidateTemplateURL(raw); err == nil {
			t.Errorf("ValidateTemplateURL(%q): expected rejection", raw)
		}
	}
}

func TestValidateTemplateURLRejectsInternalAddresses(t *testing.T) {
	for _, raw := range []string{
		"https://127.0.0.1/t.docx",
		"https://10.0.0.5/t.docx",
		"https://192.168.1.1/t.docx",
		"https://172.16.0.1/t.docx",
		"https://169.254.169.254/latest/meta-data",
		"https://[::1]/t.docx",
		"https://0.0.0.0/t.docx",
	} {
		if err := ValidateTemplateURL(raw); err == nil {
			t.Errorf("ValidateTemplateURL(%q): expected rejection", raw)
		}
	}
}

func TestValidateTemplateURLResolvesHostnames(t *testing.T) {
	orig := lookupIP
	defer func() { lookupIP = orig }()

	lookupIP = func(string) ([]net.IP, error) {
		return []net.IP{net.ParseIP("93.184.216.34")}, nil
	}
	if err := ValidateTemplateURL("https://templates.example.com/t.docx"); err != nil {
		t.Errorf("public host rejected: %v", err)
	}

	// A hostname that resolves to an internal address must be rejected
	// even though the name itself looks harmless.
	lookupIP = func(string) ([]net.IP, error) {
		return []net.IP{net.ParseIP("93.184.216.34"), net.ParseIP("10.0.0.8")}, nil
	}
	if err := ValidateTemplateURL("https://rebind.example.com/t.docx"); err == nil {
		t.Error("host resolving to private address was accepted")
	}
}
