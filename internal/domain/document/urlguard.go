package document

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// lookupIP is swappable in tests.
var lookupIP = net.LookupIP

// ValidateTemplateURL vets a caller-supplied template URL before any
// network fetch. Only HTTPS is accepted, and the host must not resolve to
// a loopback, private, or link-local address.
func ValidateTemplateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid template_url: %w", err)
	}
	if u.Scheme != "https" {
		return errors.New("template_url must use https")
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("template_url has no host")
	}

	// Literal IPs are checked directly; hostnames are resolved and every
	// returned address must be public.
	if ip := net.ParseIP(host); ip != nil {
		return checkAddr(ip)
	}
	ips, err := lookupIP(host)
	if err != nil {
		return fmt.Errorf("resolve template_url host: %w", err)
	}
	if len(ips) == 0 {
		return errors.New("template_url host did not resolve")
	}
	for _, ip := range ips {
		if err := checkAddr(ip); err != nil {
			return err
		}
	}
	return nil
}

func checkAddr(ip net.IP) error {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return fmt.Errorf("template_url resolves to a disallowed address %s", ip)
	}
	return nil
}
