package metascan

import (
	"regexp"
	"strings"
)

var (
	validURLRe = regexp.MustCompile(`(?i)^(https?://)?([a-z0-9-]+\.)+[a-z0-9]{2,3}(:\d+)?(/[^\s]*)?$`)
	schemeRe   = regexp.MustCompile(`(?i)^https?://`)
)

// ValidURL reports whether s looks like a fetchable URL: optional http(s)
// scheme, a dotted host ending in a 2-3 character TLD, optional port and path.
func ValidURL(s string) bool {
	return validURLRe.MatchString(s)
}

// Normalizer turns accepted input lines into fetchable URLs.
type Normalizer struct {
	// WWWDomains lists domain families whose hosts must carry a "www."
	// subdomain. A host matches a family when it equals the domain, is one
	// of its subdomains, or is a country-code variant of it (purina.com.ar).
	WWWDomains []string
}

// DefaultNormalizer requires www. on the purina.com family.
var DefaultNormalizer = &Normalizer{WWWDomains: []string{"purina.com"}}

// NormalizeURL normalizes s with DefaultNormalizer.
func NormalizeURL(s string) string {
	return DefaultNormalizer.Normalize(s)
}

// Normalize prepends https:// when s has no http(s) scheme. For hosts in a
// configured domain family it inserts "www." and forces https://.
// Normalize is pure and idempotent.
func (n *Normalizer) Normalize(s string) string {
	scheme := schemeRe.FindString(s)
	rest := s[len(scheme):]
	if scheme == "" {
		scheme = "https://"
	}

	host := strings.ToLower(hostOf(rest))
	if !strings.HasPrefix(host, "www.") && n.requiresWWW(host) {
		return "https://www." + rest
	}
	return scheme + rest
}

func (n *Normalizer) requiresWWW(host string) bool {
	if n == nil {
		return false
	}
	for _, d := range n.WWWDomains {
		d = strings.ToLower(strings.TrimPrefix(d, "www."))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) ||
			strings.HasPrefix(host, d+".") || strings.Contains(host, "."+d+".") {
			return true
		}
	}
	return false
}

// hostOf returns the host portion of a scheme-less URL.
func hostOf(rest string) string {
	if i := strings.IndexAny(rest, "/:?#"); i >= 0 {
		return rest[:i]
	}
	return rest
}
