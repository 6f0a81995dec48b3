package leads

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultBlockedDomains are search-engine hosts whose links never count as a
// business website. A trailing ".*" matches any country suffix of at most
// two short labels, so "google.*" covers google.com, google.de and
// google.co.uk.
var DefaultBlockedDomains = []string{"google.*"}

var redirectParam = regexp.MustCompile(`[?&](?:q|url)=([^&]+)`)

// IsRedirect reports whether raw is a search-engine outbound-link wrapper:
// a host-relative "/url?..." link or the /url path on a search-engine host.
// A business site that happens to have a /url path is not a wrapper.
func IsRedirect(raw string) bool {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "/url?") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.Contains(strings.ToLower(raw), "google.com/url?")
	}
	return u.Path == "/url" && matchesAny(strings.ToLower(u.Hostname()), DefaultBlockedDomains)
}

// UnwrapRedirect returns the destination of a redirect wrapper URL. Any other
// input is returned trimmed but otherwise unchanged.
func UnwrapRedirect(raw string) string {
	raw = strings.TrimSpace(raw)
	if !IsRedirect(raw) {
		return raw
	}

	if u, err := url.Parse(raw); err == nil {
		q := u.Query()
		for _, key := range []string{"q", "url"} {
			if v := q.Get(key); v != "" {
				return decodeTwice(v)
			}
		}
	}

	if m := redirectParam.FindStringSubmatch(raw); m != nil {
		if v, err := url.QueryUnescape(m[1]); err == nil {
			return decodeTwice(v)
		}
	}
	return raw
}

// decodeTwice undoes a second layer of percent-encoding that some wrappers
// apply to the destination.
func decodeTwice(v string) string {
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http%3a") || strings.HasPrefix(lower, "https%3a") {
		if d, err := url.QueryUnescape(v); err == nil {
			return d
		}
	}
	return v
}

// WebsiteFilter decides whether an unwrapped URL can be stored as a website.
type WebsiteFilter struct {
	BlockedDomains []string
}

// Clean unwraps raw and validates the result, returning Unknown when it is
// not an acceptable business website.
func (f WebsiteFilter) Clean(raw string) string {
	v := UnwrapRedirect(raw)
	if v == "" {
		return Unknown
	}

	u, err := url.Parse(v)
	if err != nil {
		return Unknown
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		// javascript:, mailto:, tel: and scheme-less values land here.
		return Unknown
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || f.blocked(host) {
		return Unknown
	}
	return v
}

func (f WebsiteFilter) blocked(host string) bool {
	domains := f.BlockedDomains
	if domains == nil {
		domains = DefaultBlockedDomains
	}
	return matchesAny(host, domains)
}

func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if hostMatches(host, strings.ToLower(strings.TrimPrefix(d, "."))) {
			return true
		}
	}
	return false
}

// hostMatches reports whether host is domain or one of its subdomains.
func hostMatches(host, domain string) bool {
	base, ok := strings.CutSuffix(domain, ".*")
	if !ok {
		return host == domain || strings.HasSuffix(host, "."+domain)
	}

	want := strings.Split(base, ".")
	labels := strings.Split(host, ".")
	for i := 0; i+len(want) <= len(labels); i++ {
		if !equalLabels(labels[i:i+len(want)], want) {
			continue
		}
		if countrySuffix(labels[i+len(want):]) {
			return true
		}
	}
	return false
}

func equalLabels(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// countrySuffix accepts "com", "de", "co.uk", "com.au" and the like.
func countrySuffix(labels []string) bool {
	if len(labels) == 0 || len(labels) > 2 {
		return false
	}
	for _, l := range labels {
		if len(l) < 2 || len(l) > 3 {
			return false
		}
		for _, r := range l {
			if r < 'a' || r > 'z' {
				return false
			}
		}
	}
	return true
}
