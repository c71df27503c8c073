// Package redirect moves visitors of the legacy domains over to the canonical one.
package redirect

import (
	"net"
	"strings"

	"github.com/lumen-youth/lumen/core"
)

// Rules decides where requests reaching a legacy host must go.
// Patterns are exact paths ("/about") or prefixes ("/programs/*" matches "/programs" and everything below).
type Rules struct {
	canonical   string
	legacy      map[string]struct{}
	preserved   []pattern
	passThrough []pattern
}

type pattern struct {
	path   string
	prefix bool
}

func newPattern(s string) pattern {
	s = core.CleanString(s)
	if strings.HasSuffix(s, "/*") {
		return pattern{path: cleanPath(strings.TrimSuffix(s, "/*")), prefix: true}
	}
	return pattern{path: cleanPath(s)}
}

func (p pattern) match(path string) bool {
	if path == p.path {
		return true
	}
	if !p.prefix {
		return false
	}
	if p.path == "/" {
		return true
	}
	return strings.HasPrefix(path, p.path+"/")
}

func NewRules(conf core.RedirectConfig) *Rules {
	r := &Rules{
		canonical: normalizeHost(conf.CanonicalHost),
		legacy:    make(map[string]struct{}, len(conf.LegacyHosts)),
	}
	for _, h := range conf.LegacyHosts {
		if h = normalizeHost(h); h != "" && h != r.canonical {
			r.legacy[h] = struct{}{}
		}
	}
	for _, p := range conf.PreservedPaths {
		if p = core.CleanString(p); p != "" {
			r.preserved = append(r.preserved, newPattern(p))
		}
	}
	for _, p := range conf.PassThroughPaths {
		if p = core.CleanString(p); p != "" {
			r.passThrough = append(r.passThrough, newPattern(p))
		}
	}
	return r
}

// Enabled is false when no canonical host or no legacy host is configured.
func (r *Rules) Enabled() bool {
	return r.canonical != "" && len(r.legacy) > 0
}

// IsLegacy reports whether `host` (with or without port) is one of the legacy hosts.
func (r *Rules) IsLegacy(host string) bool {
	_, ok := r.legacy[normalizeHost(host)]
	return ok
}

// Target returns the URL a request for `host`, `path` & `rawQuery` must be permanently redirected to.
// ok is false when the request is to be served as is.
func (r *Rules) Target(scheme, host, path, rawQuery string) (target string, ok bool) {
	if !r.Enabled() || !r.IsLegacy(host) {
		return "", false
	}
	path = cleanPath(path)
	for _, p := range r.passThrough {
		if p.match(path) {
			return "", false
		}
	}
	if scheme == "" {
		scheme = "https"
	}
	base := scheme + "://" + r.canonical

	for _, p := range r.preserved {
		if p.match(path) {
			target = base + path
			if rawQuery != "" {
				target += "?" + rawQuery
			}
			return target, true
		}
	}
	return base + "/", true
}

func normalizeHost(host string) string {
	host = core.CleanString(host, true /* lower */)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimPrefix(strings.TrimSuffix(host, "]"), "[")
	return strings.TrimSuffix(host, ".")
}

func cleanPath(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
