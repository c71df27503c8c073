package redirect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-youth/lumen/core"
)

func TestRules_Target(t *testing.T) {
	rules := NewRules(core.RedirectConfig{
		CanonicalHost:    "lumenyouth.org",
		LegacyHosts:      []string{"oldchurchyouth.org", "WWW.OldChurchYouth.org"},
		PreservedPaths:   []string{"/programs/*", "/about", "/"},
		PassThroughPaths: []string{"/healthz", "/api/newsletter/unsubscribe"},
	})
	assert.True(t, rules.Enabled())

	tests := []struct {
		name       string
		scheme     string
		host       string
		path       string
		query      string
		wantTarget string
		wantOK     bool
	}{
		{name: "canonical host", host: "lumenyouth.org", path: "/about"},
		{name: "unknown host", host: "localhost:8000", path: "/about"},
		{name: "exact preserved", host: "oldchurchyouth.org", path: "/about", wantTarget: "https://lumenyouth.org/about", wantOK: true},
		{name: "preserved keeps query", scheme: "http", host: "oldchurchyouth.org", path: "/programs/42", query: "tab=info",
			wantTarget: "http://lumenyouth.org/programs/42?tab=info", wantOK: true},
		{name: "prefix root", host: "oldchurchyouth.org", path: "/programs", wantTarget: "https://lumenyouth.org/programs", wantOK: true},
		{name: "prefix is not a substring", host: "oldchurchyouth.org", path: "/programsxyz", wantTarget: "https://lumenyouth.org/", wantOK: true},
		{name: "exact is not a prefix", host: "oldchurchyouth.org", path: "/about/team", wantTarget: "https://lumenyouth.org/", wantOK: true},
		{name: "other path goes home", host: "oldchurchyouth.org", path: "/donate", query: "x=1", wantTarget: "https://lumenyouth.org/", wantOK: true},
		{name: "root", host: "oldchurchyouth.org", path: "/", wantTarget: "https://lumenyouth.org/", wantOK: true},
		{name: "host case & port", host: "WWW.oldchurchyouth.ORG:8080", path: "/about", wantTarget: "https://lumenyouth.org/about", wantOK: true},
		{name: "trailing slash", host: "oldchurchyouth.org", path: "/about/", wantTarget: "https://lumenyouth.org/about", wantOK: true},
		{name: "pass through", host: "oldchurchyouth.org", path: "/healthz"},
		{name: "pass through unsubscribe", host: "oldchurchyouth.org", path: "/api/newsletter/unsubscribe", query: "token=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, ok := rules.Target(tt.scheme, tt.host, tt.path, tt.query)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTarget, target)
		})
	}
}

func TestRules_disabled(t *testing.T) {
	tests := []struct {
		name string
		conf core.RedirectConfig
	}{
		{name: "empty"},
		{name: "no legacy hosts", conf: core.RedirectConfig{CanonicalHost: "lumenyouth.org"}},
		{name: "legacy is canonical", conf: core.RedirectConfig{CanonicalHost: "lumenyouth.org", LegacyHosts: []string{"LumenYouth.org:443"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := NewRules(tt.conf)
			assert.False(t, rules.Enabled())
			_, ok := rules.Target("https", "lumenyouth.org", "/", "")
			assert.False(t, ok)
		})
	}
}
