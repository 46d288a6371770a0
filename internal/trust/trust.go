// Package trust decides how much a rendering surface is trusted with
// origin information. Browsers known to annotate every field with its
// true frame origin run in multi-origin mode; everything else is
// restricted to single-origin mode, where any per-field origin
// annotation causes outright rejection.
package trust

import (
	"fmt"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// Policy answers per-surface trust questions. It is immutable after
// construction.
type Policy struct {
	multiOriginSurfaces map[string]bool
}

// DefaultMultiOriginSurfaces lists browser package ids known to reliably
// report per-field origins through their autofill integration.
var DefaultMultiOriginSurfaces = []string{
	"com.android.chrome",
	"com.chrome.beta",
	"com.chrome.canary",
	"com.chrome.dev",
	"org.chromium.chrome",
	"com.brave.browser",
	"com.microsoft.emmx",
	"com.vivaldi.browser",
}

// NewPolicy builds a Policy from the allowlisted surface package ids.
// Passing nil selects the default browser list.
func NewPolicy(multiOriginSurfaces []string) *Policy {
	if multiOriginSurfaces == nil {
		multiOriginSurfaces = DefaultMultiOriginSurfaces
	}
	set := make(map[string]bool, len(multiOriginSurfaces))
	for _, pkg := range multiOriginSurfaces {
		set[pkg] = true
	}
	return &Policy{multiOriginSurfaces: set}
}

// SingleOriginOnly reports whether the surface must be classified in
// single-origin mode. Unknown surfaces fail closed: without proof that
// the surface labels fields per frame, per-field origins cannot be
// trusted and embedded frames must be assumed.
func (p *Policy) SingleOriginOnly(surfacePackage string) bool {
	return !p.multiOriginSurfaces[surfacePackage]
}

// Origin reduces a raw URL to its security-relevant identity: scheme
// plus registrable domain (eTLD+1). Use the Public Suffix List rather
// than splitting on dots; it is the only way to get example.co.uk right.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing origin url: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("origin url has no hostname: %s", rawURL)
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("resolving registrable domain for %s: %w", host, err)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + domain, nil
}
