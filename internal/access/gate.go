// Package access decides whether a caller may use the relay at all.
package access

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAccessDenied = errors.New("access denied")
)

// Gate checks the shared API key and the declared origin against an allow-list.
// An origin is allowed when it starts with any entry. Callers that declare no
// origin pass the origin check.
type Gate struct {
	apiKey  []byte
	origins []string
}

func NewGate(apiKey string, origins []string) *Gate {
	g := &Gate{apiKey: []byte(apiKey)}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			g.origins = append(g.origins, origin)
		}
	}
	return g
}

// Check returns nil when both the key and the origin are acceptable.
// Every failure wraps ErrAccessDenied; the message names the failing check
// for logs only.
func (g *Gate) Check(apiKey, origin string) error {
	if len(g.apiKey) == 0 {
		return fmt.Errorf("%w: no API key configured", ErrAccessDenied)
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), g.apiKey) != 1 {
		return fmt.Errorf("%w: invalid API key", ErrAccessDenied)
	}
	if origin != "" && !g.OriginAllowed(origin) {
		return fmt.Errorf("%w: origin %q not allowed", ErrAccessDenied, origin)
	}
	return nil
}

// OriginAllowed reports whether origin starts with an allow-list entry.
func (g *Gate) OriginAllowed(origin string) bool {
	for _, allowed := range g.origins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// Origins returns a copy of the allow-list.
func (g *Gate) Origins() []string {
	return append([]string(nil), g.origins...)
}

// RequestOrigin picks the declared origin of a request: Origin, then Referer.
func RequestOrigin(origin, referer string) string {
	if origin != "" {
		return origin
	}
	return referer
}
