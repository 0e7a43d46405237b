package geogate

import (
	"net/url"
	"strings"
)

// CacheStats summarizes the effectiveness counters of a cache instance.
type CacheStats struct {
	Hits    int     `json:"hits"`
	Misses  int     `json:"misses"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hitRate"`
}

// NormalizeURLKey canonicalizes a URL for use as a cache key by stripping
// tracking query parameters (utm_*, fbclid, _t) and re-serializing, so
// share-link variants of one URL collapse to a single entry. A string
// that does not parse as a URL is returned unchanged and used as the key
// verbatim.
func NormalizeURLKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	for name := range q {
		if isTrackingParam(name) {
			q.Del(name)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// isTrackingParam reports whether a query parameter carries tracking
// state rather than content-addressing state.
func isTrackingParam(name string) bool {
	name = strings.ToLower(name)
	return strings.HasPrefix(name, "utm_") || name == "fbclid" || name == "_t"
}
