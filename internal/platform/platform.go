// Package platform describes the supported social networks and maps their
// divergent search-response shapes onto a common tabular record.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Platform identifies a supported social network.
type Platform string

const (
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
	Threads   Platform = "threads"
)

// ErrUnsupported is returned for platform identifiers outside the supported set.
var ErrUnsupported = errors.New("platform is not supported")

// All lists supported platforms in display order.
func All() []Platform {
	return []Platform{TikTok, Instagram, Threads}
}

// Parse validates a raw platform identifier.
func Parse(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case TikTok:
		return TikTok, nil
	case Instagram:
		return Instagram, nil
	case Threads:
		return Threads, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnsupported)
	}
}

// Config is the static request shape for one platform's user search.
type Config struct {
	// Endpoint is the path under the EnsembleData API base.
	Endpoint string
	// SearchParam is the query parameter carrying the search text.
	SearchParam string
	// CursorParam names the pagination parameter where the API exposes one.
	// Only TikTok does, and only the first page (cursor=0) is ever requested.
	CursorParam string
	// Units is the EnsembleData billing cost of one request.
	Units int
}

var configs = map[Platform]Config{
	TikTok:    {Endpoint: "/tt/user/search", SearchParam: "keyword", CursorParam: "cursor", Units: 2},
	Instagram: {Endpoint: "/instagram/search", SearchParam: "text", Units: 4},
	Threads:   {Endpoint: "/threads/user/search", SearchParam: "name", Units: 4},
}

// Config returns the request shape for the platform.
func (p Platform) Config() Config {
	return configs[p]
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}
