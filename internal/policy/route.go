package policy

import (
	"strings"

	"github.com/Borislavv/go-route-cache/config"
)

// Classification is informational only: it never changes the headers emitted for a path.
type Classification string

const (
	Static  Classification = "static"
	API     Classification = "api"
	Dynamic Classification = "dynamic"
	HTML    Classification = "html"
	Default Classification = "default"
)

func parseClassification(s string) Classification {
	switch c := Classification(strings.ToLower(s)); c {
	case Static, API, Dynamic, HTML:
		return c
	default:
		return Default
	}
}

type RoutePolicy struct {
	Prefix       string
	CacheControl string
	Class        Classification
}

const (
	immutableYear  = "public, max-age=31536000, immutable"
	privateNoStore = "private, no-cache, no-store, must-revalidate"
)

// Fallback applies when no prefix matches.
var Fallback = RoutePolicy{CacheControl: "public, max-age=300", Class: Default}

// DefaultRoutes returns the built-in table. Order matters: the first matching prefix wins,
// so "/" shadows "/products.html".
func DefaultRoutes() []RoutePolicy {
	return []RoutePolicy{
		{Prefix: "/css/", CacheControl: immutableYear, Class: Static},
		{Prefix: "/js/", CacheControl: immutableYear, Class: Static},
		{Prefix: "/images/", CacheControl: "public, max-age=2592000", Class: Static},
		{Prefix: "/api/products", CacheControl: "public, max-age=300, s-maxage=600", Class: API},
		{Prefix: "/api/categories", CacheControl: "public, max-age=3600, s-maxage=7200", Class: API},
		{Prefix: "/api/brands", CacheControl: "public, max-age=3600, s-maxage=7200", Class: API},
		{Prefix: "/api/cart", CacheControl: privateNoStore, Class: Dynamic},
		{Prefix: "/api/user", CacheControl: privateNoStore, Class: Dynamic},
		{Prefix: "/", CacheControl: "public, max-age=300, s-maxage=600", Class: HTML},
		{Prefix: "/products.html", CacheControl: "public, max-age=600, s-maxage=1200", Class: HTML},
	}
}

// RoutesFromConfig converts configured rows preserving their order. An empty input yields nil.
func RoutesFromConfig(rows []config.RouteCfg) []RoutePolicy {
	if len(rows) == 0 {
		return nil
	}
	routes := make([]RoutePolicy, 0, len(rows))
	for _, r := range rows {
		routes = append(routes, RoutePolicy{
			Prefix:       r.Prefix,
			CacheControl: r.CacheControl,
			Class:        parseClassification(r.Class),
		})
	}
	return routes
}
