package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	routecache "github.com/Borislavv/go-route-cache"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
)

const (
	productTTL  = 5 * time.Minute
	categoryTTL = time.Hour
)

type product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// catalog stands in for the database behind the cache.
type catalog struct {
	products []product
}

func newCatalog() *catalog {
	return &catalog{products: []product{
		{ID: 1, Name: "Trail shoe", Category: "footwear", Price: 129.9},
		{ID: 2, Name: "Rain jacket", Category: "outerwear", Price: 89.5},
		{ID: 3, Name: "Merino socks", Category: "footwear", Price: 14},
	}}
}

func (c *catalog) byCategory(category string) []product {
	if category == "" {
		return c.products
	}
	var out []product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (c *catalog) categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	return out
}

func (c *catalog) warmFeatured(cache *routecache.Cache) routecache.Producer {
	return func(context.Context) error {
		_, err := cache.Set(productsKey(""), c.byCategory(""), productTTL)
		return err
	}
}

func (c *catalog) warmCategories(cache *routecache.Cache) routecache.Producer {
	return func(context.Context) error {
		_, err := cache.Set("categories:all", c.categories(), categoryTTL)
		return err
	}
}

func productsKey(category string) string {
	return fmt.Sprintf("products:category=%s", category)
}

func newRouter(cache *routecache.Cache, cat *catalog, logger *zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		v, err := cache.Remember(productsKey(category), productTTL, func() (any, error) {
			return cat.byCategory(category), nil
		})
		if err != nil {
			logger.Error().Err(err).Str("category", category).Msg("products lookup failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, v)
	})

	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		v, err := cache.Remember("categories:all", categoryTTL, func() (any, error) {
			return cat.categories(), nil
		})
		if err != nil {
			logger.Error().Err(err).Msg("categories lookup failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, v)
	})

	mux.HandleFunc("GET /api/cache/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, cache.Stats())
	})

	mux.HandleFunc("GET /debug/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		metrics.WriteJSONOnce(cache.Registry(), w)
	})

	mux.HandleFunc("POST /api/cache/invalidate", func(w http.ResponseWriter, r *http.Request) {
		pattern := strings.TrimSpace(r.URL.Query().Get("pattern"))
		if pattern == "" {
			http.Error(w, "pattern is required", http.StatusBadRequest)
			return
		}
		removed := cache.InvalidatePattern(pattern)
		logger.Info().Str("pattern", pattern).Int("removed", removed).Msg("cache invalidated")
		writeJSON(w, logger, map[string]int{"removed": removed})
	})

	return cache.Middleware(mux)
}

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("write response")
	}
}
