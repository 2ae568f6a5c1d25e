package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	routecache "github.com/Borislavv/go-route-cache"
	"github.com/Borislavv/go-route-cache/internal/testhelp"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*routecache.Cache, http.Handler) {
	t.Helper()
	cfg := testhelp.Cfg()
	cfg.Store.MaxMemorySize = 1024 * 1024
	cfg.AdjustConfig()

	cache, err := routecache.New(context.Background(), cfg, testhelp.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, newRouter(cache, newCatalog(), testhelp.Logger())
}

// TestRouter_ProductsAreCached serves the second request from the cache.
func TestRouter_ProductsAreCached(t *testing.T) {
	cache, h := newTestServer(t)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?category=footwear", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "public, max-age=300, s-maxage=600", rec.Header().Get("Cache-Control"))

		var products []product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		require.Len(t, products, 2)
	}

	s := cache.Stats()
	require.Equal(t, int64(1), s.Hits)
	require.Equal(t, int64(1), s.Misses)
	require.Equal(t, "50.00%", s.HitRate)
}

// TestRouter_NotModified answers 304 for a known ETag.
func TestRouter_NotModified(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}

// TestRouter_Invalidate removes matching keys.
func TestRouter_Invalidate(t *testing.T) {
	cache, h := newTestServer(t)
	_, _ = cache.Set("products:category=a", "x", productTTL)
	_, _ = cache.Set("products:category=b", "x", productTTL)
	_, _ = cache.Set("categories:all", "x", categoryTTL)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cache/invalidate?pattern=products:", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"removed":2}`, rec.Body.String())
	require.Equal(t, int64(1), cache.Len())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cache/invalidate", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestCatalog_Warmers fill the cache through registered producers.
func TestCatalog_Warmers(t *testing.T) {
	cache, _ := newTestServer(t)
	cat := newCatalog()
	cache.Register("featured-products", cat.warmFeatured(cache))
	cache.Register("categories", cat.warmCategories(cache))

	ok, failed := cache.Warmup(context.Background())
	require.Equal(t, 2, ok)
	require.Zero(t, failed)

	v, found := cache.Get("categories:all")
	require.True(t, found)
	require.Equal(t, []string{"footwear", "outerwear"}, v)
}

// TestStatsEndpoint exposes the JSON snapshot.
func TestStatsEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cache/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, "0.00%", stats["hitRate"])
}

// TestMetricsEndpoint renders the go-metrics registry.
func TestMetricsEndpoint(t *testing.T) {
	cache, h := newTestServer(t)
	_, _ = cache.Get("missing")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Equal(t, float64(1), decoded["cache.misses"]["value"])
}
