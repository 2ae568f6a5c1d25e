package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	routecache "github.com/Borislavv/go-route-cache"
	"github.com/Borislavv/go-route-cache/config"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to the YAML config, defaults are used when empty")
		addr    = flag.String("addr", ":8080", "HTTP listen address")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.LoadConfig(*cfgPath)
		if err != nil {
			bootstrap := newLogger(cfg.Log)
			bootstrap.Fatal().Err(err).Str("path", *cfgPath).Msg("failed to load config")
		}
		cfg = loaded
	}
	logger := newLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := routecache.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid cache config")
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Error().Err(err).Msg("cache close")
		}
	}()

	catalog := newCatalog()
	cache.Register("featured-products", catalog.warmFeatured(cache))
	cache.Register("categories", catalog.warmCategories(cache))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newRouter(cache, catalog, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("http server shutdown")
		}
	}()

	logger.Info().Str("addr", *addr).Msg("http server is listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("http server stopped unexpectedly")
		return
	}
	logger.Info().Msg("http server is stopped")
}
