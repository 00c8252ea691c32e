package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/seismic-render/renderer/internal/assets"
	"github.com/seismic-render/renderer/internal/cache"
	"github.com/seismic-render/renderer/internal/config"
	"github.com/seismic-render/renderer/internal/drawer"
	"github.com/seismic-render/renderer/internal/httpapi"
	"github.com/seismic-render/renderer/internal/ratelimit"
	"github.com/seismic-render/renderer/internal/version"
	"github.com/seismic-render/renderer/internal/worker"
)

var (
	assetsPath   = flag.String("assets", "assets.bundle", "path to the asset bundle produced by assetgen")
	renderQueue  = flag.Int("render-queue", 32, "depth of the pending-render channel before Submit blocks")
	versionFlag  = flag.Bool("version", false, "print version information and exit")
	versionShort = flag.Bool("v", false, "print version information and exit (shorthand)")
)

func main() {
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(os.Stdout)

	if *versionFlag || *versionShort {
		fmt.Printf("seismic-renderer v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.BypassHMAC {
		log.Printf("WARNING: HMAC verification is bypassed (BYPASS_HMAC=true); do not run this in production")
	}

	log.Printf("seismic-renderer v%s (git SHA: %s)", version.Version, version.GitSHA)

	bundle, err := assets.Load(*assetsPath)
	if err != nil {
		log.Fatalf("failed to load asset bundle from %s: %v", *assetsPath, err)
	}
	log.Printf("loaded asset bundle: %d vertices, %d areas", len(bundle.Vertices), len(bundle.Areas))

	renderCache := cache.New(cfg.ImageCacheCapacity)
	limiter := ratelimit.New(cfg.MinimumResponseInterval)
	w := worker.New(bundle, drawer.NewSoftwareDrawer(), *renderQueue)

	server := httpapi.NewServer(cfg, renderCache, limiter, w)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("listening on %s", cfg.Listen)
		if err := server.Start(ctx); err != nil {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("graceful shutdown complete")
}
