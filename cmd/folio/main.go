package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	clog "github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/gommon/log"

	"folio/pkg/config"
	"folio/pkg/content"
	"folio/pkg/content/rest"
	"folio/pkg/content/sqlite"
	"folio/pkg/imagegen"
	"folio/pkg/media"
	"folio/pkg/queue/generation"
	"folio/pkg/schema"
	"folio/pkg/server"
	"folio/pkg/utils"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if lvl, err := clog.ParseLevel(cfg.LogLevel); err == nil {
		clog.SetLevel(lvl)
	}

	store, closeStore, err := openContent(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	var storage media.Storage = media.Disk{Root: cfg.MediaDir}
	if cfg.Remote() {
		storage = media.NewRemote(cfg.BaaSURL, cfg.BaaSKey, nil)
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	gallery, err := utils.LoadSaver[[]schema.GalleryEntry](cfg.GalleryFile)
	if err != nil {
		log.Warnf("Failed to load %s: %v", cfg.GalleryFile, err)
		gallery = utils.NewSaver[[]schema.GalleryEntry](cfg.GalleryFile, nil)
	} else {
		log.Infof("Loaded %d gallery entries", len(gallery.Get()))
	}

	srv := server.NewServer(ctx, server.Options{
		Queue:             generation.New(gen, cfg.GenerationInterval),
		Content:           content.NewCached(store, cfg.CacheTTL),
		Media:             storage,
		Buckets:           cfg.Buckets(),
		Gallery:           gallery,
		HeroInterval:      cfg.HeroTitleInterval,
		ReservedReference: cfg.ReservedReference,
	})
	srv.Echo.Logger.SetLevel(echoLevel(cfg.LogLevel))

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err)
		done()
	}
	<-finishedShutDown
}

func openContent(cfg config.Config) (content.Store, func(), error) {
	if cfg.Remote() {
		log.Infof("Reading content from %s", cfg.BaaSURL)
		return rest.New(cfg.BaaSURL, cfg.BaaSKey, nil), func() {}, nil
	}
	db, err := sqlite.Open(cfg.ContentDB)
	if err != nil {
		return nil, nil, fmt.Errorf("open content db: %w", err)
	}
	log.Infof("Reading content from %s", cfg.ContentDB)
	return db, func() { _ = db.Close() }, nil
}

func newGenerator(ctx context.Context, cfg config.Config) (imagegen.Generator, error) {
	switch cfg.ImageProvider {
	case config.ProviderGemini:
		return imagegen.NewGeminiGenerator(ctx, cfg.GeminiKey, cfg.GeminiImageModel)
	default:
		openAI := imagegen.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIImageModel)
		if cfg.OpenAIKey == "" {
			// local OpenAI-compatible server
			openAI.ChangeBaseURL("http://localhost:1234/v1")
		}
		return openAI, nil
	}
}

func echoLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
