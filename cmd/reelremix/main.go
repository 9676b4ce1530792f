package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/reel-remix/internal/config"
	"github.com/nguyentantai21042004/reel-remix/internal/fetcher"
	"github.com/nguyentantai21042004/reel-remix/internal/history"
	"github.com/nguyentantai21042004/reel-remix/internal/httpapi"
	"github.com/nguyentantai21042004/reel-remix/internal/inbox"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/media"
	"github.com/nguyentantai21042004/reel-remix/internal/pipeline"
	"github.com/nguyentantai21042004/reel-remix/internal/resolver"
	"github.com/nguyentantai21042004/reel-remix/internal/speech"
	"github.com/nguyentantai21042004/reel-remix/internal/storage"
	"github.com/nguyentantai21042004/reel-remix/internal/stylist"
	"github.com/nguyentantai21042004/reel-remix/internal/textgen"
	"github.com/nguyentantai21042004/reel-remix/internal/watcher"
	"github.com/nguyentantai21042004/reel-remix/pkg/executor"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx := context.Background()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "Reel remix service starting (%s/%s)", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Resolver: %s, speech: %s, text: %s", cfg.Resolver.Provider, cfg.Speech.Provider, cfg.TextGen.Provider)

	var mirror storage.Mirror
	if cfg.Storage.MinIO.Enabled {
		mirror, err = storage.NewMinIOMirror(ctx, cfg.Storage.MinIO)
		if err != nil {
			log.Error(ctx, "Failed to connect to MinIO: %v", err)
			os.Exit(1)
		}
		log.Info(ctx, "Mirroring text artifacts to bucket %s", cfg.Storage.MinIO.BucketName)
	}
	store := storage.New(cfg.Paths.Downloads, cfg.Paths.Temp, mirror, log)

	if err := ensureDirectories(cfg, store); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	res, err := resolver.New(cfg.Resolver, log)
	if err != nil {
		log.Error(ctx, "Failed to create resolver: %v", err)
		os.Exit(1)
	}
	transcriber, err := speech.New(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to create speech client: %v", err)
		os.Exit(1)
	}
	gen, err := textgen.New(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to create text generator: %v", err)
		os.Exit(1)
	}

	var (
		repo     history.Repository
		recorder pipeline.Recorder
	)
	if cfg.History.Enabled {
		db, err := history.Open(cfg.History.DSN)
		if err != nil {
			log.Error(ctx, "Failed to open history database: %v", err)
			os.Exit(1)
		}
		repo = history.New(db)
		recorder = repo
	}

	transcoder := media.New(cfg.FFmpeg, executor.New(), log)
	assembler := pipeline.NewAssembler(transcoder, transcriber, store,
		cfg.Chunking.MaxChunkLength, cfg.Performance.MaxChunkConcurrent, log)

	items := pipeline.NewItemPipeline(pipeline.ItemDeps{
		Fetcher:     fetcher.New(nil),
		Transcoder:  transcoder,
		Assembler:   assembler,
		Analyzer:    stylist.NewAnalyzer(gen, log),
		Store:       store,
		AudioFormat: cfg.FFmpeg.AudioFormat,
	}, log)

	batch := pipeline.NewBatch(pipeline.BatchDeps{
		Resolver:      res,
		Items:         items,
		Synthesizer:   stylist.NewSynthesizer(gen, log),
		Store:         store,
		Recorder:      recorder,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
	}, log)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httpapi.NewHandler(batch, repo, cfg.Server.RequestTimeout, log)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: httpapi.Setup(handler, cfg.Paths.Downloads),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 2)
	go func() {
		log.Info(ctx, "Server running at http://localhost:%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Paths.Inbox != "" {
		runner := inbox.New(batch, cfg.Paths.Output, cfg.Paths.Archived, log)
		w, err := watcher.New(cfg.Paths.Inbox, inbox.Extensions, runner.Handle, log, cfg.Performance.MaxConcurrent)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("job watcher: %w", err)
			}
		}()
		log.Info(ctx, "Watching %s for job files, results go to %s", cfg.Paths.Inbox, cfg.Paths.Output)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "%v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "Server shutdown: %v", err)
	}

	log.Info(shutdownCtx, "Reel remix service stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config, store storage.Store) error {
	dirs := store.Dirs()
	if cfg.Paths.Inbox != "" {
		dirs = append(dirs, cfg.Paths.Inbox, cfg.Paths.Output, cfg.Paths.Archived)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
