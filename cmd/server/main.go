package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RichardoC/lingopad/internal/api"
	"github.com/RichardoC/lingopad/internal/config"
	"github.com/RichardoC/lingopad/internal/llm"
	"github.com/RichardoC/lingopad/internal/logger"
	"github.com/RichardoC/lingopad/internal/tracer"
)

func main() {
	configPath := flag.String("config", "lingopad.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	shutdownTracer, err := tracer.Setup(cfg.Tracer)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// Without a key the server still starts; every gateway call then fails
	// with a configuration error instead of reaching upstream.
	var upstream llm.Upstream
	if cfg.LLM.HasCredential() {
		upstream, err = llm.NewUpstream(cfg.LLM, nil)
		if err != nil {
			log.Fatal("failed to initialize upstream client", zap.Error(err))
		}
	} else {
		log.Warn("OPENAI_API_KEY is not set, chat and translate requests will fail")
	}

	llmService := llm.New(cfg.LLM, upstream, log)
	handler := api.NewHandler(llmService, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(handler, cfg.Server.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("model", llmService.DefaultModel()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
