package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/splax/userscout/internal/ensemble"
	"github.com/splax/userscout/internal/search"
	"github.com/splax/userscout/internal/server"
	"github.com/splax/userscout/pkg/config"
	"github.com/splax/userscout/pkg/logger"
)

func main() {
	cfg := config.LoadWebConfig()
	log := logger.New("userscoutd", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := ensemble.New(cfg.APIBaseURL)
	if err != nil {
		log.Error("failed to configure ensembledata client", "error", err)
		os.Exit(1)
	}

	svc := search.New(client, log)
	srv, err := server.New(cfg, svc, log)
	if err != nil {
		log.Error("failed to configure server", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("web ui listening", "addr", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
