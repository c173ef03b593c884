package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tarynjenifer/smartgrow-ai/internal/config"
	"github.com/Tarynjenifer/smartgrow-ai/internal/logging"
	"github.com/Tarynjenifer/smartgrow-ai/internal/serverapp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := run(*cfgPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "smartgrow: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, envFile string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		StaticDir:     cfg.Server.StaticDir,
		UseDiskStatic: cfg.Server.DevStatic,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
