// Command checkers serves a two-player checkers board over HTTP.
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

    "go.uber.org/zap"

    "github.com/jaminalder/codex-checkers/internal/app"
    "github.com/jaminalder/codex-checkers/internal/config"
    "github.com/jaminalder/codex-checkers/internal/obslog"
    "github.com/jaminalder/codex-checkers/internal/web"
)

func main() {
    configPath := flag.String("config", "", "path to a YAML config file")
    flag.Parse()

    if err := run(*configPath); err != nil {
        fmt.Fprintf(os.Stderr, "checkers: %v\n", err)
        os.Exit(1)
    }
}

func run(configPath string) error {
    cfg, err := config.Load(configPath)
    if err != nil {
        return err
    }
    logger, err := obslog.New(cfg.Log)
    if err != nil {
        return err
    }
    defer func() { _ = logger.Sync() }()
    obslog.Set(logger)

    svc := app.NewService(app.WithVariant(cfg.Variant()), app.WithLogger(logger.Named("game")))
    srv := &http.Server{
        Addr:        cfg.Server.Addr,
        Handler:     web.NewServer(svc, logger.Named("http")),
        ReadTimeout: cfg.Server.ReadTimeout,
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    errCh := make(chan error, 1)
    go func() {
        logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.Int("pieces", cfg.Variant().PieceCount()))
        errCh <- srv.ListenAndServe()
    }()

    select {
    case err := <-errCh:
        if !errors.Is(err, http.ErrServerClosed) {
            return fmt.Errorf("serve: %w", err)
        }
        return nil
    case <-ctx.Done():
    }

    logger.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        return fmt.Errorf("shutdown: %w", err)
    }
    return nil
}
