package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/conorfennell/knolpack/internal/apkg"
	"github.com/conorfennell/knolpack/internal/config"
	"github.com/conorfennell/knolpack/internal/source"
	"github.com/conorfennell/knolpack/internal/storage"
	"github.com/conorfennell/knolpack/internal/web"
	"github.com/natefinch/atomic"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("knolpack failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1. Load configuration and set up logging
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	if cfg.Inspect != "" {
		return inspect(cfg.Inspect)
	}

	// 2. Load the SQLite runtime once for every export
	if err := storage.Default.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Listen != "" {
		return serve(ctx, cfg.Listen)
	}

	// 3. Collect cards and export them
	cards, err := source.Collect(ctx, cfg.Source, cfg.ReposDir)
	if err != nil {
		return err
	}
	pkg, err := apkg.Export(storage.Default, cfg.Deck, cards, apkg.WithTemplate(cfg.Template))
	if err != nil {
		return err
	}

	// 4. Write the package without leaving a partial file behind
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out := filepath.Join(cfg.OutDir, apkg.FileName(cfg.Deck))
	if err := atomic.WriteFile(out, bytes.NewReader(pkg)); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("Exported %d cards to %s\n", len(cards), out)
	return nil
}

func serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           web.NewServer(storage.Default, slog.Default()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func inspect(path string) error {
	pkg, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s, err := apkg.Inspect(pkg)
	if err != nil {
		return err
	}
	fmt.Printf("Collection version %d\n", s.Version)
	for _, d := range s.Decks {
		fmt.Printf("Deck: %s\n", d)
	}
	fmt.Printf("Found %d notes, %d cards.\n", s.Notes, s.Cards)
	return nil
}
