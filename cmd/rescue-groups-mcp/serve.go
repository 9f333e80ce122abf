package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/gateway"
)

func cmdServer(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := gateway.NewServer(eng.client, eng.registry, eng.settings.Lazy)
	slog.Info("starting in stdio mode")
	return srv.RunStdio(ctx, os.Stdin, os.Stdout)
}

func cmdHTTP(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}

	host := flags["host"]
	port := flags["port"]
	if port == "" {
		port = "8080"
	}
	addr := host + ":" + port

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := gateway.NewServer(eng.client, eng.registry, eng.settings.Lazy)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.NewHTTPHandler(eng.settings.AuthToken),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down http server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
