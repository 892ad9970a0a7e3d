package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/staffboard/internal/mcp"
	"github.com/rpggio/staffboard/internal/scheduler"
	"github.com/rpggio/staffboard/internal/transport"
)

func runServe(a *app) error {
	cfg := a.cfg

	services := mcp.Services{
		Timeline:      a.timeline,
		Notifications: a.notifications,
	}
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		Resolver:      a.keys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		DefaultUser:   cfg.Auth.DefaultUser,
		Logger:        a.logger,
	})

	jobs := scheduler.New(a.notifications, cfg.Notifications.Retention, a.logger,
		scheduler.WithPruneSchedule(cfg.Notifications.PruneSchedule),
	)
	if err := jobs.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() { <-jobs.Stop().Done() }()

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(a.logger, mcpServer)
	}

	authMiddleware := transport.DefaultUserMiddleware(cfg.Auth.DefaultUser)
	if cfg.Auth.Enabled {
		authMiddleware = transport.AuthMiddleware(a.keys)
	}
	router := transport.NewServer(mcp.NewHandler(services), authMiddleware, a.logger)

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)

	return runHTTPMode(a.logger, router, cfg.Server.Host, cfg.Server.Port, cfg.Auth.Enabled)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int, authEnabled bool) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", authEnabled)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}
