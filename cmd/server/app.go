package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/staffboard/internal/config"
	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/domain/timeline"
	"github.com/rpggio/staffboard/internal/sqlite"
)

// app holds the wired services shared by every command.
type app struct {
	cfg           config.Config
	logger        *slog.Logger
	db            *sqlite.DB
	keys          *sqlite.APIKeyStore
	timeline      *timeline.Service
	notifications *notification.Service
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		db.Close()
		return nil, err
	}
	policy := timeline.NewCutoffPolicy(loc, cfg.Timeline.LockGrace)
	timelineSvc := timeline.NewService(sqlite.NewActivityRepository(db, policy), policy, logger,
		timeline.WithLocation(loc),
	)

	var store notification.Store
	switch cfg.Notifications.Store {
	case config.StoreCollection:
		store = sqlite.NewNotificationCollection(sqlite.NewKVStore(db))
	default:
		store = sqlite.NewNotificationRepository(db)
	}
	notificationSvc, err := notification.NewService(store, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("services ready", "db", cfg.DB.Path, "notifications_store", cfg.Notifications.Store, "location", loc.String())

	return &app{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		keys:          sqlite.NewAPIKeyStore(db),
		timeline:      timelineSvc,
		notifications: notificationSvc,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// newLogger builds the process logger. The returned closer releases the log
// file when STAFFBOARD_LOG_PATH is set.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	closer := func() {}
	if logPath := os.Getenv("STAFFBOARD_LOG_PATH"); logPath != "" {
		fileWriter, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			logWriter = fileWriter
			closer = func() { fileWriter.Close() }
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closer
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
