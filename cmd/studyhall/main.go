package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/studyhall/studyhall/pkg/api"
	"github.com/studyhall/studyhall/pkg/config"
	"github.com/studyhall/studyhall/pkg/observability"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// The logger is configured from the config, so this one failure goes
		// straight to stderr
		os.Stderr.WriteString("studyhall: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := openDatabase(ctx, cfg)
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	server, err := api.NewServer(api.Config{
		DB:             db,
		Logger:         logger,
		JWTSecret:      cfg.Auth.JWTSecret,
		TokenTTL:       cfg.Auth.TokenTTL,
		CORSOrigins:    cfg.CORSOrigins,
		UploadDir:      cfg.UploadDir,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to build server")
	}

	if metrics := server.Metrics(); metrics != nil {
		go collectDBStats(logger, metrics, db)
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithField("addr", addr).Info("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return db.Close()
	})
	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown incomplete")
		os.Exit(1)
	}
}
