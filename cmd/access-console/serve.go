package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	adaptermiddleware "access-console/internal/adapters/http/middleware"
	adapterlogger "access-console/internal/adapters/logger"
	"access-console/internal/adapters/metrics"
	"access-console/internal/application"
	"access-console/internal/config"
	"access-console/internal/infrastructure/auth"
	"access-console/internal/infrastructure/memory"
	httpiface "access-console/internal/interfaces/http"
	"access-console/internal/ports"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func memoryStores() (ports.RoleRepository, ports.UserRepository) {
	return memory.NewRoleStore(nil), memory.NewUserStore(nil)
}

func buildServer(ctx context.Context, cfg config.Config, logger *adapterlogger.SlogLogger) (*echo.Echo, error) {
	mode, err := adaptermiddleware.ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	var verifier echo.MiddlewareFunc
	if mode == adaptermiddleware.ModeJWT {
		verifier = auth.NewJWTMiddleware(cfg.AuthJWTSecret).Handler
	}
	authMiddleware, err := adaptermiddleware.AuthMiddleware(mode, verifier)
	if err != nil {
		return nil, err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	registry := application.NewSessionRegistry(memoryStores, provider, logger, m, nil)
	handlers := httpiface.Handlers{
		Sessions:  httpiface.NewSessionsHandler(registry),
		Roles:     httpiface.NewRolesHandler(registry),
		Users:     httpiface.NewUsersHandler(registry, logger),
		Selection: httpiface.NewSelectionHandler(registry),
	}
	mw := httpiface.Middleware{
		Auth:          authMiddleware,
		XRay:          adaptermiddleware.XRayMiddleware(cfg.XRaySegment),
		RequestLogger: adaptermiddleware.RequestLogger(logger),
		SecureHeaders: adaptermiddleware.SecureHeaders(),
	}
	return httpiface.NewRouter(handlers, m.Handler(), mw), nil
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := adapterlogger.New(cfg.LogLevel)
	if err := xray.Configure(xray.Config{LogLevel: "error"}); err != nil {
		logger.Warn(ctx, "xray configuration failed", "error", err)
	}

	e, err := buildServer(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to build http server", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "starting http server", "port", cfg.Port, "seed_source", cfg.SeedSource, "auth_mode", cfg.AuthMode)
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info(context.Background(), "shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
