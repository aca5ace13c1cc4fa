package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpcontext "github.com/authkit/server/internal/api/http/context"
	"github.com/authkit/server/internal/api/http/handler"
	"github.com/authkit/server/internal/api/http/middleware"
	"github.com/authkit/server/internal/api/http/router"
	httpserver "github.com/authkit/server/internal/api/http/server"
	"github.com/authkit/server/internal/config"
	"github.com/authkit/server/internal/logger"
	"github.com/authkit/server/internal/model"
	"github.com/authkit/server/internal/repository/postgres"
	"github.com/authkit/server/internal/server"
	"github.com/authkit/server/internal/service"
	"github.com/authkit/server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpire, cfg.JWT.RefreshExpire)

	sessionService := service.NewSessionService(tokenManager, sessionRepo, userRepo, cfg.JWT.RefreshExpire, logger)
	authService := service.NewAuth(userRepo, sessionService, cfg.Bcrypt.Rounds, logger)
	ctxMgr := httpcontext.NewManager()

	authHandler := handler.NewAuth(authService, sessionService, ctxMgr, logger)
	healthHandler := handler.NewHealth(db)
	authenticate := middleware.NewAuthenticate(sessionService, ctxMgr, logger)

	engine := router.New(authHandler, healthHandler, authenticate, logger)
	srv := httpserver.NewServer(fmt.Sprintf(":%s", cfg.HTTP.Port), engine, logger)

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
