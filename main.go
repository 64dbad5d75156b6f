package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"shop-api/config"
	_ "shop-api/docs"
	"shop-api/routes"
	"shop-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title Shop API
// @version 1.0
// @description Users, products, and a per-user cart with checkout.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()

	logger, err := config.InitLogger()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if config.AppConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db, err := config.ConnectDB(ctx)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer config.CloseDB()

	if name := config.AppConfig.AdminName; name != "" && config.AppConfig.AdminPassword != "" {
		created, err := services.NewAuthService(db).EnsureAdmin(ctx, name, config.AppConfig.AdminPassword)
		if err != nil {
			logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
		}
		if created {
			logger.Info("Admin account created", zap.String("name", name))
		}
	}

	server := &http.Server{
		Addr:              ":" + config.AppConfig.Port,
		Handler:           routes.NewRouter(db, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting",
			zap.String("addr", server.Addr),
			zap.String("env", config.AppConfig.AppEnv),
			zap.String("swagger", "http://localhost:"+config.AppConfig.Port+"/swagger/index.html"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
