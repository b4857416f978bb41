package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yeremiapane/tuber-treats/database"
	"github.com/yeremiapane/tuber-treats/dispatch"
	"github.com/yeremiapane/tuber-treats/middlewares"
	"github.com/yeremiapane/tuber-treats/router"
	"github.com/yeremiapane/tuber-treats/services"
	"github.com/yeremiapane/tuber-treats/store"
	"github.com/yeremiapane/tuber-treats/utils"
)

var gracefulTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the HTTP API. The server shuts down gracefully on SIGINT or
SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "server port")
	serveCmd.Flags().Bool("seed", false, "seed demo data when the database is empty")
	serveCmd.Flags().Bool("validate-references", false, "reject unknown driver, order and topping ids")
	serveCmd.Flags().DurationVar(&gracefulTimeout, "graceful-timeout", 15*time.Second, "graceful shutdown timeout")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("seed", serveCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("policy.validate_references", serveCmd.Flags().Lookup("validate-references"))
}

func startServer(ctx context.Context) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	gin.SetMode(cfg.Server.Mode)

	st := store.NewGormStore(db)
	if cfg.Seed {
		if _, err := database.Seed(ctx, st, time.Now()); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	hub := dispatch.NewHub()
	svc := services.New(st, services.Options{
		ValidateReferences: cfg.Policy.ValidateReferences,
		Notifier:           hub,
	})
	limiter := middlewares.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.SetupRouter(svc, hub, limiter),
	}

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.WithFields(logrus.Fields{
			"port":                cfg.Server.Port,
			"driver":              cfg.Database.Driver,
			"validate_references": cfg.Policy.ValidateReferences,
		}).Info("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		utils.InfoLogger.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	utils.InfoLogger.Info("Server stopped")
	return nil
}
