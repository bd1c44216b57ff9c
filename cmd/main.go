package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Terjeeld/lasviewer/internal/handlers"
	"github.com/Terjeeld/lasviewer/internal/logger"
	"github.com/Terjeeld/lasviewer/internal/repository"
	"github.com/Terjeeld/lasviewer/internal/repository/db"
	"github.com/Terjeeld/lasviewer/internal/server"
	"github.com/Terjeeld/lasviewer/internal/service"

	"github.com/spf13/viper"
)

const defaultSweepTick = 1 * time.Minute

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, serviceConfig())
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start retention sweeper (via composed service)
	go services.Retention.Run(ctx, sweepTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// serviceConfig maps config keys to service tunables.
func serviceConfig() service.Config {
	return service.Config{
		DepthAliases:   viper.GetStringSlice("plot.depth_aliases"),
		MaxUploadBytes: viper.GetInt64("upload.max_bytes"),
		RetentionAge:   viper.GetDuration("retention.max_age"),
		SigningKey:     viper.GetString("auth.signing_key"),
		TokenTTL:       viper.GetDuration("auth.token_ttl"),
	}
}

func sweepTick() time.Duration {
	if d := viper.GetDuration("retention.sweep_tick"); d > 0 {
		return d
	}
	return defaultSweepTick
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "lasviewer.db")
		dbPath = "lasviewer.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
