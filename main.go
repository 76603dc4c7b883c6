// Package main provides the entry point of the catalog admin service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"catalogadmin/bulk"
	"catalogadmin/config"
	"catalogadmin/database"
	"catalogadmin/jobs"
	"catalogadmin/logging"
	"catalogadmin/repository"
	"catalogadmin/schedule"
	"catalogadmin/services"
	"catalogadmin/telemetry"
	"catalogadmin/workspace"
)

const (
	version          = "1.0.0"
	journalRetention = 90 * 24 * time.Hour
)

// App represents the application with its dependencies
type App struct {
	cfg         *config.Config
	log         *logrus.Entry
	catalog     *services.CatalogService
	auth        *services.AuthService
	appVersions *services.AppVersionService
	game        *services.GameService
	users       *services.UserService
	operations  *repository.OperationRepository
	snapshots   *repository.SnapshotRepository
	bulk        *bulk.Executor
	reconciler  *schedule.Reconciler
	workspaces  *workspace.Store
	jobManager  *jobs.JobManager

	done      chan struct{}
	closeOnce sync.Once
}

func main() {
	// Load environment variables from .env file
	dotenvErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	log := logging.New("catalogadmin", cfg.LogFormat, cfg.LogLevel)
	if dotenvErr != nil {
		log.WithError(dotenvErr).Warn("Could not load .env file")
	}

	if err := telemetry.InitSentry(cfg.SentryDSN, cfg.Env, version); err != nil {
		log.WithError(err).Warn("Sentry disabled")
	}
	defer telemetry.Flush()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Error("Failed to close database")
		}
	}()

	if err := db.InitSchema(log); err != nil {
		log.WithError(err).Fatal("Failed to initialize schema")
	}

	app := newApp(cfg, log, db, nil)
	defer app.Close()

	snapshotJob := jobs.NewSnapshotJob(app.catalog, app.snapshots, app.operations, journalRetention, log)
	app.jobManager = jobs.NewJobManager(snapshotJob, app.workspaces, jobs.Config{
		SnapshotInterval: cfg.SnapshotInterval,
	}, log)
	app.jobManager.Start()
	defer app.jobManager.Stop()

	if err := app.serve(); err != nil {
		log.WithError(err).Error("Server stopped with error")
	}
}

// newApp wires services and repositories. client is the HTTP client used
// for every upstream call; nil means the default client.
func newApp(cfg *config.Config, log *logrus.Entry, db *database.DB, client *http.Client) *App {
	operations := repository.NewOperationRepository(db)
	catalog := services.NewCatalogService(cfg.CatalogAPIURL, client, log)

	app := &App{
		cfg:         cfg,
		log:         log,
		catalog:     catalog,
		auth:        services.NewAuthService(cfg.CatalogAPIURL, client, log),
		appVersions: services.NewAppVersionService(cfg.CatalogAPIURL, client, log),
		users:       services.NewUserService(cfg.UsersAPIURL, client, log),
		operations:  operations,
		snapshots:   repository.NewSnapshotRepository(db),
		bulk:        bulk.NewExecutor(log, operations),
		reconciler:  schedule.NewReconciler(catalog, log),
		workspaces:  workspace.NewStore(catalog.Search, cfg.SearchDebounce, log),
		done:        make(chan struct{}),
	}
	if cfg.GameAPIURL != "" {
		app.game = services.NewGameService(cfg.GameAPIURL, client, log)
	} else {
		log.Warn("GAME_API_URL not set - mini game routes are disabled")
	}
	return app
}

// Close stops the background work started by the router
func (app *App) Close() {
	app.closeOnce.Do(func() { close(app.done) })
}

func (app *App) serve() error {
	server := &http.Server{
		Addr:         app.cfg.ListenAddr,
		Handler:      app.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		app.log.WithField("signal", s.String()).Info("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	app.log.WithFields(logrus.Fields{
		"addr": app.cfg.ListenAddr,
		"env":  app.cfg.Env,
	}).Info("Server starting")

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return err
	}

	app.log.Info("Server stopped")
	return nil
}
