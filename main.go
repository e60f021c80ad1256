package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/bus"
	"github.com/fieldops/talktracker/config"
	"github.com/fieldops/talktracker/controllers"
	"github.com/fieldops/talktracker/database"
	appmiddleware "github.com/fieldops/talktracker/middleware"
	"github.com/fieldops/talktracker/remote"
	"github.com/fieldops/talktracker/repositories"
	"github.com/fieldops/talktracker/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.LogLevel)

	ctx := context.Background()

	// The store handle is opened once here and injected everywhere; a
	// failed open degrades the session to in-memory instead of crashing.
	var store *database.Store
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Warn("database unavailable, running in-memory for this session")
		store = database.NewStore(nil)
	} else {
		defer db.Close()
		store = database.NewStore(db)
		logger.WithField("path", cfg.DatabasePath).Info("database initialized")
	}

	// Remote endpoint: HTTP when configured, simulated otherwise.
	var submitter remote.Submitter
	var prober bus.Prober
	if cfg.RemoteURL != "" {
		httpSubmitter, err := remote.NewHTTPSubmitter(remote.HTTPConfig{Endpoint: cfg.RemoteURL, Timeout: cfg.RemoteTimeout})
		if err != nil {
			logger.Fatalf("Failed to initialize remote submitter: %v", err)
		}
		submitter = httpSubmitter
		prober = httpSubmitter
	} else {
		sim := remote.NewSimulatedSubmitter()
		submitter = sim
		prober = sim
		logger.Info("no remote endpoint configured, using simulated submitter")
	}

	signals := bus.NewSignalBus()

	// Initialize repositories and load every collection up front, seeding
	// first-run datasets.
	repos := repositories.NewRepositories(store, logger)
	if _, err := repos.Crew.Load(ctx); err != nil {
		logger.Fatalf("Failed to load crew roster: %v", err)
	}
	if _, err := repos.Locations.Load(ctx); err != nil {
		logger.Fatalf("Failed to load locations: %v", err)
	}
	if _, err := repos.Topics.Load(ctx); err != nil {
		logger.Fatalf("Failed to load topics: %v", err)
	}
	if _, err := repos.Talks.Load(ctx); err != nil {
		logger.Fatalf("Failed to load talk records: %v", err)
	}
	if _, err := repos.PendingCrew.Load(ctx); err != nil {
		logger.Fatalf("Failed to load pending crew: %v", err)
	}

	srvs := services.NewServices(repos, submitter, signals, logger)

	// Best-effort background drain requests coalesce into one deferred pass.
	srvs.Sync.SetScheduler(services.NewDrainScheduler(func() {
		if _, err := srvs.Sync.Drain(context.Background()); err != nil {
			logger.WithError(err).Warn("background sync drain incomplete")
		}
	}, 2*time.Second))

	// Connectivity probe publishes transitions; the sync driver drains on
	// start and on each offline-to-online transition, the provisional
	// queue refreshes on foreground visibility.
	monitor := bus.NewConnectivityMonitor(signals, prober, cfg.ProbeInterval, logger)
	go monitor.Run(ctx)
	srvs.Sync.Start(ctx)
	srvs.PendingCrew.Start(ctx)
	if cfg.DrainOnStart {
		go func() {
			if _, err := srvs.Sync.Drain(ctx); err != nil {
				logger.WithError(err).Warn("startup sync drain incomplete")
			}
		}()
	}

	ctrl := controllers.NewControllers(srvs, signals, logger)
	r := setupRouter(ctrl, repos, logger)

	logger.WithField("port", cfg.Port).Info("talk tracker listening")
	logger.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, repos *repositories.Repositories, logger *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))
	r.Use(appmiddleware.Actor)
	r.Use(appmiddleware.AuditLogger(repos.Audit, logger))

	r.Get("/health", ctrl.Status.Health)

	r.Route("/crew", func(r chi.Router) {
		r.Get("/", ctrl.Crew.Index)
		r.Post("/", ctrl.Crew.Create)
		r.Post("/bulk", ctrl.Crew.BulkUpsert)
		r.Post("/{id}", ctrl.Crew.Rename)
		r.Post("/{id}/toggle", ctrl.Crew.Toggle)
	})

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", ctrl.Locations.Index)
		r.Post("/", ctrl.Locations.Create)
		r.Post("/{id}", ctrl.Locations.Rename)
		r.Post("/{id}/toggle", ctrl.Locations.Toggle)
	})

	r.Route("/topics", func(r chi.Router) {
		r.Get("/", ctrl.Topics.Index)
		r.Post("/", ctrl.Topics.Create)
		r.Post("/{id}", ctrl.Topics.Update)
		r.Post("/{id}/toggle", ctrl.Topics.Toggle)
	})

	r.Route("/talks", func(r chi.Router) {
		r.Get("/", ctrl.Talks.Index)
		r.Post("/", ctrl.Talks.Create)
		r.Get("/{id}", ctrl.Talks.Show)
		r.Post("/{id}/flag", ctrl.Talks.Flag)
		r.Post("/{id}/resolve", ctrl.Talks.Resolve)
		r.Post("/{id}/amend", ctrl.Talks.Amend)
	})

	r.Route("/pending-crew", func(r chi.Router) {
		r.Get("/", ctrl.PendingCrew.Index)
		r.Post("/refresh", ctrl.PendingCrew.Refresh)
		r.Post("/{id}/approve", ctrl.PendingCrew.Approve)
		r.Post("/{id}/reject", ctrl.PendingCrew.Reject)
	})

	r.Route("/sync", func(r chi.Router) {
		r.Get("/", ctrl.Status.SyncStatus)
		r.Post("/", ctrl.Status.TriggerSync)
	})

	r.Route("/signals", func(r chi.Router) {
		r.Post("/visibility", ctrl.Status.Visibility)
		r.Post("/connectivity", ctrl.Status.Connectivity)
	})

	return r
}
