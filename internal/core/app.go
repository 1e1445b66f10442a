package core

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/go-co-op/gocron"

	"github.com/vrsandeep/koma-go/internal/catalog"
	"github.com/vrsandeep/koma-go/internal/config"
	"github.com/vrsandeep/koma-go/internal/db"
	"github.com/vrsandeep/koma-go/internal/gateway"
	"github.com/vrsandeep/koma-go/internal/gateway/mockmanga"
	"github.com/vrsandeep/koma-go/internal/gateway/mymanga"
	"github.com/vrsandeep/koma-go/internal/jobs"
	"github.com/vrsandeep/koma-go/internal/models"
	"github.com/vrsandeep/koma-go/internal/search"
	"github.com/vrsandeep/koma-go/internal/store"
	"github.com/vrsandeep/koma-go/internal/websocket"
	"github.com/vrsandeep/koma-go/migrations"
)

// App holds the core components of the application that are shared
// between the server and the CLI.
type App struct {
	config     *config.Config
	db         *sql.DB
	wsHub      *websocket.Hub
	jobManager *jobs.JobManager
	gateway    models.Gateway
	catalog    *catalog.Engine
	search     *search.Engine
	scheduler  *gocron.Scheduler
	Version    string
}

// New sets up and returns a new App instance. It handles loading the
// configuration, initializing the database connection, and running migrations.
func New(version string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	RegisterGateways(cfg)
	return NewWithConfig(cfg, version)
}

// NewWithConfig is New for an already loaded configuration. The gateway
// named by api.provider must be registered.
func NewWithConfig(cfg *config.Config, version string) (*App, error) {
	gw, ok := gateway.Get(cfg.API.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown catalog provider %q", cfg.API.Provider)
	}

	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.RunMigrations(database, migrations.FS); err != nil {
		// We can't proceed without a valid database schema.
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app, err := Assemble(cfg, database, gw, version)
	if err != nil {
		database.Close()
		return nil, err
	}
	log.Println("Core application setup complete.")
	return app, nil
}

// Assemble wires the engines, the websocket hub and the job manager around
// an open, migrated database.
func Assemble(cfg *config.Config, database *sql.DB, gw models.Gateway, version string) (*App, error) {
	app := &App{
		config:  cfg,
		db:      database,
		gateway: gw,
		wsHub:   websocket.NewHub(),
		Version: version,
	}

	st := store.New(database)
	var err error
	app.catalog, err = catalog.New(gw, st, catalog.Options{
		PrefetchDistance: cfg.Catalog.PrefetchDistance,
		Notifier:         app.wsHub,
	})
	if err != nil {
		return nil, err
	}
	app.search, err = search.New(gw, st, search.Options{
		HistoryLimit: cfg.Search.HistoryLimit,
		DiscardStale: cfg.Search.DiscardStale,
		Notifier:     app.wsHub,
	})
	if err != nil {
		return nil, err
	}

	app.jobManager = jobs.NewManager(app)
	jobs.RegisterAll(app.jobManager)
	return app, nil
}

// RegisterGateways registers every built-in catalog gateway. Calling it
// more than once is harmless.
func RegisterGateways(cfg *config.Config) {
	if _, ok := gateway.Get("mymanga"); !ok {
		gateway.Register(mymanga.New(cfg.API.BaseURL, mymanga.Options{
			Timeout:    cfg.API.Timeout,
			PageSize:   cfg.API.PageSize,
			RetryCount: cfg.API.RetryCount,
		}))
	}
	if _, ok := gateway.Get("mockmanga"); !ok {
		gateway.Register(mockmanga.NewWithSize(mockmanga.DefaultCatalogSize, cfg.API.PageSize))
	}
}

// Start runs the websocket hub, loads the search history and starts the
// job scheduler. The server calls it; the CLI does not need it.
func (a *App) Start(ctx context.Context) {
	go a.wsHub.Run()
	if err := a.search.LoadHistory(ctx); err != nil {
		log.Printf("Warning: could not load search history: %v", err)
	}
	a.scheduler = jobs.StartJobs(a)
}

// ApplyConfig takes the settings that can change at runtime from a reloaded
// configuration. Everything else needs a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.catalog.SetPrefetchDistance(cfg.Catalog.PrefetchDistance)
	log.Printf("Applied runtime configuration (prefetch distance %d)", cfg.Catalog.PrefetchDistance)
}

func (a *App) Config() *config.Config       { return a.config }
func (a *App) DB() *sql.DB                  { return a.db }
func (a *App) WsHub() *websocket.Hub        { return a.wsHub }
func (a *App) JobManager() *jobs.JobManager { return a.jobManager }
func (a *App) Gateway() models.Gateway      { return a.gateway }
func (a *App) Catalog() *catalog.Engine     { return a.catalog }
func (a *App) Search() *search.Engine       { return a.search }

// Close gracefully closes the application's resources, like the DB connection.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.db != nil {
		a.db.Close()
	}
}
