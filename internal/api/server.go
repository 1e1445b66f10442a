// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vrsandeep/koma-go/internal/catalog"
	"github.com/vrsandeep/koma-go/internal/core"
	"github.com/vrsandeep/koma-go/internal/search"
	"github.com/vrsandeep/koma-go/internal/websocket"
)

// Server holds the dependencies for our API. Handlers only call engine
// methods and read engine snapshots.
type Server struct {
	app     *core.App
	catalog *catalog.Engine
	search  *search.Engine
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:     app,
		catalog: app.Catalog(),
		search:  app.Search(),
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleGetVersion)
		r.Get("/health", s.handleHealth)
		r.Get("/providers", s.handleListProviders)

		// Catalog Routes
		r.Get("/browse", s.handleGetBrowse)
		r.Post("/browse/more", s.handleBrowseMore)
		r.Post("/browse/refresh", s.handleBrowseRefresh)
		r.Get("/curated", s.handleGetCurated)
		r.Post("/curated/refresh", s.handleCuratedRefresh)

		// Collection Routes
		r.Get("/collection", s.handleListCollection)
		r.Post("/collection", s.handleSaveManga)
		r.Route("/collection/{id}", func(r chi.Router) {
			r.Use(MangaIDMiddleware)
			r.Get("/", s.handleGetItemState)
			r.Delete("/", s.handleRemoveManga)
			r.Put("/owned", s.handleSetOwned)
			r.Put("/read", s.handleSetRead)
			r.Post("/owned/increment", s.handleStep(catalogStepIncrementOwned))
			r.Post("/owned/decrement", s.handleStep(catalogStepDecrementOwned))
			r.Post("/read/increment", s.handleStep(catalogStepIncrementRead))
			r.Post("/read/decrement", s.handleStep(catalogStepDecrementRead))
		})

		// Search Routes
		r.Get("/search", s.handleGetSearch)
		r.Post("/search", s.handleSearch)
		r.Post("/search/more", s.handleSearchMore)
		r.Delete("/search", s.handleClearSearch)
		r.Get("/search/history", s.handleListHistory)
		r.Delete("/search/history", s.handleClearHistory)
		r.Post("/search/history/{entryID}", s.handleSearchFromHistory)
		r.Delete("/search/history/{entryID}", s.handleDeleteHistoryEntry)

		// Job Routes
		r.Get("/jobs", s.handleGetJobsStatus)
		r.Post("/jobs/{jobID}/run", s.handleRunJob)
	})

	// WebSocket route
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(s.app.WsHub(), w, r)
	})

	return r
}
