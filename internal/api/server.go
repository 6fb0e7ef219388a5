package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mediadex/internal/api/handlers"
	"mediadex/internal/api/middleware"
	"mediadex/internal/config"
	"mediadex/internal/models"
	"mediadex/internal/services/appwrite"
	"mediadex/internal/services/tmdb"
	"mediadex/internal/trending"
	"mediadex/internal/users"
	"mediadex/internal/watchlist"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// Deps bundles the services the route handlers need
type Deps struct {
	DB        *models.Database
	Cache     *gocache.Cache
	TMDB      *tmdb.Client
	Appwrite  *appwrite.Client
	Watchlist *watchlist.Service
	Trending  *trending.Service
	Users     *users.Service
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Deps, logger *logrus.Logger) *Server {
	s := &Server{logger: logger}

	mux := http.NewServeMux()
	s.setupRoutes(mux, deps)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, deps Deps) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("GET /health", healthHandler.ServeHTTP)

	statusHandler := handlers.NewStatusHandler(deps.DB, deps.Cache, s.logger)
	mux.HandleFunc("GET /status", statusHandler.ServeHTTP)

	preferencesHandler := handlers.NewPreferencesHandler(deps.DB, s.logger)
	mux.HandleFunc("GET /api/preferences", preferencesHandler.Get)
	mux.HandleFunc("PUT /api/preferences", preferencesHandler.Update)

	searchHandler := handlers.NewSearchHandler(deps.TMDB, deps.Trending, s.logger)
	mux.HandleFunc("GET /api/search", searchHandler.ServeHTTP)

	mediaHandler := handlers.NewMediaHandler(deps.TMDB, s.logger)
	mux.HandleFunc("GET /api/media/{kind}/{id}", mediaHandler.Details)
	mux.HandleFunc("GET /api/person/{id}", mediaHandler.Person)
	mux.HandleFunc("GET /api/people/popular", mediaHandler.People)
	mux.HandleFunc("GET /api/genres", mediaHandler.Genres)

	trendingHandler := handlers.NewTrendingHandler(deps.Cache, deps.TMDB, deps.Trending, s.logger)
	mux.HandleFunc("GET /api/trending", trendingHandler.ServeHTTP)

	watchlistHandler := handlers.NewWatchlistHandler(deps.Watchlist, deps.Appwrite, s.logger)
	mux.HandleFunc("GET /api/watchlist", watchlistHandler.List)
	mux.HandleFunc("POST /api/watchlist", watchlistHandler.Add)
	mux.HandleFunc("DELETE /api/watchlist/{documentId}", watchlistHandler.Remove)
	mux.HandleFunc("GET /api/watchlist/check", watchlistHandler.Check)

	authHandler := handlers.NewAuthHandler(deps.Users, s.logger)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)
	mux.HandleFunc("POST /api/avatar", authHandler.Avatar)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
