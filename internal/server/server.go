package server

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobboard/internal/clients/board"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/maxaizer/jobboard/internal/render"
	log "github.com/sirupsen/logrus"
	"net/http"
	"time"
)

const listingRoute = "/job"

type jobsBackend interface {
	ListJobs(ctx context.Context, parameters board.PageParameters) (models.JobPage, error)
	GetJob(ctx context.Context, id int64) (models.Job, error)
}

type countsBackend interface {
	CountApplications(ctx context.Context, jobID int64) (int, error)
}

type favoritesBackend interface {
	GetFavorites(ctx context.Context, userID string) ([]int64, error)
	AddFavorite(ctx context.Context, userID string, jobID int64) error
	RemoveFavorite(ctx context.Context, userID string, jobID int64) error
}

type skillCatalog interface {
	All(ctx context.Context) ([]models.Skill, error)
}

type companySearch interface {
	Search(ctx context.Context, name string, page, pageSize int) (models.CompanyPage, error)
}

type historyRepository interface {
	Record(ctx context.Context, userID string, query string) error
	Recent(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error)
}

type Dependencies struct {
	Jobs      jobsBackend
	Counts    countsBackend
	Favorites favoritesBackend
	Skills    skillCatalog
	Companies companySearch
	History   historyRepository
}

type Options struct {
	Address         string
	DefaultPageSize int
	RecentLimit     int
	SessionTTL      time.Duration
}

type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	options    Options
	deps       Dependencies
	sessions   *sessions
	renderer   *render.Renderer
}

func NewServer(options Options, deps Dependencies) (*Server, error) {

	if deps.Jobs == nil || deps.Counts == nil || deps.Favorites == nil {
		return nil, errors.New("backend client is nil")
	}

	if deps.Skills == nil {
		return nil, errors.New("skill catalog is nil")
	}

	if deps.Companies == nil {
		return nil, errors.New("company search is nil")
	}

	if deps.History == nil {
		return nil, errors.New("history repository is nil")
	}

	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	router.Use(gin.Recovery(), requestIDMiddleware(), loggingMiddleware(), trustedUserMiddleware())

	s := &Server{
		router:   router,
		options:  options,
		deps:     deps,
		sessions: newSessions(deps.Jobs, deps.Counts, deps.Favorites, options.SessionTTL),
		renderer: render.NewRenderer(),
	}
	s.setUpRoutes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setUpRoutes() {
	api := s.router.Group("/api")

	api.GET("/jobs", s.listJobs)
	api.GET("/jobs/view", s.currentJobsView)
	api.GET("/jobs/:id", s.getJob)
	api.GET("/search/form", s.searchForm)
	api.POST("/search", s.submitSearch)
	api.GET("/searches/recent", s.recentSearches)
	api.GET("/skills", s.listSkills)
	api.GET("/companies", s.listCompanies)
	api.GET("/favorites", s.listFavorites)
	api.POST("/favorites/:jobId", s.addFavorite)
	api.DELETE("/favorites/:jobId", s.removeFavorite)
	api.POST("/favorites/:jobId/toggle", s.toggleFavorite)

	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func (s *Server) Run(ctx context.Context) error {

	s.httpServer = &http.Server{
		Addr:    s.options.Address,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", s.options.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.sessions.closeAll()
	return s.httpServer.Shutdown(shutdownCtx)
}
