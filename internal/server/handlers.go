package server

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobboard/internal/clients/board"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/filter"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/maxaizer/jobboard/internal/render"
	"github.com/maxaizer/jobboard/internal/services"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type criteriaDTO struct {
	Locations []string `json:"locations"`
	Skills    []string `json:"skills"`
	Levels    []string `json:"levels"`
	MinSalary *int     `json:"minSalary"`
	MaxSalary *int     `json:"maxSalary"`
}

type formOptionsDTO struct {
	Locations []string             `json:"locations"`
	Levels    []string             `json:"levels"`
	Skills    []render.SkillOption `json:"skills"`
}

type searchFormDTO struct {
	Criteria criteriaDTO    `json:"criteria"`
	Options  formOptionsDTO `json:"options"`
}

type recentSearchDTO struct {
	Query      string    `json:"query"`
	Route      string    `json:"route"`
	Uses       int       `json:"uses"`
	LastUsedAt time.Time `json:"lastUsedAt"`
}

func (s *Server) listJobs(c *gin.Context) {

	query := services.JobsQuery{
		Page:     queryInt(c, "page", 1),
		PageSize: s.pageSize(c),
		Criteria: filter.ParseQuery(c.Request.URL.Query()),
	}

	userID := currentUser(c)
	if userID == "" {
		s.listJobsAnonymous(c, query)
		return
	}

	sess, err := s.sessions.get(userID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSession).Errorf("failed to create session for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err = sess.ensureFavorites(c.Request.Context()); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Warnf("failed to load favorites: %v", err)
	}

	if err = sess.listing.Fetch(c.Request.Context(), query); errors.Is(err, services.ErrSuperseded) {
		log.Debugf("jobs request of user %s superseded", userID)
	}

	c.JSON(http.StatusOK, s.renderer.JobsPage(sess.listing.Snapshot(), sess.app.IsFavorite))
}

// listJobsAnonymous waits for the application counts as there is no view to poll later.
func (s *Server) listJobsAnonymous(c *gin.Context, query services.JobsQuery) {
	listing := s.sessions.newListing()
	defer listing.Close()

	if err := listing.Fetch(c.Request.Context(), query); err == nil {
		select {
		case <-listing.EnrichmentDone():
		case <-c.Request.Context().Done():
		}
	}

	c.JSON(http.StatusOK, s.renderer.JobsPage(listing.Snapshot(), nil))
}

func (s *Server) currentJobsView(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.renderer.JobsPage(sess.listing.Snapshot(), sess.app.IsFavorite))
}

func (s *Server) getJob(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := s.deps.Jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		var statusErr *board.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to load job %d: %v", jobID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load job"})
		return
	}

	card := s.renderer.JobCard(job)
	if count, err := s.deps.Counts.CountApplications(c.Request.Context(), jobID); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeEnrichment).Warnf("failed to count applications for job %d: %v", jobID, err)
	} else {
		card.Applications = render.ApplicationsLabel(count)
	}

	if userID := currentUser(c); userID != "" {
		if sess, err := s.sessions.get(userID); err == nil && sess.ensureFavorites(c.Request.Context()) == nil {
			card.Favorite = sess.app.IsFavorite(jobID)
		}
	}

	c.JSON(http.StatusOK, card)
}

func (s *Server) searchForm(c *gin.Context) {
	form := services.NewSearchForm(listingRoute)
	form.Load(c.Request.URL.RawQuery)

	options := formOptionsDTO{
		Locations: append(append([]string{}, filter.KnownLocations...), filter.OtherLocations),
		Levels:    lo.Map(models.Levels, func(l models.Level, _ int) string { return string(l) }),
		Skills:    []render.SkillOption{},
	}

	skills, err := s.deps.Skills.All(c.Request.Context())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to load skills: %v", err)
	} else {
		options.Skills = render.SkillOptions(skills)
	}

	c.JSON(http.StatusOK, searchFormDTO{Criteria: toCriteriaDTO(form.Criteria()), Options: options})
}

func (s *Server) submitSearch(c *gin.Context) {
	var req criteriaDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	form := services.NewSearchForm(listingRoute)
	form.Set(req.toCriteria())

	route, err := form.Submit()
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeValidation).Debugf("search form rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if userID := currentUser(c); userID != "" {
		query := form.Criteria().Encode().Encode()
		if err = s.deps.History.Record(c.Request.Context(), userID, query); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to record search: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"redirect": route})
}

func (s *Server) recentSearches(c *gin.Context) {
	userID := currentUser(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user required"})
		return
	}

	searches, err := s.deps.History.Recent(c.Request.Context(), userID, s.options.RecentLimit)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to load recent searches: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, lo.Map(searches, func(h models.SearchHistory, _ int) recentSearchDTO {
		return recentSearchDTO{Query: h.Query, Route: listingRoute + "?" + h.Query, Uses: h.Uses, LastUsedAt: h.LastUsedAt}
	}))
}

func (s *Server) listSkills(c *gin.Context) {
	skills, err := s.deps.Skills.All(c.Request.Context())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to load skills: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load skills"})
		return
	}
	c.JSON(http.StatusOK, render.SkillOptions(skills))
}

func (s *Server) listCompanies(c *gin.Context) {
	page, err := s.deps.Companies.Search(c.Request.Context(), c.Query("name"),
		queryInt(c, "page", 1), s.pageSize(c))
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to search companies: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load companies"})
		return
	}
	c.JSON(http.StatusOK, s.renderer.CompaniesPage(page))
}

func (s *Server) listFavorites(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}

	if err := sess.ensureFavorites(c.Request.Context()); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to load favorites: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobIds": sess.app.Favorites()})
}

func (s *Server) addFavorite(c *gin.Context) {
	s.mutateFavorite(c, (*services.AppContext).AddFavorite)
}

func (s *Server) removeFavorite(c *gin.Context) {
	s.mutateFavorite(c, (*services.AppContext).RemoveFavorite)
}

// toggleFavorite needs the user's favorites loaded to know which way to flip.
func (s *Server) toggleFavorite(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}

	jobID, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	if err = sess.ensureFavorites(c.Request.Context()); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to load favorites: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load favorites"})
		return
	}

	favorite, err := sess.app.ToggleFavorite(c.Request.Context(), jobID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to toggle favorite %d: %v", jobID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite, "jobIds": sess.app.Favorites()})
}

func (s *Server) mutateFavorite(c *gin.Context, mutate func(*services.AppContext, context.Context, int64) error) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}

	jobID, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	if err = mutate(sess.app, c.Request.Context(), jobID); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to update favorite %d: %v", jobID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobIds": sess.app.Favorites()})
}

func (s *Server) requireSession(c *gin.Context) (*session, bool) {
	userID := currentUser(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user required"})
		return nil, false
	}

	sess, err := s.sessions.get(userID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSession).Errorf("failed to create session for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return sess, true
}

func (d criteriaDTO) toCriteria() filter.Criteria {
	criteria := filter.Criteria{
		Locations: d.Locations,
		Skills:    d.Skills,
		MinSalary: d.MinSalary,
		MaxSalary: d.MaxSalary,
	}
	for _, raw := range d.Levels {
		if level, ok := models.ToLevel(strings.ToUpper(strings.TrimSpace(raw))); ok {
			criteria.Levels = append(criteria.Levels, level)
		}
	}
	return criteria
}

func toCriteriaDTO(c filter.Criteria) criteriaDTO {
	return criteriaDTO{
		Locations: c.Locations,
		Skills:    c.Skills,
		Levels:    lo.Map(c.Levels, func(l models.Level, _ int) string { return string(l) }),
		MinSalary: c.MinSalary,
		MaxSalary: c.MaxSalary,
	}
}

// pageSize caps the requested size at what the backend accepts.
func (s *Server) pageSize(c *gin.Context) int {
	return min(queryInt(c, "size", s.options.DefaultPageSize), board.MaxPageSize)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
