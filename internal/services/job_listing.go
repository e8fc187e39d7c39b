package services

import (
	"context"
	"github.com/maxaizer/jobboard/internal/clients/board"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/filter"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"maps"
	"slices"
	"sync"
)

var ErrSuperseded = errors.New("fetch superseded by a newer one")

const loadFailedNotification = "Failed to load jobs, please try again later"

type ListingState string

const (
	StateIdle      ListingState = "idle"
	StateLoading   ListingState = "loading"
	StatePopulated ListingState = "populated"
	StateEmpty     ListingState = "empty"
	StateErrored   ListingState = "errored"
)

type jobsClient interface {
	ListJobs(ctx context.Context, parameters board.PageParameters) (models.JobPage, error)
}

type applicationCounter interface {
	CountApplications(ctx context.Context, jobID int64) (int, error)
}

type JobsQuery struct {
	Page     int
	PageSize int
	Criteria filter.Criteria
}

type ListingSnapshot struct {
	State             ListingState
	Jobs              []models.Job
	Total             int
	Page              int
	PageSize          int
	ApplicationCounts map[int64]int
	Notification      string
}

// JobListing holds the view state of one job list. Every Fetch cancels the page request
// of the previous one, so only the latest request can change the state. Application counts
// of the shown page keep loading until a newer page replaces it.
type JobListing struct {
	jobs     jobsClient
	counter  applicationCounter
	mu       sync.Mutex
	snapshot ListingSnapshot

	fetchGeneration uint64
	cancelFetch     context.CancelFunc

	enrichGeneration uint64
	cancelEnrich     context.CancelFunc
	enrichmentDone   chan struct{}
}

func NewJobListing(jobs jobsClient, counter applicationCounter) *JobListing {
	done := make(chan struct{})
	close(done)

	return &JobListing{
		jobs:           jobs,
		counter:        counter,
		snapshot:       ListingSnapshot{State: StateIdle, ApplicationCounts: map[int64]int{}},
		enrichmentDone: done,
	}
}

func (l *JobListing) Fetch(ctx context.Context, query JobsQuery) error {

	fetchCtx, generation := l.startFetch(ctx)

	page, err := l.jobs.ListJobs(fetchCtx, board.PageParameters{
		Page:     query.Page,
		PageSize: query.PageSize,
		Sort:     board.DefaultSort,
		Filter:   filter.Build(query.Criteria),
	})

	l.mu.Lock()
	if generation != l.fetchGeneration {
		l.mu.Unlock()
		metrics.ListingFetchesCounter.WithLabelValues("superseded").Inc()
		return ErrSuperseded
	}

	if err != nil {
		l.snapshot.State = StateErrored
		l.snapshot.Notification = loadFailedNotification
		l.mu.Unlock()

		metrics.ListingFetchesCounter.WithLabelValues(string(StateErrored)).Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackendApi).Errorf("failed to fetch jobs page %d: %v", query.Page, err)
		return err
	}

	l.snapshot.Jobs = page.Items
	l.snapshot.Total = page.Total
	l.snapshot.Page = page.Page
	l.snapshot.PageSize = page.PageSize
	l.snapshot.ApplicationCounts = map[int64]int{}
	l.snapshot.Notification = ""
	if len(page.Items) == 0 {
		l.snapshot.State = StateEmpty
	} else {
		l.snapshot.State = StatePopulated
	}
	state := l.snapshot.State
	enrichCtx, enrichGeneration, done := l.startEnrichment(ctx)
	l.mu.Unlock()

	metrics.ListingFetchesCounter.WithLabelValues(string(state)).Inc()

	jobIDs := make([]int64, 0, len(page.Items))
	for _, job := range page.Items {
		jobIDs = append(jobIDs, job.ID)
	}
	go l.enrich(enrichCtx, enrichGeneration, jobIDs, done)

	return nil
}

func (l *JobListing) Snapshot() ListingSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := l.snapshot
	snapshot.Jobs = slices.Clone(l.snapshot.Jobs)
	snapshot.ApplicationCounts = maps.Clone(l.snapshot.ApplicationCounts)
	return snapshot
}

// EnrichmentDone is closed once the application counts of the shown page have settled.
func (l *JobListing) EnrichmentDone() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enrichmentDone
}

// Close cancels the in-flight page request and enrichment.
func (l *JobListing) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancelFetch != nil {
		l.cancelFetch()
	}
	if l.cancelEnrich != nil {
		l.cancelEnrich()
	}
}

func (l *JobListing) startFetch(ctx context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancelFetch != nil {
		l.cancelFetch()
	}

	// request-scoped values are kept, request cancellation is not
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l.cancelFetch = cancel
	l.fetchGeneration++
	l.snapshot.State = StateLoading

	return fetchCtx, l.fetchGeneration
}

// startEnrichment replaces the running enrichment, l.mu must be held.
func (l *JobListing) startEnrichment(ctx context.Context) (context.Context, uint64, chan struct{}) {
	if l.cancelEnrich != nil {
		l.cancelEnrich()
	}

	enrichCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l.cancelEnrich = cancel
	l.enrichGeneration++
	l.enrichmentDone = make(chan struct{})

	return enrichCtx, l.enrichGeneration, l.enrichmentDone
}

func (l *JobListing) enrich(ctx context.Context, generation uint64, jobIDs []int64, done chan struct{}) {
	defer close(done)

	var (
		wg       sync.WaitGroup
		countsMu sync.Mutex
		counts   = make(map[int64]int, len(jobIDs))
	)

	for _, jobID := range jobIDs {
		wg.Add(1)
		go func(jobID int64) {
			defer wg.Done()

			count, err := l.counter.CountApplications(ctx, jobID)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					metrics.EnrichmentFailuresCounter.Inc()
					log.WithField(logger.ErrorTypeField, logger.ErrorTypeEnrichment).
						Errorf("failed to count applications for job %d: %v", jobID, err)
				}
				return
			}

			countsMu.Lock()
			counts[jobID] = count
			countsMu.Unlock()
		}(jobID)
	}

	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if generation != l.enrichGeneration {
		log.Debugf("dropping application counts of superseded fetch %d", generation)
		return
	}
	l.snapshot.ApplicationCounts = counts
}
