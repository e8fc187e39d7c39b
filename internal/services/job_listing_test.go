package services

import (
	"context"
	"github.com/maxaizer/jobboard/internal/clients/board"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/maxaizer/jobboard/internal/filter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

type mockJobsClient struct {
	mock.Mock
}

func (m *mockJobsClient) ListJobs(ctx context.Context, parameters board.PageParameters) (models.JobPage, error) {
	args := m.Called(ctx, parameters)
	return args.Get(0).(models.JobPage), args.Error(1)
}

// gatedCounter answers a job's count only after its gate is released.
type gatedCounter struct {
	mu      sync.Mutex
	gates   map[int64]chan struct{}
	results map[int64]error
	counts  map[int64]int
	settled int
}

func newGatedCounter() *gatedCounter {
	return &gatedCounter{gates: map[int64]chan struct{}{}, results: map[int64]error{}, counts: map[int64]int{}}
}

func (g *gatedCounter) gate(jobID int64, count int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gates[jobID] = make(chan struct{})
	g.counts[jobID] = count
	g.results[jobID] = err
}

func (g *gatedCounter) release(jobID int64) {
	g.mu.Lock()
	gate := g.gates[jobID]
	g.mu.Unlock()
	close(gate)
}

func (g *gatedCounter) settledCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settled
}

func (g *gatedCounter) CountApplications(ctx context.Context, jobID int64) (int, error) {
	g.mu.Lock()
	gate, ok := g.gates[jobID]
	g.mu.Unlock()

	if ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.settled++
	return g.counts[jobID], g.results[jobID]
}

func jobsPage(ids ...int64) models.JobPage {
	page := models.JobPage{Page: 1, PageSize: 6, Total: len(ids) * 10}
	for _, id := range ids {
		page.Items = append(page.Items, models.Job{ID: id, Name: "job"})
	}
	return page
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out")
	}
}

func Test_JobListing_NewListingIsIdle(t *testing.T) {
	listing := NewJobListing(&mockJobsClient{}, newGatedCounter())
	assert.Equal(t, StateIdle, listing.Snapshot().State)
}

func Test_JobListing_Fetch_PassesBuiltFilterToBackend(t *testing.T) {
	jobs := &mockJobsClient{}
	jobs.On("ListJobs", mock.Anything, mock.MatchedBy(func(p board.PageParameters) bool {
		return p.Page == 2 && p.PageSize == 6 && p.Sort == board.DefaultSort &&
			p.Filter == "location in ('HANOI') and salary>=1000 and active:true"
	})).Return(jobsPage(), nil).Once()

	listing := NewJobListing(jobs, newGatedCounter())
	err := listing.Fetch(context.Background(), JobsQuery{
		Page:     2,
		PageSize: 6,
		Criteria: filter.Criteria{Locations: []string{"HANOI"}, MinSalary: filter.Int(1000)},
	})

	assert.NoError(t, err)
	jobs.AssertExpectations(t)
}

func Test_JobListing_Fetch_EmptyResultIsEmptyState(t *testing.T) {
	jobs := &mockJobsClient{}
	jobs.On("ListJobs", mock.Anything, mock.Anything).Return(models.JobPage{Page: 1, PageSize: 6}, nil)

	listing := NewJobListing(jobs, newGatedCounter())
	require.NoError(t, listing.Fetch(context.Background(), JobsQuery{Page: 1, PageSize: 6}))

	snapshot := listing.Snapshot()
	assert.Equal(t, StateEmpty, snapshot.State)
	assert.Empty(t, snapshot.Notification)
	assert.Equal(t, 0, snapshot.Total)
}

func Test_JobListing_Fetch_FailureKeepsPreviousJobsAndTotal(t *testing.T) {
	jobs := &mockJobsClient{}
	jobs.On("ListJobs", mock.Anything, mock.MatchedBy(func(p board.PageParameters) bool { return p.Page == 1 })).
		Return(jobsPage(1, 2), nil).Once()
	jobs.On("ListJobs", mock.Anything, mock.MatchedBy(func(p board.PageParameters) bool { return p.Page == 2 })).
		Return(models.JobPage{}, errors.New("backend is down")).Once()

	listing := NewJobListing(jobs, newGatedCounter())
	require.NoError(t, listing.Fetch(context.Background(), JobsQuery{Page: 1, PageSize: 6}))
	waitFor(t, listing.EnrichmentDone())

	err := listing.Fetch(context.Background(), JobsQuery{Page: 2, PageSize: 6})
	assert.Error(t, err)

	snapshot := listing.Snapshot()
	assert.Equal(t, StateErrored, snapshot.State)
	assert.NotEmpty(t, snapshot.Notification)
	assert.Len(t, snapshot.Jobs, 2)
	assert.Equal(t, 20, snapshot.Total)
	assert.Equal(t, 1, snapshot.Page)
	waitFor(t, listing.EnrichmentDone())
}

func Test_JobListing_Fetch_FailureKeepsLoadingCountsOfShownPage(t *testing.T) {
	jobs := &mockJobsClient{}
	jobs.On("ListJobs", mock.Anything, mock.MatchedBy(func(p board.PageParameters) bool { return p.Page == 1 })).
		Return(jobsPage(1, 2), nil).Once()
	jobs.On("ListJobs", mock.Anything, mock.MatchedBy(func(p board.PageParameters) bool { return p.Page == 2 })).
		Return(models.JobPage{}, errors.New("backend is down")).Once()

	counter := newGatedCounter()
	counter.gate(1, 4, nil)
	counter.gate(2, 9, nil)

	listing := NewJobListing(jobs, counter)
	require.NoError(t, listing.Fetch(context.Background(), JobsQuery{Page: 1, PageSize: 6}))
	shownPageDone := listing.EnrichmentDone()

	assert.Error(t, listing.Fetch(context.Background(), JobsQuery{Page: 2, PageSize: 6}))

	counter.release(1)
	counter.release(2)
	waitFor(t, shownPageDone)

	snapshot := listing.Snapshot()
	assert.Equal(t, StateErrored, snapshot.State)
	assert.Len(t, snapshot.Jobs, 2)
	assert.Equal(t, map[int64]int{1: 4, 2: 9}, snapshot.ApplicationCounts)
}

func Test_JobListing_Fetch_SuccessAfterFailureClearsNotification(t *testing.T) {
	jobs := &mockJobsClient{}
	jobs.On("ListJobs", mock.Anything, mock.Anything).Return(models.JobPage{}, errors.New("timeout")).Once()
	jobs.On("ListJobs", mock.Anything, mock.Anything).Return(jobsPage(7), nil).Once()

	listing := NewJobListing(jobs, newGatedCounter())
	assert.Error(t, listing.Fetch(context.Background(), JobsQuery{Page: 1, PageSize: 6}))
	assert.NoError(t, listing.Fetch(context.Background(), JobsQuery{Page: 1, PageSize: 6}))

	snapshot := listing.Snapshot()
	assert.Equal(t, StatePopulated, snapshot.State)
	assert.Empty(t, snapshot.Notification)
}

func Test_JobListing_ApplicationCounts_CommittedOnlyAfterAllSettle(t *testing.T) {
	jobs := &mockJobsClient{}
	jobs.On("ListJobs", mock.Anything, mock.Anything).Return(jobsPage(1, 2, 3), nil)

	counter := newGatedCounter()
	counter.gate(1, 4, nil)
	counter.gate(2, 9, nil)
	counter.gate(3, 0, errors.New("count failed"))

	listing := NewJobListing(jobs, counter)
	require.NoError(t, listing.Fetch(context.Background(), JobsQuery{Page: 1, PageSize: 6}))
	assert.Equal(t, StatePopulated, listing.Snapshot().State)

	counter.release(1)
	counter.release(2)
	assert.Eventually(t, func() bool { return counter.settledCount() == 2 }, 5*time.Second, 5*time.Millisecond)
	assert.Empty(t, listing.Snapshot().ApplicationCounts)

	counter.release(3)
	waitFor(t, listing.EnrichmentDone())

	counts := listing.Snapshot().ApplicationCounts
	assert.Equal(t, map[int64]int{1: 4, 2: 9}, counts)
	_, loaded := counts[3]
	assert.False(t, loaded)
}

type blockingJobsClient struct {
	mu    sync.Mutex
	gates map[int]chan struct{}
	pages map[int]models.JobPage
}

func (b *blockingJobsClient) ListJobs(ctx context.Context, parameters board.PageParameters) (models.JobPage, error) {
	b.mu.Lock()
	gate := b.gates[parameters.Page]
	page := b.pages[parameters.Page]
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return page, nil
}

func Test_JobListing_SupersededFetch_DoesNotOverwriteNewerPage(t *testing.T) {
	slowGate := make(chan struct{})
	jobs := &blockingJobsClient{
		gates: map[int]chan struct{}{1: slowGate},
		pages: map[int]models.JobPage{1: jobsPage(1), 2: jobsPage(2, 3)},
	}

	listing := NewJobListing(jobs, newGatedCounter())

	firstResult := make(chan error, 1)
	go func() {
		firstResult <- listing.Fetch(context.Background(), JobsQuery{Page: 1, PageSize: 6})
	}()
	assert.Eventually(t, func() bool { return listing.Snapshot().State == StateLoading }, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, listing.Fetch(context.Background(), JobsQuery{Page: 2, PageSize: 6}))
	close(slowGate)

	select {
	case err := <-firstResult:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out")
	}

	waitFor(t, listing.EnrichmentDone())
	snapshot := listing.Snapshot()
	require.Len(t, snapshot.Jobs, 2)
	assert.Equal(t, int64(2), snapshot.Jobs[0].ID)
	assert.Equal(t, StatePopulated, snapshot.State)
}

func Test_JobListing_SupersededEnrichment_IsNotCommitted(t *testing.T) {
	jobs := &mockJobsClient{}
	jobs.On("ListJobs", mock.Anything, mock.MatchedBy(func(p board.PageParameters) bool { return p.Page == 1 })).
		Return(jobsPage(1), nil)
	jobs.On("ListJobs", mock.Anything, mock.MatchedBy(func(p board.PageParameters) bool { return p.Page == 2 })).
		Return(jobsPage(2), nil)

	counter := newGatedCounter()
	counter.gate(1, 100, nil)

	listing := NewJobListing(jobs, counter)
	require.NoError(t, listing.Fetch(context.Background(), JobsQuery{Page: 1, PageSize: 6}))
	firstDone := listing.EnrichmentDone()

	require.NoError(t, listing.Fetch(context.Background(), JobsQuery{Page: 2, PageSize: 6}))
	waitFor(t, firstDone)
	waitFor(t, listing.EnrichmentDone())

	assert.Equal(t, map[int64]int{2: 0}, listing.Snapshot().ApplicationCounts)
}
