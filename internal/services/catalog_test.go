package services

import (
	"context"
	"github.com/maxaizer/jobboard/internal/clients/board"
	"github.com/maxaizer/jobboard/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type mockSkillsClient struct {
	mock.Mock
}

func (m *mockSkillsClient) ListSkills(ctx context.Context, page, pageSize int) ([]models.Skill, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Skill), args.Int(1), args.Error(2)
}

func Test_SkillCatalog_LoadsAllPagesSortedAndCaches(t *testing.T) {
	client := &mockSkillsClient{}
	client.On("ListSkills", mock.Anything, 1, skillsPageSize).
		Return([]models.Skill{{ID: 1, Name: "rust"}, {ID: 2, Name: "Go"}}, 2, nil).Once()
	client.On("ListSkills", mock.Anything, 2, skillsPageSize).
		Return([]models.Skill{{ID: 3, Name: "Java"}}, 2, nil).Once()

	catalog := NewSkillCatalog(client, time.Minute)

	skills, err := catalog.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Skill{{ID: 2, Name: "Go"}, {ID: 3, Name: "Java"}, {ID: 1, Name: "rust"}}, skills)

	cached, err := catalog.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, skills, cached)
	client.AssertExpectations(t)
}

func Test_SkillCatalog_Error_ShouldNotCache(t *testing.T) {
	client := &mockSkillsClient{}
	client.On("ListSkills", mock.Anything, 1, skillsPageSize).Return([]models.Skill{}, 0, errors.New("down")).Once()
	client.On("ListSkills", mock.Anything, 1, skillsPageSize).Return([]models.Skill{{ID: 1, Name: "Go"}}, 1, nil).Once()

	catalog := NewSkillCatalog(client, time.Minute)
	_, err := catalog.All(context.Background())
	assert.Error(t, err)

	skills, err := catalog.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, skills, 1)
}

type countingCounter struct {
	calls int
}

func (c *countingCounter) CountApplications(_ context.Context, jobID int64) (int, error) {
	c.calls++
	if jobID < 0 {
		return 0, errors.New("bad id")
	}
	return int(jobID) * 2, nil
}

func Test_CachedApplicationCounts_CachesOnlySuccess(t *testing.T) {
	inner := &countingCounter{}
	cached := NewCachedApplicationCounts(inner, time.Minute)

	count, err := cached.CountApplications(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	_, _ = cached.CountApplications(context.Background(), 5)
	assert.Equal(t, 1, inner.calls)

	_, err = cached.CountApplications(context.Background(), -1)
	assert.Error(t, err)
	_, _ = cached.CountApplications(context.Background(), -1)
	assert.Equal(t, 3, inner.calls)
}

type mockCompaniesClient struct {
	mock.Mock
}

func (m *mockCompaniesClient) ListCompanies(ctx context.Context, parameters board.PageParameters) (models.CompanyPage, error) {
	args := m.Called(ctx, parameters)
	return args.Get(0).(models.CompanyPage), args.Error(1)
}

func Test_CompanySearch_BuildsNameFilter(t *testing.T) {
	client := &mockCompaniesClient{}
	client.On("ListCompanies", mock.Anything, board.PageParameters{
		Page: 1, PageSize: 10, Sort: board.DefaultSort, Filter: "name ~ '%Acme%'",
	}).Return(models.CompanyPage{Total: 1, Items: []models.Company{{ID: 1, Name: "Acme"}}}, nil)

	page, err := NewCompanySearch(client).Search(context.Background(), "Acme", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	client.AssertExpectations(t)
}
