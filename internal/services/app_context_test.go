package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobboard/internal/domain/events"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
)

type mockFavoritesClient struct {
	mock.Mock
}

func (m *mockFavoritesClient) GetFavorites(ctx context.Context, userID string) ([]int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockFavoritesClient) AddFavorite(ctx context.Context, userID string, jobID int64) error {
	return m.Called(ctx, userID, jobID).Error(0)
}

func (m *mockFavoritesClient) RemoveFavorite(ctx context.Context, userID string, jobID int64) error {
	return m.Called(ctx, userID, jobID).Error(0)
}

func newTestAppContext(t *testing.T, client favoritesClient) (*AppContext, *[]events.FavoritesChanged) {
	app, err := NewAppContext(EventBus.New(), client)
	require.NoError(t, err)

	var published []events.FavoritesChanged
	require.NoError(t, app.Subscribe(events.FavoritesChangedTopic, func(e events.FavoritesChanged) {
		published = append(published, e)
	}))
	return app, &published
}

func Test_AppContext_WithoutUser_ShouldFail(t *testing.T) {
	app, published := newTestAppContext(t, &mockFavoritesClient{})

	assert.ErrorIs(t, app.LoadFavorites(context.Background()), ErrNoUser)
	assert.ErrorIs(t, app.AddFavorite(context.Background(), 1), ErrNoUser)
	assert.Empty(t, *published)
}

func Test_AppContext_LoadFavorites_ShouldPublishSet(t *testing.T) {
	client := &mockFavoritesClient{}
	client.On("GetFavorites", mock.Anything, "42").Return([]int64{5, 3}, nil)

	app, published := newTestAppContext(t, client)
	app.SetUser("42")
	require.NoError(t, app.LoadFavorites(context.Background()))

	assert.True(t, app.IsFavorite(3))
	assert.Equal(t, []int64{3, 5}, app.Favorites())
	require.Len(t, *published, 1)
	assert.Equal(t, events.FavoritesChanged{UserID: "42", JobIDs: []int64{3, 5}}, (*published)[0])
}

func Test_AppContext_Toggle_AddsThenRemoves(t *testing.T) {
	client := &mockFavoritesClient{}
	client.On("AddFavorite", mock.Anything, "42", int64(7)).Return(nil).Once()
	client.On("RemoveFavorite", mock.Anything, "42", int64(7)).Return(nil).Once()

	app, published := newTestAppContext(t, client)
	app.SetUser("42")

	isFavorite, err := app.ToggleFavorite(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, isFavorite)
	assert.True(t, app.IsFavorite(7))

	isFavorite, err = app.ToggleFavorite(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, isFavorite)
	assert.False(t, app.IsFavorite(7))

	assert.Len(t, *published, 2)
	client.AssertExpectations(t)
}

func Test_AppContext_FailedMutation_ShouldNotPublish(t *testing.T) {
	client := &mockFavoritesClient{}
	client.On("AddFavorite", mock.Anything, "42", int64(7)).Return(errors.New("backend error"))

	app, published := newTestAppContext(t, client)
	app.SetUser("42")

	assert.Error(t, app.AddFavorite(context.Background(), 7))
	assert.False(t, app.IsFavorite(7))
	assert.Empty(t, *published)
}

func Test_AppContext_SetUser_ResetsFavoritesAndNotifies(t *testing.T) {
	client := &mockFavoritesClient{}
	client.On("AddFavorite", mock.Anything, "1", int64(7)).Return(nil)

	app, _ := newTestAppContext(t, client)
	var users []string
	require.NoError(t, app.Subscribe(events.UserChangedTopic, func(e events.UserChanged) {
		users = append(users, e.UserID)
	}))

	app.SetUser("1")
	require.NoError(t, app.AddFavorite(context.Background(), 7))
	app.SetUser("1")
	app.SetUser("2")

	assert.Equal(t, []string{"1", "2"}, users)
	assert.Empty(t, app.Favorites())
}
