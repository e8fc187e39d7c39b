package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobboard/internal/domain/events"
	"github.com/pkg/errors"
	"slices"
	"sync"
)

var ErrNoUser = errors.New("no authenticated user")

type favoritesClient interface {
	GetFavorites(ctx context.Context, userID string) ([]int64, error)
	AddFavorite(ctx context.Context, userID string, jobID int64) error
	RemoveFavorite(ctx context.Context, userID string, jobID int64) error
}

// AppContext holds the current user and the user's favorite jobs and notifies
// subscribers when either changes.
type AppContext struct {
	bus       EventBus.Bus
	client    favoritesClient
	mu        sync.RWMutex
	userID    string
	favorites map[int64]struct{}
}

func NewAppContext(bus EventBus.Bus, client favoritesClient) (*AppContext, error) {
	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if client == nil {
		return nil, errors.New("favorites client is nil")
	}
	return &AppContext{bus: bus, client: client, favorites: map[int64]struct{}{}}, nil
}

func (a *AppContext) Subscribe(topic string, fn interface{}) error {
	return a.bus.Subscribe(topic, fn)
}

func (a *AppContext) SetUser(userID string) {
	a.mu.Lock()
	if a.userID == userID {
		a.mu.Unlock()
		return
	}
	a.userID = userID
	a.favorites = map[int64]struct{}{}
	a.mu.Unlock()

	a.bus.Publish(events.UserChangedTopic, events.UserChanged{UserID: userID})
}

func (a *AppContext) CurrentUser() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userID
}

func (a *AppContext) LoadFavorites(ctx context.Context) error {
	userID := a.CurrentUser()
	if userID == "" {
		return ErrNoUser
	}

	jobIDs, err := a.client.GetFavorites(ctx, userID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.favorites = make(map[int64]struct{}, len(jobIDs))
	for _, id := range jobIDs {
		a.favorites[id] = struct{}{}
	}
	a.mu.Unlock()

	a.publishFavorites(userID)
	return nil
}

func (a *AppContext) AddFavorite(ctx context.Context, jobID int64) error {
	userID := a.CurrentUser()
	if userID == "" {
		return ErrNoUser
	}

	if err := a.client.AddFavorite(ctx, userID, jobID); err != nil {
		return err
	}

	a.mu.Lock()
	a.favorites[jobID] = struct{}{}
	a.mu.Unlock()

	a.publishFavorites(userID)
	return nil
}

func (a *AppContext) RemoveFavorite(ctx context.Context, jobID int64) error {
	userID := a.CurrentUser()
	if userID == "" {
		return ErrNoUser
	}

	if err := a.client.RemoveFavorite(ctx, userID, jobID); err != nil {
		return err
	}

	a.mu.Lock()
	delete(a.favorites, jobID)
	a.mu.Unlock()

	a.publishFavorites(userID)
	return nil
}

// ToggleFavorite returns whether the job is a favorite after the call.
func (a *AppContext) ToggleFavorite(ctx context.Context, jobID int64) (bool, error) {
	if a.IsFavorite(jobID) {
		return false, a.RemoveFavorite(ctx, jobID)
	}
	return true, a.AddFavorite(ctx, jobID)
}

func (a *AppContext) IsFavorite(jobID int64) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.favorites[jobID]
	return ok
}

func (a *AppContext) Favorites() []int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := make([]int64, 0, len(a.favorites))
	for id := range a.favorites {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (a *AppContext) publishFavorites(userID string) {
	a.bus.Publish(events.FavoritesChangedTopic, events.FavoritesChanged{UserID: userID, JobIDs: a.Favorites()})
}
