package server

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobboard/internal/domain/events"
	"github.com/maxaizer/jobboard/internal/services"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"sync"
	"time"
)

type session struct {
	listing *services.JobListing
	app     *services.AppContext

	mu              sync.Mutex
	favoritesLoaded bool
}

// ensureFavorites loads the user's favorites once; a failed load is retried on the next call.
func (s *session) ensureFavorites(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favoritesLoaded {
		return nil
	}
	if err := s.app.LoadFavorites(ctx); err != nil {
		return err
	}
	s.favoritesLoaded = true
	return nil
}

const defaultSessionTTL = 30 * time.Minute

// sessions keeps one view state per signed-in user. A session idle for longer than
// the ttl is evicted and its listing closed.
type sessions struct {
	mu         sync.Mutex
	byUser     *cache.Cache
	jobs       jobsBackend
	counter    countsBackend
	favorites  favoritesBackend
	newListing func() *services.JobListing
}

func newSessions(jobs jobsBackend, counter countsBackend, favorites favoritesBackend, ttl time.Duration) *sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	s := &sessions{byUser: cache.New(ttl, ttl/2), jobs: jobs, counter: counter, favorites: favorites}
	s.newListing = func() *services.JobListing { return services.NewJobListing(s.jobs, s.counter) }
	s.byUser.OnEvicted(func(userID string, value interface{}) {
		log.Debugf("session of user %s expired", userID)
		value.(*session).listing.Close()
	})
	return s
}

func (s *sessions) get(userID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byUser.Get(userID); ok {
		s.byUser.SetDefault(userID, existing)
		return existing.(*session), nil
	}

	// an expired entry is still stored until cleanup, evict it so its listing gets closed
	s.byUser.DeleteExpired()

	app, err := services.NewAppContext(EventBus.New(), s.favorites)
	if err != nil {
		return nil, err
	}
	err = app.Subscribe(events.FavoritesChangedTopic, func(e events.FavoritesChanged) {
		log.Debugf("user %s has %d favorite jobs", e.UserID, len(e.JobIDs))
	})
	if err != nil {
		return nil, err
	}
	app.SetUser(userID)

	created := &session{listing: s.newListing(), app: app}
	s.byUser.SetDefault(userID, created)
	return created, nil
}

func (s *sessions) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.byUser.Items() {
		item.Object.(*session).listing.Close()
	}
	s.byUser.Flush()
}
