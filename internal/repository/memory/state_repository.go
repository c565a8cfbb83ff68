package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// OauthState is a short lived anti-forgery token for the Google OAuth
// handshake. Saved before redirecting to the consent screen, consumed
// exactly once on callback.
type OauthState struct {
	State       string
	RedirectURI string
	CreatedAt   time.Time
}

type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() *StateRepository {
	// States expire after 10 minutes; the janitor purges every 5.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &StateRepository{
		cache: c,
	}
}

func (r *StateRepository) Save(state *OauthState) {
	r.cache.Set(state.State, state, cache.DefaultExpiration)
}

func (r *StateRepository) Get(state string) (*OauthState, bool) {
	if x, found := r.cache.Get(state); found {
		return x.(*OauthState), true
	}
	return nil, false
}

func (r *StateRepository) Delete(state string) {
	r.cache.Delete(state)
}
