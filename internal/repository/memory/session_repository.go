package memory

import (
	"fintrust-support-be/internal/presence"

	"github.com/patrickmn/go-cache"
)

// SessionRepository stores live connection sessions. Entries never expire
// on their own; the connection gateway deletes them on disconnect.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *presence.ConnectionSession) {
	r.cache.Set(session.ID, session, cache.NoExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*presence.ConnectionSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*presence.ConnectionSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
