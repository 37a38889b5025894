package services

import (
	"sync"
	"time"

	"github.com/okorintsev/habitweek/internal/models"
)

const DefaultUserCacheTTL = 30 * time.Minute

// UserCache maps external token subjects to resolved users with a fixed
// TTL. Reads take a shared lock; a miss funnels through a per-subject
// mutex so at most one concurrent populate runs per key while lookups for
// other subjects proceed.
type UserCache struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.RWMutex
	entries    map[string]cachedUser
	populating map[string]*sync.Mutex
}

type cachedUser struct {
	user     models.User
	cachedAt time.Time
}

func NewUserCache(ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultUserCacheTTL
	}
	return &UserCache{
		ttl:        ttl,
		now:        time.Now,
		entries:    make(map[string]cachedUser),
		populating: make(map[string]*sync.Mutex),
	}
}

// GetOrResolve returns the cached user for subject, or runs resolve and
// caches its result. Expired entries count as misses.
func (cache *UserCache) GetOrResolve(subject string, resolve func() (models.User, error)) (models.User, error) {
	if user, ok := cache.lookup(subject); ok {
		return user, nil
	}

	keyLock := cache.populateLock(subject)
	keyLock.Lock()
	defer keyLock.Unlock()

	// Another caller may have populated while we waited on the key lock.
	if user, ok := cache.lookup(subject); ok {
		return user, nil
	}

	user, err := resolve()
	if err != nil {
		return models.User{}, err
	}
	cache.Put(subject, user)
	return user, nil
}

func (cache *UserCache) Put(subject string, user models.User) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[subject] = cachedUser{user: user, cachedAt: cache.now()}
}

// Invalidate drops the entry for subject, forcing the next lookup to
// resolve again.
func (cache *UserCache) Invalidate(subject string) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	delete(cache.entries, subject)
}

func (cache *UserCache) lookup(subject string) (models.User, bool) {
	cache.mu.RLock()
	entry, ok := cache.entries[subject]
	cache.mu.RUnlock()
	if !ok {
		return models.User{}, false
	}
	if cache.now().Sub(entry.cachedAt) > cache.ttl {
		cache.Invalidate(subject)
		return models.User{}, false
	}
	return entry.user, true
}

func (cache *UserCache) populateLock(subject string) *sync.Mutex {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	lock, ok := cache.populating[subject]
	if !ok {
		lock = &sync.Mutex{}
		cache.populating[subject] = lock
	}
	return lock
}
