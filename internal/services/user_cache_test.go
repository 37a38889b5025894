package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okorintsev/habitweek/internal/models"
)

func TestUserCacheResolvesOncePerKey(t *testing.T) {
	cache := NewUserCache(time.Minute)
	resolves := 0

	for i := 0; i < 3; i++ {
		user, err := cache.GetOrResolve("sub-1", func() (models.User, error) {
			resolves++
			return models.User{ID: "u1", Subject: "sub-1"}, nil
		})
		if err != nil {
			t.Fatalf("GetOrResolve returned error: %v", err)
		}
		if user.ID != "u1" {
			t.Fatalf("unexpected user: %#v", user)
		}
	}

	if resolves != 1 {
		t.Fatalf("expected a single resolve, got %d", resolves)
	}
}

func TestUserCacheExpiresEntries(t *testing.T) {
	cache := NewUserCache(time.Minute)
	current := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	resolves := 0
	resolve := func() (models.User, error) {
		resolves++
		return models.User{ID: "u1"}, nil
	}

	if _, err := cache.GetOrResolve("sub-1", resolve); err != nil {
		t.Fatalf("GetOrResolve returned error: %v", err)
	}
	current = current.Add(30 * time.Second)
	if _, err := cache.GetOrResolve("sub-1", resolve); err != nil {
		t.Fatalf("GetOrResolve returned error: %v", err)
	}
	if resolves != 1 {
		t.Fatalf("entry expired too early, resolves = %d", resolves)
	}

	current = current.Add(time.Minute)
	if _, err := cache.GetOrResolve("sub-1", resolve); err != nil {
		t.Fatalf("GetOrResolve returned error: %v", err)
	}
	if resolves != 2 {
		t.Fatalf("expected re-resolve after TTL, resolves = %d", resolves)
	}
}

func TestUserCacheDoesNotCacheFailures(t *testing.T) {
	cache := NewUserCache(time.Minute)

	if _, err := cache.GetOrResolve("sub-1", func() (models.User, error) {
		return models.User{}, errors.New("store down")
	}); err == nil {
		t.Fatal("expected resolve error to propagate")
	}

	user, err := cache.GetOrResolve("sub-1", func() (models.User, error) {
		return models.User{ID: "u1"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrResolve returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user after retry: %#v", user)
	}
}

func TestUserCacheInvalidate(t *testing.T) {
	cache := NewUserCache(time.Minute)
	cache.Put("sub-1", models.User{ID: "u1"})
	cache.Invalidate("sub-1")

	resolves := 0
	if _, err := cache.GetOrResolve("sub-1", func() (models.User, error) {
		resolves++
		return models.User{ID: "u2"}, nil
	}); err != nil {
		t.Fatalf("GetOrResolve returned error: %v", err)
	}
	if resolves != 1 {
		t.Fatal("expected resolve after invalidation")
	}
}

func TestUserCacheSerializesPopulationPerKey(t *testing.T) {
	cache := NewUserCache(time.Minute)

	var resolves atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := cache.GetOrResolve("sub-1", func() (models.User, error) {
				resolves.Add(1)
				time.Sleep(5 * time.Millisecond)
				return models.User{ID: "u1"}, nil
			})
			if err != nil {
				t.Errorf("GetOrResolve returned error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := resolves.Load(); got != 1 {
		t.Fatalf("expected one populate across concurrent callers, got %d", got)
	}
}
