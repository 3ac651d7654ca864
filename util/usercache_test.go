package util

import "testing"

func TestUserCache_SetGetInvalidate(t *testing.T) {
	InitUserCache(10)

	UserCacheSet(1, "a@example.com", "USER")
	email, role, ok := UserCacheGet(1)
	if !ok || email != "a@example.com" || role != "USER" {
		t.Fatalf("unexpected cache result: %s %s %v", email, role, ok)
	}

	UserCacheSet(1, "a@example.com", "EXPERT")
	_, role, _ = UserCacheGet(1)
	if role != "EXPERT" {
		t.Fatalf("expected role update, got %s", role)
	}

	UserCacheInvalidate(1)
	if _, _, ok := UserCacheGet(1); ok {
		t.Fatal("expected invalidated entry to be gone")
	}
}

func TestUserCache_EvictsLeastRecentlyUsed(t *testing.T) {
	InitUserCache(2)

	UserCacheSet(1, "a@example.com", "USER")
	UserCacheSet(2, "b@example.com", "USER")
	// Touch 1 so 2 becomes the eviction candidate.
	UserCacheGet(1)
	UserCacheSet(3, "c@example.com", "USER")

	if _, _, ok := UserCacheGet(2); ok {
		t.Fatal("expected user 2 to be evicted")
	}
	if _, _, ok := UserCacheGet(1); !ok {
		t.Fatal("expected user 1 to survive")
	}
	if _, _, ok := UserCacheGet(3); !ok {
		t.Fatal("expected user 3 to be cached")
	}
}

func TestUserCache_NilSafe(t *testing.T) {
	userCache = nil
	UserCacheSet(1, "a@example.com", "USER")
	if _, _, ok := UserCacheGet(1); ok {
		t.Fatal("expected miss with uninitialized cache")
	}
	UserCacheInvalidate(1)
}
