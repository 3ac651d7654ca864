package util

import (
	"container/list"
	"os"
	"strconv"
	"sync"

	"gorm.io/gorm"
)

// LRU cache for userID -> (email, role), used by the auth middleware to
// avoid a user lookup on every request.
type userEntry struct {
	userID uint
	email  string
	role   string
}

type userLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[uint]*list.Element
	capacity int
}

var userCache *userLRU

// InitUserCache initializes the LRU cache with given capacity.
// If capacity <= 0, a default of 1000 is used.
func InitUserCache(capacity int) {
	if capacity <= 0 {
		capacity = 1000
	}
	userCache = &userLRU{
		ll:       list.New(),
		cache:    make(map[uint]*list.Element),
		capacity: capacity,
	}
}

// UserCacheGet returns (email, role, true) if present in cache.
func UserCacheGet(userID uint) (string, string, bool) {
	if userCache == nil {
		return "", "", false
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.MoveToFront(ele)
		if e, ok := ele.Value.(userEntry); ok {
			return e.email, e.role, true
		}
	}
	return "", "", false
}

// UserCacheSet stores the email and role for a userID in the cache.
func UserCacheSet(userID uint, email, role string) {
	if userCache == nil {
		return
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.MoveToFront(ele)
		ele.Value = userEntry{userID: userID, email: email, role: role}
		return
	}
	ele := userCache.ll.PushFront(userEntry{userID: userID, email: email, role: role})
	userCache.cache[userID] = ele
	if userCache.ll.Len() > userCache.capacity {
		// evict least recently used
		tail := userCache.ll.Back()
		if tail != nil {
			if e, ok := tail.Value.(userEntry); ok {
				delete(userCache.cache, e.userID)
			}
			userCache.ll.Remove(tail)
		}
	}
}

// UserCacheInvalidate drops a user from the cache, e.g. after a role or
// email change.
func UserCacheInvalidate(userID uint) {
	if userCache == nil {
		return
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.Remove(ele)
		delete(userCache.cache, userID)
	}
}

// GetUserEmailRole returns the email and role for userID using the cache,
// falling back to the DB. If found in DB, caches the result.
func GetUserEmailRole(db *gorm.DB, userID uint) (string, string) {
	if userID == 0 {
		return "", ""
	}
	if email, role, ok := UserCacheGet(userID); ok {
		return email, role
	}
	if db == nil {
		return "", ""
	}
	var u struct {
		Email string
		Role  string
	}
	if err := db.Table("users").Select("email, role").Where("id = ?", userID).Take(&u).Error; err == nil {
		if u.Email != "" {
			UserCacheSet(userID, u.Email, u.Role)
		}
		return u.Email, u.Role
	}
	return "", ""
}

// InitUserCacheFromEnv initializes the cache using the env var USER_CACHE_SIZE
func InitUserCacheFromEnv() {
	sizeStr := os.Getenv("USER_CACHE_SIZE")
	if sizeStr == "" {
		InitUserCache(0)
		return
	}
	if n, err := strconv.Atoi(sizeStr); err == nil {
		InitUserCache(n)
		return
	}
	InitUserCache(0)
}
