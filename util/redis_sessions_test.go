package util

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"github.com/ngantran/healthtrack-api/config"
)

func TestAddSessionToUserSet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()
	config.SetRedisClientForTesting(rdb)
	t.Cleanup(func() { config.SetRedisClientForTesting(nil) })

	userID := uint(7)
	token := "tok-abc"
	ttl := 24 * time.Hour
	key := fmt.Sprintf("user_sessions:%d", userID)

	mock.ExpectSAdd(key, token).SetVal(1)
	mock.ExpectExpire(key, ttl).SetVal(true)

	if err := AddSessionToUserSet(userID, token, ttl); err != nil {
		t.Fatalf("AddSessionToUserSet failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %s", err)
	}
}

func TestAddSessionToUserSet_NoTTL(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()
	config.SetRedisClientForTesting(rdb)
	t.Cleanup(func() { config.SetRedisClientForTesting(nil) })

	key := "user_sessions:9"
	mock.ExpectSAdd(key, "tok").SetVal(1)

	if err := AddSessionToUserSet(9, "tok", 0); err != nil {
		t.Fatalf("AddSessionToUserSet failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %s", err)
	}
}

func TestAddSessionToUserSet_NilClient(t *testing.T) {
	config.SetRedisClientForTesting(nil)
	if err := AddSessionToUserSet(1, "tok", time.Hour); err != nil {
		t.Fatalf("expected nil client to be a no-op, got %v", err)
	}
}

func TestInvalidateUserSessions(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()
	config.SetRedisClientForTesting(rdb)
	t.Cleanup(func() { config.SetRedisClientForTesting(nil) })

	key := "user_sessions:3"
	mock.ExpectSMembers(key).SetVal([]string{"tok-1", "tok-2"})
	mock.ExpectDel("session:tok-1").SetVal(1)
	mock.ExpectDel("session:tok-2").SetVal(1)
	mock.ExpectDel(key).SetVal(1)

	if err := InvalidateUserSessions(3); err != nil {
		t.Fatalf("InvalidateUserSessions failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %s", err)
	}
}
