package queue_test

import (
	"context"
	"log"
	"os"
	"testing"

	"event-organizer/internal/queue"
	"event-organizer/internal/testutil"

	"github.com/redis/go-redis/v9"
)

var testRdb *redis.Client

func TestMain(m *testing.M) {
	rdb, cleanup, err := testutil.SetupRedisOnly()
	if err != nil {
		log.Printf("redis stream tests will be skipped: %v", err)
		os.Exit(m.Run())
	}
	testRdb = rdb
	code := m.Run()
	cleanup()
	os.Exit(code)
}

// streamFor 每個測試使用獨立的 stream，結束後刪除
func streamFor(t *testing.T) (*redis.Client, string) {
	t.Helper()
	if testRdb == nil {
		t.Skip("test redis is not available")
	}
	key := "test:" + t.Name()
	ctx := context.Background()
	dead := key + queue.DeadLetterSuffix
	_ = testRdb.Del(ctx, key, dead).Err()
	t.Cleanup(func() { _ = testRdb.Del(ctx, key, dead).Err() })
	return testRdb, key
}
