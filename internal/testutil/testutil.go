// Package testutil provides testing utilities and helpers for the back-office client.
package testutil

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	Cleanup(func())
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// redisCandidates lists the addresses probed for a test Redis, in order.
// REDIS_ADDR (CI) and TEST_REDIS_ADDR override the defaults.
func redisCandidates() []string {
	for _, key := range []string{"REDIS_ADDR", "TEST_REDIS_ADDR"} {
		if v := os.Getenv(key); v != "" {
			return []string{v}
		}
	}
	return []string{"redis:6379", "localhost:6379", "localhost:56379"}
}

// TestRedis is a Redis client plus a key prefix owned by one test.
type TestRedis struct {
	Client *redis.Client
	Prefix string
}

// SetupTestRedis connects to the first reachable test Redis and reserves a
// unique key prefix. Keys under the prefix are removed and the client is
// closed when the test ends. The test is skipped when no Redis answers,
// unless TEST_REQUIRE_REDIS is set.
func SetupTestRedis(t TestingTB) TestRedis {
	t.Helper()

	for _, addr := range redisCandidates() {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			t.Logf("Redis not available at %s: %v", addr, err)
			_ = client.Close()
			continue
		}

		tr := TestRedis{Client: client, Prefix: "backoffice-test:" + uuid.NewString() + ":"}
		t.Cleanup(func() { tr.cleanup(t) })
		return tr
	}

	if requireRedis() {
		t.Fatal("Redis not available for testing")
	}
	t.Skip("Redis not available for testing")
	return TestRedis{}
}

func (tr TestRedis) cleanup(t TestingTB) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	iter := tr.Client.Scan(ctx, 0, tr.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := tr.Client.Del(ctx, iter.Val()).Err(); err != nil {
			t.Logf("warning: failed to delete test key %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		t.Logf("warning: failed to scan test keys: %v", err)
	}
	if err := tr.Client.Close(); err != nil {
		t.Logf("warning: failed to close redis client: %v", err)
	}
}
