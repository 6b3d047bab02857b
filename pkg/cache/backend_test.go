package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// testBackend exercises a remote backend against a live server.
func testBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + time.Now().Format(time.RFC3339Nano)
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("0 1 0"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "0 1 0" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key returned")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("HYPERPART_TEST_REDIS")
	if url == "" {
		t.Skip("HYPERPART_TEST_REDIS not set")
	}
	c, err := OpenRedis(context.Background(), url, "hyperpart-test:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	testBackend(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("HYPERPART_TEST_MONGO")
	if uri == "" {
		t.Skip("HYPERPART_TEST_MONGO not set")
	}
	c, err := OpenMongo(context.Background(), uri)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	testBackend(t, c)
}

func TestObjectCache(t *testing.T) {
	url := os.Getenv("HYPERPART_TEST_S3")
	if url == "" {
		t.Skip("HYPERPART_TEST_S3 not set")
	}
	c, err := OpenObject(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	testBackend(t, c)
}
