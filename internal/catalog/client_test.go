package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchCachesSnapshot(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[{"name": "Sunny", "type": "Novice", "points": 5}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		maps, err := client.Fetch(ctx)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if len(maps) != 1 || maps[0].Name != "Sunny" {
			t.Fatalf("maps = %+v, want [Sunny]", maps)
		}
	}

	if hits.Load() != 1 {
		t.Errorf("endpoint hit %d times, want 1", hits.Load())
	}

	client.Invalidate()
	if _, err := client.Fetch(ctx); err != nil {
		t.Fatalf("Fetch after invalidate failed: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("endpoint hit %d times after invalidate, want 2", hits.Load())
	}
}

func TestFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for malformed catalog")
	}
}
