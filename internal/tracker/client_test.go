package tracker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPlaytimeFiltersYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("player"); got != "Hazel" {
			t.Errorf("player query = %q, want %q", got, "Hazel")
		}
		_, _ = w.Write([]byte(`{
			"playtime_per_month": [
				{"year_month": "2022-12", "seconds_played": 900},
				{"year_month": "2023-01", "seconds_played": 3600},
				{"year_month": "2023-07", "seconds_played": 1800},
				{"year_month": "2024-01", "seconds_played": 500},
				{"year_month": "bogus", "seconds_played": 42}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	playtime, err := client.Playtime(context.Background(), "Hazel", 2023)
	if err != nil {
		t.Fatalf("Playtime failed: %v", err)
	}

	want := [12]int64{0: 3600, 6: 1800}
	if playtime != want {
		t.Errorf("playtime = %v, want %v", playtime, want)
	}
}

func TestPlaytimeEscapesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("player"); got != "nameless tee" {
			t.Errorf("player query = %q, want %q", got, "nameless tee")
		}
		_, _ = w.Write([]byte(`{"playtime_per_month": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Playtime(context.Background(), "nameless tee", 2023); err != nil {
		t.Fatalf("Playtime failed: %v", err)
	}
}

func TestPlaytimeTrackerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": "player not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Playtime(context.Background(), "Hazel", 2023); err == nil {
		t.Fatal("expected error when tracker reports one")
	}
}

func TestPlaytimeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Playtime(context.Background(), "Hazel", 2023); err == nil {
		t.Fatal("expected error for bad status")
	}
}
