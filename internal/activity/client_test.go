package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchPlayer(t *testing.T) {
	payload := samplePayload()
	encoded, err := Encode(payload)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write(encoded)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	decoded, err := client.FetchPlayer(context.Background(), "Hazel", 1234)
	if err != nil {
		t.Fatalf("FetchPlayer failed: %v", err)
	}

	if gotPath != "/Hazel" {
		t.Errorf("path = %q, want /Hazel", gotPath)
	}
	if gotQuery != "v=1234" {
		t.Errorf("query = %q, want v=1234", gotQuery)
	}
	if len(decoded.Races) != len(payload.Races) {
		t.Errorf("got %d races, want %d", len(decoded.Races), len(payload.Races))
	}
}

func TestFetchPlayerEscapesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nameless tee" {
			t.Errorf("path = %q, want decoded space", r.URL.Path)
		}
		encoded, _ := Encode(&Payload{})
		_, _ = w.Write(encoded)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.FetchPlayer(context.Background(), "nameless tee", 0); err != nil {
		t.Fatalf("FetchPlayer failed: %v", err)
	}
}

func TestFetchPlayerNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.FetchPlayer(context.Background(), "Nobody", 0); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestFetchPlayerServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.FetchPlayer(context.Background(), "Hazel", 0); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}
