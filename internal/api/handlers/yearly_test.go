package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raceops/rewind/internal/yearly"
)

type fakeDeriver struct {
	calls int
	err   error
}

func (f *fakeDeriver) Derive(_ context.Context, name string, year int, tz string, _ yearly.ProgressFunc) (*yearly.Data, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &yearly.Data{Player: name, Year: year, Timezone: tz, TotalFinishes: 4}, nil
}

func newTestRouter(h *YearlyHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/v1/yearly/{name}", h.GetYearly)
	return r
}

func doRequest(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetYearly(t *testing.T) {
	deriver := &fakeDeriver{}
	router := newTestRouter(NewYearlyHandler(deriver, nil, nil))

	rec := doRequest(t, router, "/api/v1/yearly/Hazel?year=2023&tz=Europe/Berlin")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data yearly.Data `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Data.Player != "Hazel" || body.Data.Year != 2023 || body.Data.Timezone != "Europe/Berlin" {
		t.Errorf("data = %+v", body.Data)
	}
}

func TestGetYearlyDefaults(t *testing.T) {
	deriver := &fakeDeriver{}
	router := newTestRouter(NewYearlyHandler(deriver, nil, nil))

	rec := doRequest(t, router, "/api/v1/yearly/Hazel")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Data yearly.Data `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if want := time.Now().UTC().Year() - 1; body.Data.Year != want {
		t.Errorf("default year = %d, want %d", body.Data.Year, want)
	}
	if body.Data.Timezone != "UTC" {
		t.Errorf("default tz = %q, want UTC", body.Data.Timezone)
	}
}

func TestGetYearlyInvalidYear(t *testing.T) {
	for _, year := range []string{"abc", "1999", "2101"} {
		router := newTestRouter(NewYearlyHandler(&fakeDeriver{}, nil, nil))
		rec := doRequest(t, router, "/api/v1/yearly/Hazel?year="+year)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("year %q: status = %d, want 400", year, rec.Code)
		}
	}
}

func TestGetYearlyBadTimezone(t *testing.T) {
	deriver := &fakeDeriver{err: fmt.Errorf("resolve timezone: %w", yearly.ErrBadTimezone)}
	router := newTestRouter(NewYearlyHandler(deriver, nil, nil))

	rec := doRequest(t, router, "/api/v1/yearly/Hazel?tz=Mars/Olympus")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetYearlyStoreFailure(t *testing.T) {
	deriver := &fakeDeriver{err: fmt.Errorf("open store: %w", yearly.ErrStoreInit)}
	router := newTestRouter(NewYearlyHandler(deriver, nil, nil))

	rec := doRequest(t, router, "/api/v1/yearly/Hazel")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestGetYearlyUpstreamFailure(t *testing.T) {
	deriver := &fakeDeriver{err: fmt.Errorf("fetch activity: connection refused")}
	router := newTestRouter(NewYearlyHandler(deriver, nil, nil))

	rec := doRequest(t, router, "/api/v1/yearly/Hazel")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestGetYearlyCacheHit(t *testing.T) {
	deriver := &fakeDeriver{}
	cache := NewMemorySnapshotCache(time.Minute)
	router := newTestRouter(NewYearlyHandler(deriver, cache, nil))

	for i := 0; i < 2; i++ {
		rec := doRequest(t, router, "/api/v1/yearly/Hazel?year=2023")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	if deriver.calls != 1 {
		t.Errorf("Derive called %d times, want 1", deriver.calls)
	}

	// Different parameters miss the cache.
	doRequest(t, router, "/api/v1/yearly/Hazel?year=2022")
	if deriver.calls != 2 {
		t.Errorf("Derive called %d times after year change, want 2", deriver.calls)
	}
}

func TestMemorySnapshotCacheExpiry(t *testing.T) {
	cache := NewMemorySnapshotCache(-time.Second)
	cache.Put("Hazel", 2023, "UTC", &yearly.Data{Player: "Hazel"})
	if _, ok := cache.Get("Hazel", 2023, "UTC"); ok {
		t.Error("expired entry served from cache")
	}
}
