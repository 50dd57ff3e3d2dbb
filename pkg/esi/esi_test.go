package esi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/solfarin/killstats/pkg/killmail"
	"github.com/solfarin/killstats/pkg/logger"
)

func openTestDB(t *testing.T) *bolt.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("failed to close test database: %v", closeErr)
		}
	})

	return db
}

func TestDetailClient_FetchKillmail(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{
			"killmail_id": 101,
			"killmail_time": "2026-01-15T18:32:00Z",
			"solar_system_id": 31000005,
			"victim": {"character_id": 901, "ship_type_id": 587, "damage_taken": 4200},
			"attackers": [{"character_id": 111, "final_blow": true, "ship_type_id": 622}]
		}`)
	}))
	defer srv.Close()

	c, err := NewDetailClient(Config{BaseURL: srv.URL, UserAgent: "killstats-test"}, logger.Noop())
	if err != nil {
		t.Fatalf("NewDetailClient() error = %v", err)
	}

	sum := killmail.Summary{ID: 101, Hash: "abc123", TotalValue: 777}
	km, err := c.FetchKillmail(context.Background(), sum)
	if err != nil {
		t.Fatalf("FetchKillmail() error = %v", err)
	}

	if gotPath != "/killmails/101/abc123/" {
		t.Errorf("request path = %q, want /killmails/101/abc123/", gotPath)
	}
	if km.ID != 101 || km.Hash != "abc123" {
		t.Errorf("record identity = (%d, %q), want (101, abc123)", km.ID, km.Hash)
	}
	if km.TotalValue != 777 {
		t.Errorf("TotalValue = %f, want 777 (from summary)", km.TotalValue)
	}
}

func TestDetailClient_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewDetailClient(Config{BaseURL: srv.URL, UserAgent: "killstats-test"}, logger.Noop())
	if err != nil {
		t.Fatalf("NewDetailClient() error = %v", err)
	}

	_, err = c.FetchKillmail(context.Background(), killmail.Summary{ID: 1, Hash: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchKillmail() error = %v, want ErrNotFound", err)
	}
}

// nameServer serves /universe/names/ and records the batch sizes it saw.
func nameServer(t *testing.T, category string) (*httptest.Server, *[]int) {
	t.Helper()

	var batches []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/universe/names/" {
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var ids []int64
		if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		batches = append(batches, len(ids))

		entries := make([]nameEntry, 0, len(ids))
		for _, id := range ids {
			entries = append(entries, nameEntry{
				ID:       id,
				Name:     fmt.Sprintf("Pilot %d", id),
				Category: category,
			})
		}
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))

	return srv, &batches
}

func newTestResolver(t *testing.T, baseURL string, batchSize int, nameCache NameCache) NameResolver {
	t.Helper()

	r, err := NewResolver(Config{
		BaseURL:   baseURL,
		UserAgent: "killstats-test",
		BatchSize: batchSize,
	}, nameCache, logger.Noop())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	return r
}

func TestResolveNames_BatchCeiling(t *testing.T) {
	t.Parallel()

	srv, batches := nameServer(t, "character")
	defer srv.Close()

	ids := make([]int64, 0, 2500)
	for i := int64(1); i <= 2500; i++ {
		ids = append(ids, i)
	}

	r := newTestResolver(t, srv.URL, 1000, NewMemoryNameCache())
	names, err := r.ResolveNames(context.Background(), ids)
	if err != nil {
		t.Fatalf("ResolveNames() error = %v", err)
	}

	if len(names) != 2500 {
		t.Errorf("resolved %d names, want 2500", len(names))
	}

	// 2500 unique IDs at a ceiling of 1000 means exactly three calls.
	wantBatches := []int{1000, 1000, 500}
	if len(*batches) != len(wantBatches) {
		t.Fatalf("server saw %d batches, want %d", len(*batches), len(wantBatches))
	}
	for i, want := range wantBatches {
		if (*batches)[i] != want {
			t.Errorf("batch %d size = %d, want %d", i, (*batches)[i], want)
		}
	}
}

func TestResolveNames_NonCharacterDropped(t *testing.T) {
	t.Parallel()

	srv, _ := nameServer(t, "corporation")
	defer srv.Close()

	r := newTestResolver(t, srv.URL, 1000, NewMemoryNameCache())
	names, err := r.ResolveNames(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("ResolveNames() error = %v", err)
	}

	if len(names) != 0 {
		t.Errorf("resolved %d names, want 0 (non-character entries are dropped)", len(names))
	}
}

func TestResolveNames_BatchFailureYieldsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := newTestResolver(t, srv.URL, 1000, NewMemoryNameCache())
	names, err := r.ResolveNames(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("ResolveNames() error = %v, want nil (batch failures are absorbed)", err)
	}
	if len(names) != 0 {
		t.Errorf("resolved %d names, want 0", len(names))
	}
}

func TestResolveNames_UsesPersistedCache(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`)) // nolint:errcheck
	}))
	defer srv.Close()

	nameCache := NewMemoryNameCache()
	if err := nameCache.Put(map[int64]string{42: "Cached Pilot"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	r := newTestResolver(t, srv.URL, 1000, nameCache)
	names, err := r.ResolveNames(context.Background(), []int64{42})
	if err != nil {
		t.Fatalf("ResolveNames() error = %v", err)
	}

	if names[42] != "Cached Pilot" {
		t.Errorf("names[42] = %q, want Cached Pilot", names[42])
	}
	if calls != 0 {
		t.Errorf("server saw %d calls, want 0 (cache hit)", calls)
	}
}

func TestResolveNames_SecondCallHitsMemory(t *testing.T) {
	t.Parallel()

	srv, batches := nameServer(t, "character")
	defer srv.Close()

	r := newTestResolver(t, srv.URL, 1000, NewMemoryNameCache())
	ctx := context.Background()

	if _, err := r.ResolveNames(ctx, []int64{7, 8}); err != nil {
		t.Fatalf("first ResolveNames() error = %v", err)
	}
	if _, err := r.ResolveNames(ctx, []int64{7, 8}); err != nil {
		t.Fatalf("second ResolveNames() error = %v", err)
	}

	if len(*batches) != 1 {
		t.Errorf("server saw %d batches, want 1 (second call served from memory)", len(*batches))
	}
}

func TestResolveNames_PersistsAcrossResolvers(t *testing.T) {
	t.Parallel()

	srv, batches := nameServer(t, "character")
	defer srv.Close()

	db := openTestDB(t)
	ctx := context.Background()

	nameCache, err := NewBoltNameCache(db)
	if err != nil {
		t.Fatalf("NewBoltNameCache() error = %v", err)
	}

	r1 := newTestResolver(t, srv.URL, 1000, nameCache)
	if _, err := r1.ResolveNames(ctx, []int64{7}); err != nil {
		t.Fatalf("ResolveNames() error = %v", err)
	}

	// A fresh resolver has a cold memory tier but shares the bolt cache.
	r2 := newTestResolver(t, srv.URL, 1000, nameCache)
	names, err := r2.ResolveNames(ctx, []int64{7})
	if err != nil {
		t.Fatalf("ResolveNames() error = %v", err)
	}

	if names[7] != "Pilot 7" {
		t.Errorf("names[7] = %q, want Pilot 7", names[7])
	}
	if len(*batches) != 1 {
		t.Errorf("server saw %d batches, want 1 (persisted cache hit)", len(*batches))
	}
}

func TestResolveNames_DuplicatesAndInvalidIDs(t *testing.T) {
	t.Parallel()

	srv, batches := nameServer(t, "character")
	defer srv.Close()

	r := newTestResolver(t, srv.URL, 1000, NewMemoryNameCache())
	names, err := r.ResolveNames(context.Background(), []int64{5, 5, 5, 0, -1})
	if err != nil {
		t.Fatalf("ResolveNames() error = %v", err)
	}

	if len(names) != 1 {
		t.Errorf("resolved %d names, want 1", len(names))
	}
	if len(*batches) != 1 || (*batches)[0] != 1 {
		t.Errorf("batches = %v, want one batch of 1", *batches)
	}
}

func TestBoltNameCache_RoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	nameCache, err := NewBoltNameCache(db)
	if err != nil {
		t.Fatalf("NewBoltNameCache() error = %v", err)
	}

	want := map[int64]string{1: "Alpha", 2: "Bravo"}
	if err := nameCache.Put(want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := nameCache.Get([]int64{1, 2, 3})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Get() returned %d names, want 2", len(got))
	}
	if got[1] != "Alpha" || got[2] != "Bravo" {
		t.Errorf("Get() = %v, want %v", got, want)
	}

	// Put merges rather than overwriting.
	if err := nameCache.Put(map[int64]string{3: "Charlie"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err = nameCache.Get([]int64{1, 3})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got[1] != "Alpha" || got[3] != "Charlie" {
		t.Errorf("Get() after merge = %v, want Alpha and Charlie", got)
	}
}
