// Package integration contains tests that verify the annotation service
// with real external dependencies. These tests use httptest servers with
// real handler wiring and a real PostgreSQL lookup store; they skip
// themselves when the database is unavailable.
//
// Run with:
//
//	go test -v ./test/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/handler"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/registry"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/store"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/validator"
	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	"github.com/annotext/emoji-annotation-platform/pkg/config"
	"github.com/annotext/emoji-annotation-platform/pkg/postgres"
)

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func testPostgresConfig() config.PostgresConfig {
	return config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:        envOrDefault("TEST_POSTGRES_DB", "emojiplatform_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "emojiplatform"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// skipIfNoPostgres skips the test when PostgreSQL is unavailable.
func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	db, err := postgres.New(testPostgresConfig())
	if err != nil {
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newAnnotationServer wires the full HTTP surface against a real lookup
// store, without Redis or metrics.
func newAnnotationServer(t *testing.T, st *store.Store) *httptest.Server {
	t.Helper()
	a, err := annotator.New(annotator.DefaultOptions())
	if err != nil {
		t.Fatalf("building annotator: %v", err)
	}
	reg := registry.New()
	if err := reg.Register(a); err != nil {
		t.Fatalf("registering annotator: %v", err)
	}
	svc := annotation.NewService(reg, st, nil)
	h := handler.New(svc, nil, st, nil, validator.Limits{})

	mux := http.NewServeMux()
	h.Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupRoundTrip(t *testing.T) {
	db := skipIfNoPostgres(t)
	st := store.New(db)
	srv := newAnnotationServer(t, st)
	ctx := t.Context()

	const patternID = annotator.DefaultPatternID
	t.Cleanup(func() {
		_ = st.DeleteLookupEntry(ctx, patternID, "👨‍🎤")
	})

	body, _ := json.Marshal(map[string]string{
		"emoji":       "👨‍🎤",
		"description": "David Bowie",
	})
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/patterns/"+patternID+"/lookup", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT lookup: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	// The stored override takes effect immediately.
	annotateBody, _ := json.Marshal(annotation.AnnotateRequest{Text: "tribute to 👨‍🎤 tonight"})
	annResp, err := http.Post(srv.URL+"/api/v1/annotate", "application/json", bytes.NewReader(annotateBody))
	if err != nil {
		t.Fatalf("POST annotate: %v", err)
	}
	defer annResp.Body.Close()
	var result annotation.Result
	if err := json.NewDecoder(annResp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	occs, _ := result.Annotation["emoji"].([]any)
	if len(occs) != 1 {
		t.Fatalf("unexpected occurrences %v", result.Annotation["emoji"])
	}
	occ, _ := occs[0].(map[string]any)
	if occ["description"] != "David Bowie" {
		t.Errorf("override not applied: %v", occ)
	}

	// And the entry shows up in the listing.
	listResp, err := http.Get(srv.URL + "/api/v1/patterns/" + patternID + "/lookup")
	if err != nil {
		t.Fatalf("GET lookup: %v", err)
	}
	defer listResp.Body.Close()
	var listing struct {
		Entries []store.LookupEntry `json:"entries"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&listing); err != nil {
		t.Fatalf("decoding listing: %v", err)
	}
	found := false
	for _, e := range listing.Entries {
		if e.Emoji == "👨‍🎤" && e.Description == "David Bowie" {
			found = true
		}
	}
	if !found {
		t.Errorf("stored entry missing from listing: %v", listing.Entries)
	}
}

func TestRunAudit(t *testing.T) {
	db := skipIfNoPostgres(t)
	st := store.New(db)
	srv := newAnnotationServer(t, st)

	body, _ := json.Marshal(annotation.AnnotateRequest{Text: "audit me 😀"})
	resp, err := http.Post(srv.URL+"/api/v1/annotate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST annotate: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	runs, err := st.RecentRuns(t.Context(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) == 0 {
		t.Fatal("expected at least one audit row")
	}
	latest := runs[0]
	if latest.Source != "http" {
		t.Errorf("unexpected source %q", latest.Source)
	}
	if latest.EmojiCount != 1 {
		t.Errorf("unexpected emoji count %d", latest.EmojiCount)
	}
}
