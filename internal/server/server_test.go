package server_test

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"cinematch/internal/history"
	"cinematch/internal/recommend"
	"cinematch/internal/server"
	"cinematch/internal/testsupport"
)

func newServer(t *testing.T, withHistory bool) (*server.Server, *history.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithSampleDataset())
	var store *history.Store
	if withHistory {
		store = testsupport.MustOpenHistory(t, cfg)
	}
	srv, err := server.New(cfg, store, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })
	return srv, store
}

func TestRecommendBeforeBuild(t *testing.T) {
	srv, _ := newServer(t, false)
	if _, err := srv.Recommend(context.Background(), "Alien", 3, false); !errors.Is(err, recommend.ErrNotBuilt) {
		t.Fatalf("expected ErrNotBuilt, got %v", err)
	}
	if got := server.HTTPStatus(recommend.ErrNotBuilt); got != http.StatusServiceUnavailable {
		t.Fatalf("HTTPStatus(ErrNotBuilt) = %d", got)
	}
}

func TestRebuildAndRecommend(t *testing.T) {
	srv, store := newServer(t, true)
	ctx := context.Background()

	summary, err := srv.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if summary.Profiles != 5 || summary.EmptyProfiles != 1 || summary.MovieRows != 6 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.ID == "" {
		t.Fatal("expected a run id")
	}

	resp, err := srv.Recommend(ctx, "Alien", 2, true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	var titles []string
	for _, r := range resp.Recommendations {
		titles = append(titles, r.Title)
	}
	if !reflect.DeepEqual(titles, []string{"Aliens", "Solaris"}) {
		t.Fatalf("titles = %q", titles)
	}
	if resp.Recommendations[0].Score == nil || *resp.Recommendations[0].Score != 1 {
		t.Fatalf("expected score 1 for identical tags, got %+v", resp.Recommendations[0])
	}
	if resp.BuildID != summary.ID {
		t.Fatalf("BuildID = %q, want %q", resp.BuildID, summary.ID)
	}

	builds, err := store.ListBuilds(ctx, 0)
	if err != nil {
		t.Fatalf("ListBuilds: %v", err)
	}
	if len(builds) != 1 || builds[0].ID != summary.ID || builds[0].Profiles != 5 {
		t.Fatalf("unexpected builds %+v", builds)
	}
	queries, err := store.ListQueries(ctx, summary.ID, 0)
	if err != nil {
		t.Fatalf("ListQueries: %v", err)
	}
	if len(queries) != 1 || !reflect.DeepEqual(queries[0].Results, titles) {
		t.Fatalf("unexpected queries %+v", queries)
	}
}

func TestRecommendDefaultsAndValidation(t *testing.T) {
	srv, _ := newServer(t, false)
	ctx := context.Background()
	if _, err := srv.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	resp, err := srv.Recommend(ctx, "Alien", 0, false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// Default top_n is 5 but only four other profiles exist.
	if resp.TopN != 5 || len(resp.Recommendations) != 4 {
		t.Fatalf("unexpected response %+v", resp)
	}

	_, err = srv.Recommend(ctx, "Alien", -1, false)
	var invalid *server.InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
	if server.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("HTTPStatus = %d", server.HTTPStatus(err))
	}

	_, err = srv.Recommend(ctx, "Disaster", 3, false)
	if !errors.Is(err, recommend.ErrNotFound) {
		t.Fatalf("filtered-out title should be not found, got %v", err)
	}
	if server.HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("HTTPStatus = %d", server.HTTPStatus(err))
	}
}

func TestRebuildKeepsModelOnFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSampleDataset())
	srv, err := server.New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ctx := context.Background()
	if _, err := srv.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	before := srv.Model()

	testsupport.WriteText(t, cfg.Datasets.TagsPath, "userId,movieId,label,timestamp\n")
	if _, err := srv.Rebuild(ctx); err == nil {
		t.Fatal("expected schema error")
	} else if server.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("schema errors should map to 400, got %d", server.HTTPStatus(err))
	}
	if srv.Model() != before {
		t.Fatal("failed rebuild replaced the model")
	}
}

func TestStartEnforcesSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSampleDataset())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := server.New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { first.Close() })
	if !first.Running() || first.Addr() == "" {
		t.Fatalf("expected running server with an address, got %q", first.Addr())
	}

	second, err := server.New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail on the lock")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + first.Addr() + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	first.Stop()
	if first.Running() {
		t.Fatal("expected server to be stopped")
	}
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start after release: %v", err)
	}
	second.Stop()
}

func TestStartFailsPreflight(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv, err := server.New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	if err := srv.Start(context.Background()); err == nil {
		srv.Stop()
		t.Fatal("expected preflight failure without dataset files")
	}
	if srv.Running() {
		t.Fatal("server should not be running")
	}
}
