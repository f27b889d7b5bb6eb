package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"cinematch/internal/api"
	"cinematch/internal/config"
	"cinematch/internal/history"
	"cinematch/internal/logging"
	"cinematch/internal/metrics"
	"cinematch/internal/movielens"
	"cinematch/internal/preflight"
	"cinematch/internal/recommend"
)

// Server coordinates model builds, queries, and the HTTP API.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *recommend.Engine
	history *history.Store

	lockPath string
	lock     *flock.Flock

	buildMu sync.Mutex
	current atomic.Pointer[api.BuildSummary]

	api     *apiServer
	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a server. store may be nil when history is disabled.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	opts := recommend.Options{
		MinAvgRating:      cfg.Recommend.MinAvgRating,
		SimilarityWorkers: cfg.Recommend.SimilarityWorkers,
		LowercaseTokens:   cfg.Recommend.LowercaseTokens,
	}
	lockPath := cfg.LockPath()
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		engine:   recommend.NewEngine(opts, logger),
		history:  store,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	s.api = newAPIServer(cfg.Paths.APIBind, s, logger)
	return s, nil
}

// Start acquires the instance lock, runs preflight checks, builds the model,
// and begins serving the API.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}
	if err := s.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cinematch server is already running")
	}

	if failed := preflight.Failed(preflight.RunAll(ctx, s.cfg)); len(failed) > 0 {
		_ = s.lock.Unlock()
		details := make([]string, len(failed))
		for i, r := range failed {
			details[i] = r.Name + ": " + r.Detail
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
	}

	if _, err := s.Rebuild(ctx); err != nil {
		_ = s.lock.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := s.api.start(runCtx); err != nil {
		cancel()
		_ = s.lock.Unlock()
		return err
	}
	s.cancel = cancel
	s.running.Store(true)
	s.logger.Info("cinematch server started",
		logging.String("lock", s.lockPath),
		logging.String("address", s.Addr()))
	return nil
}

// Stop shuts down the API and releases the instance lock.
func (s *Server) Stop() {
	if !s.running.Load() {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.api.stop()
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release server lock", logging.Error(err))
	}
	s.running.Store(false)
	s.logger.Info("cinematch server stopped")
}

// Close stops the server and closes the history store.
func (s *Server) Close() error {
	s.Stop()
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// Running reports whether Start has succeeded and Stop has not been called.
func (s *Server) Running() bool {
	return s.running.Load()
}

// Addr returns the API listen address once started.
func (s *Server) Addr() string {
	return s.api.addr()
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.api.handler
}

// Model returns the current model, or nil before the first build.
func (s *Server) Model() *recommend.Model {
	return s.engine.Model()
}

// Rebuild loads the datasets and replaces the model. Concurrent calls are
// serialized; queries keep using the previous model until the swap.
func (s *Server) Rebuild(ctx context.Context) (api.BuildSummary, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	runID := history.NewRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()

	paths := movielens.Paths{
		Ratings: s.cfg.Datasets.RatingsPath,
		Tags:    s.cfg.Datasets.TagsPath,
		Movies:  s.cfg.Datasets.MoviesPath,
	}
	ds, err := movielens.LoadDataset(ctx, paths)
	if err != nil {
		metrics.RecordBuild(err, time.Since(started), 0, 0)
		logger.Error("dataset load failed", logging.Error(err))
		return api.BuildSummary{}, fmt.Errorf("load dataset: %w", err)
	}

	model, err := s.engine.LoadAndProcess(ctx, ds)
	if err != nil {
		metrics.RecordBuild(err, time.Since(started), 0, 0)
		return api.BuildSummary{}, err
	}
	elapsed := time.Since(started)
	metrics.RecordBuild(nil, elapsed, model.Len(), model.Stats.Vocabulary)

	summary := api.FromBuildStats(model.Stats, s.cfg.Recommend.MinAvgRating)
	summary.ID = runID
	summary.StartedAt = started.UTC().Format(time.RFC3339Nano)
	summary.DurationMillis = elapsed.Milliseconds()

	if s.history != nil {
		_, err := s.history.RecordBuild(ctx, history.Build{
			ID:            runID,
			StartedAt:     started,
			Duration:      elapsed,
			RatingsPath:   paths.Ratings,
			TagsPath:      paths.Tags,
			MoviesPath:    paths.Movies,
			MinAvgRating:  s.cfg.Recommend.MinAvgRating,
			RatingRows:    model.Stats.RatingRows,
			TagRows:       model.Stats.TagRows,
			MovieRows:     model.Stats.MovieRows,
			Profiles:      model.Len(),
			Vocabulary:    model.Stats.Vocabulary,
			EmptyProfiles: model.Stats.EmptyProfiles,
		})
		if err != nil {
			logging.WarnWithContext(logger, "failed to record build history", "history_write_failed",
				logging.Error(err))
		}
	}

	s.current.Store(&summary)
	return summary, nil
}

// CurrentBuild returns the summary of the model currently served.
func (s *Server) CurrentBuild() *api.BuildSummary {
	return s.current.Load()
}

// Recommend answers one query against the current model. A topN of zero
// selects the configured default; a negative topN is rejected.
func (s *Server) Recommend(ctx context.Context, title string, topN int, withScores bool) (api.RecommendationsResponse, error) {
	started := time.Now()
	if topN == 0 {
		topN = s.cfg.Recommend.TopN
	}
	if topN < 0 {
		err := &InvalidArgumentError{Name: "top_n", Value: strconv.Itoa(topN), Reason: "must be positive"}
		metrics.RecordQuery(metrics.OutcomeInvalid, time.Since(started))
		return api.RecommendationsResponse{}, err
	}

	build := s.current.Load()
	scored, err := s.engine.GetScoredRecommendations(title, topN)
	metrics.RecordQuery(queryOutcome(err), time.Since(started))
	if err != nil {
		if errors.Is(err, recommend.ErrNotFound) && build != nil {
			s.recordQuery(ctx, build.ID, title, topN, false, nil)
		}
		return api.RecommendationsResponse{}, err
	}

	resp := api.RecommendationsResponse{
		Query:           title,
		TopN:            topN,
		Recommendations: api.FromScored(scored, withScores),
	}
	if build != nil {
		resp.BuildID = build.ID
		titles := make([]string, len(scored))
		for i, sc := range scored {
			titles[i] = sc.Title
		}
		s.recordQuery(ctx, build.ID, title, topN, true, titles)
	}
	return resp, nil
}

// Profiles returns up to limit profiles from the current model.
func (s *Server) Profiles(limit int) (api.ProfilesResponse, error) {
	model := s.engine.Model()
	if model == nil {
		return api.ProfilesResponse{}, recommend.ErrNotBuilt
	}
	return api.FromProfiles(model.Profiles, limit), nil
}

// Health reports readiness.
func (s *Server) Health() api.HealthResponse {
	resp := api.HealthResponse{
		Status:   "starting",
		PID:      os.Getpid(),
		LockPath: s.lockPath,
		Build:    s.current.Load(),
	}
	if s.engine.Model() != nil {
		resp.Status = "ok"
		resp.Ready = true
	}
	return resp
}

func (s *Server) recordQuery(ctx context.Context, buildID, title string, topN int, found bool, results []string) {
	if s.history == nil || buildID == "" {
		return
	}
	_, err := s.history.RecordQuery(ctx, history.Query{
		BuildID: buildID,
		Title:   title,
		TopN:    topN,
		Found:   found,
		Results: results,
	})
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "failed to record query history", "history_write_failed",
			logging.Error(err))
	}
}

func queryOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, recommend.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, recommend.ErrNotBuilt):
		return metrics.OutcomeNotBuilt
	default:
		return metrics.OutcomeError
	}
}
