// Package service provides the recommender service that backs the CLI and
// the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/songsim/internal/adapters/catalog"
	"github.com/okian/songsim/internal/adapters/resultcache"
	"github.com/okian/songsim/internal/domain/features"
	"github.com/okian/songsim/internal/domain/filter"
	"github.com/okian/songsim/internal/domain/model"
	"github.com/okian/songsim/internal/domain/normalize"
	"github.com/okian/songsim/internal/domain/ranking"
	"github.com/okian/songsim/internal/domain/types"
	"github.com/okian/songsim/pkg/logger"
	"github.com/okian/songsim/pkg/metrics"
)

// Defaults applied by New.
const (
	DefaultMaxK = 20
	DefaultK    = 5
)

// Request is one recommendation query. Query is a catalog index.
type Request struct {
	Query   int
	K       int
	Filters filter.Criteria
}

// Service owns the loaded catalog, its normalized feature matrix and the
// result cache. Load swaps in a new catalog atomically; queries run under a
// read lock.
type Service struct {
	mu sync.RWMutex

	// Configuration
	source        catalog.Source
	referenceYear int
	policy        normalize.Policy
	maxK          int
	defaultK      int
	cacheSize     int

	// State
	songs      []model.Song
	matrix     *features.Matrix
	stats      normalize.Stats
	generation uint64
	loadedAt   time.Time
	cache      resultcache.Cache

	logger     logger.Logger
	loggerOnce sync.Once
}

// New constructs a Service. Load must be called before queries are served.
func New(opts ...Option) *Service {
	s := &Service{
		referenceYear: features.DefaultReferenceYear,
		policy:        normalize.PolicyZero,
		maxK:          DefaultMaxK,
		defaultK:      DefaultK,
		cacheSize:     resultcache.DefaultSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.defaultK > s.maxK {
		s.defaultK = s.maxK
	}
	return s
}

func (s *Service) log() logger.Logger {
	s.loggerOnce.Do(func() {
		if s.logger == nil {
			s.logger = logger.Get().Named("recommender")
		}
	})
	return s.logger
}

// Load reads the catalog, vectorizes every song and normalizes the feature
// matrix. On success the previous catalog and every cached result are
// replaced. On failure the previous catalog stays in service.
func (s *Service) Load(ctx context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}
	start := time.Now()

	songs, err := s.source.Load(ctx)
	if err != nil {
		s.recordLoadError(ctx, "source", err)
		return fmt.Errorf("load catalog: %w", err)
	}

	raw := features.NewVectorizer(features.WithReferenceYear(s.referenceYear)).Matrix(songs)
	norm := normalize.New(
		normalize.WithPolicy(s.policy),
		normalize.WithColumnNames(features.ColumnNames[:]),
	)
	matrix, stats, err := norm.Normalize(raw)
	if err != nil {
		s.recordLoadError(ctx, "normalize", err)
		return fmt.Errorf("normalize catalog: %w", err)
	}

	cache, err := resultcache.New(resultcache.WithSize(s.cacheSize))
	if err != nil {
		s.recordLoadError(ctx, "cache", err)
		return fmt.Errorf("result cache: %w", err)
	}

	if len(stats.ZeroVariance) > 0 {
		names := make([]string, len(stats.ZeroVariance))
		for i, col := range stats.ZeroVariance {
			names[i] = features.ColumnNames[col]
		}
		s.log().Warn(ctx, "zero-variance feature columns set to 0",
			logger.Ints("columns", stats.ZeroVariance),
			logger.Any("names", names),
		)
	}

	s.mu.Lock()
	s.songs = songs
	s.matrix = matrix
	s.stats = stats
	s.cache = cache
	s.generation++
	reload := s.generation > 1
	s.loadedAt = time.Now()
	s.mu.Unlock()

	elapsed := time.Since(start)
	metrics.UpdateCatalog(len(songs), matrix.Cols(), len(stats.ZeroVariance))
	metrics.RecordCatalogLoadDuration(float64(elapsed.Milliseconds()))

	s.log().Info(ctx, "catalog loaded",
		logger.Bool("reload", reload),
		logger.Int("songs", len(songs)),
		logger.Int("dimensions", matrix.Cols()),
		logger.Int("referenceYear", s.referenceYear),
		logger.String("zeroVariancePolicy", s.policy.String()),
		logger.String("elapsed", elapsed.String()),
	)
	return nil
}

func (s *Service) recordLoadError(ctx context.Context, stage string, err error) {
	metrics.RecordCatalogLoadError()
	metrics.RecordErrorByComponent("catalog", stage)
	s.log().Error(ctx, "catalog load failed", logger.String("stage", stage), logger.Error(err))
}

// MaxK returns the largest count Recommend accepts.
func (s *Service) MaxK() int { return s.maxK }

// DefaultK returns the count callers use when none is given.
func (s *Service) DefaultK() int { return s.defaultK }

// Lookup resolves ident against track ids and track names, ignoring case.
// The first match in catalog order wins.
func (s *Service) Lookup(_ context.Context, ident string) (int, model.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(ident)
}

// lookupLocked requires s.mu to be held.
func (s *Service) lookupLocked(ident string) (int, model.Song, error) {
	if s.matrix == nil {
		return -1, model.Song{}, ErrNotLoaded
	}
	for i, song := range s.songs {
		if song.MatchesIdentifier(ident) {
			return i, song, nil
		}
	}
	return -1, model.Song{}, fmt.Errorf("%w: %q", ErrSongNotFound, ident)
}

// Song returns the catalog entry at index i.
func (s *Service) Song(i int) (model.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.matrix == nil {
		return model.Song{}, ErrNotLoaded
	}
	if i < 0 || i >= len(s.songs) {
		return model.Song{}, fmt.Errorf("%w: index %d", ErrSongNotFound, i)
	}
	return s.songs[i], nil
}

// Recommend returns up to req.K songs nearest to the query song among those
// passing req.Filters, closest first. An empty result is not an error.
func (s *Service) Recommend(ctx context.Context, req Request) ([]types.Recommendation, error) {
	if req.K < 1 || req.K > s.maxK {
		return nil, fmt.Errorf("%w: k=%d must be in [1, %d]", ErrInvalidK, req.K, s.maxK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recommendLocked(ctx, req)
}

// recommendLocked requires s.mu to be held and req.K to be validated.
func (s *Service) recommendLocked(ctx context.Context, req Request) ([]types.Recommendation, error) {
	start := time.Now()
	if s.matrix == nil {
		return nil, ErrNotLoaded
	}

	key := resultcache.Key{
		Generation: s.generation,
		Query:      req.Query,
		K:          req.K,
		Popularity: req.Filters.Popularity,
		Genre:      req.Filters.Genre,
	}
	if recs, ok := s.cache.Get(ctx, key); ok {
		metrics.RecordCacheHit()
		return recs, nil
	}
	metrics.RecordCacheMiss()

	candidates, err := filter.BuildCandidates(s.songs, req.Filters, req.Query)
	if err != nil {
		if errors.Is(err, filter.ErrQueryOutOfRange) {
			return nil, fmt.Errorf("%w: %w", ErrSongNotFound, err)
		}
		return nil, err
	}

	ranked, err := ranking.Rank(req.Query, candidates, s.matrix, req.K)
	if err != nil {
		metrics.RecordErrorByComponent("ranking", "rank")
		return nil, err
	}

	recs := make([]types.Recommendation, len(ranked))
	for i, r := range ranked {
		song := s.songs[r.Index]
		recs[i] = types.Recommendation{
			Rank:       i + 1,
			TrackID:    song.TrackID,
			TrackName:  song.TrackName,
			ArtistName: song.ArtistName,
			Genre:      song.Genre,
			Popularity: song.Popularity,
			Distance:   r.Distance,
		}
	}
	s.cache.Add(ctx, key, recs)

	latency := time.Since(start)
	metrics.RecordRecommendation(req.Filters.Popularity.String(), req.Filters.Genre.String(),
		len(candidates), len(recs), float64(latency.Microseconds())/1000)

	s.log().Debug(ctx, "recommendation served",
		logger.Int("query", req.Query),
		logger.Int("k", req.K),
		logger.Int("candidates", len(candidates)),
		logger.Int("results", len(recs)),
	)
	return recs, nil
}

// RecommendFor resolves ident and recommends for it in one call. Both steps
// see the same catalog, even while a reload is in progress.
func (s *Service) RecommendFor(ctx context.Context, ident string, k int, filters filter.Criteria) (types.RecommendResponse, error) {
	if k < 1 || k > s.maxK {
		return types.RecommendResponse{}, fmt.Errorf("%w: k=%d must be in [1, %d]", ErrInvalidK, k, s.maxK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, song, err := s.lookupLocked(ident)
	if err != nil {
		return types.RecommendResponse{}, err
	}
	recs, err := s.recommendLocked(ctx, Request{Query: idx, K: k, Filters: filters})
	if err != nil {
		return types.RecommendResponse{}, err
	}
	return types.RecommendResponse{
		Query:   Summarize(idx, song),
		Results: recs,
	}, nil
}

// Summarize builds the response header for the song at index idx.
func Summarize(idx int, song model.Song) types.SongSummary {
	return types.SongSummary{
		Index:      idx,
		TrackID:    song.TrackID,
		TrackName:  song.TrackName,
		ArtistName: song.ArtistName,
		Genre:      song.Genre,
		Popularity: song.Popularity,
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"loaded":             s.matrix != nil,
		"referenceYear":      s.referenceYear,
		"zeroVariancePolicy": s.policy.String(),
		"maxK":               s.maxK,
		"defaultK":           s.defaultK,
		"resultCacheSize":    s.cacheSize,
	}

	if s.matrix != nil {
		zero := make([]string, len(s.stats.ZeroVariance))
		for i, col := range s.stats.ZeroVariance {
			zero[i] = features.ColumnNames[col]
		}
		stats["songs"] = len(s.songs)
		stats["dimensions"] = s.matrix.Cols()
		stats["zeroVarianceColumns"] = zero
		stats["generation"] = s.generation
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["resultCacheEntries"] = s.cache.Len()
	}

	return stats
}
