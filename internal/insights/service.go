package insights

import (
	"context"
	"errors"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsight/models"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsight_cache_hits_total",
		Help: "Insight generations served from cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsight_cache_misses_total",
		Help: "Insight generations that invoked the external pipeline.",
	})
)

// Cache memoizes generated insight sets per (topic, result count).
type Cache interface {
	Get(ctx context.Context, topic string, resultCount int) ([]models.Insight, bool, error)
	Put(ctx context.Context, topic string, resultCount int, insights []models.Insight) error
}

// Source fetches raw news articles for a topic.
type Source interface {
	Fetch(ctx context.Context, topic string, count int) ([]models.Article, error)
}

// Extractor distills articles into attributed insights.
type Extractor interface {
	ExtractInsights(ctx context.Context, topic string, articles []models.Article) ([]models.Insight, error)
}

// HistoryRecorder appends a searched term to a user's history.
type HistoryRecorder interface {
	CreateSearchTerm(ctx context.Context, userID, term string) (string, error)
}

// Service orchestrates insight generation. It holds no state across calls;
// all coordination happens in the cache and history stores.
type Service struct {
	cache     Cache
	source    Source
	extractor Extractor
	history   HistoryRecorder
	logger    *log.Logger
}

func NewService(cache Cache, source Source, extractor Extractor, history HistoryRecorder) *Service {
	return &Service{
		cache:     cache,
		source:    source,
		extractor: extractor,
		history:   history,
		logger:    log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags),
	}
}

// Generate returns insights for a topic, serving from cache when a fresh
// entry exists. userID may be empty for anonymous callers; history recording
// and cache population are side effects that never fail the request.
func (s *Service) Generate(ctx context.Context, topic string, resultCount int, userID string) ([]models.Insight, error) {
	cached, hit, err := s.cache.Get(ctx, topic, resultCount)
	if err != nil {
		// fail open: a broken cache costs an extra provider call, not the request
		s.logger.Printf("cache get failed for %q, treating as miss: %v", topic, err)
	}
	if hit {
		cacheHits.Inc()
		return cached, nil
	}
	cacheMisses.Inc()

	articles, err := s.source.Fetch(ctx, topic, resultCount)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, models.ErrNoInsights
	}

	generated, err := s.extractor.ExtractInsights(ctx, topic, articles)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		// an empty result must never be cached, else a transient extraction
		// failure poisons the key for the whole freshness window
		return nil, models.ErrNoInsights
	}

	if err := s.cache.Put(ctx, topic, resultCount, generated); err != nil {
		s.logger.Printf("cache put failed for %q: %v", topic, err)
	}

	if userID != "" {
		if _, err := s.history.CreateSearchTerm(ctx, userID, topic); err != nil {
			if !errors.Is(err, models.ErrDuplicateSearch) {
				s.logger.Printf("history record failed for user %s: %v", userID, err)
			}
		}
	}

	return generated, nil
}
