package news

import (
	"context"
	"errors"
	"time"

	"momentum-scout/internal/logger"
	"momentum-scout/internal/storage"
	"momentum-scout/internal/types"
)

// Source fetches articles for a search query.
type Source interface {
	Fetch(ctx context.Context, query string) ([]types.NewsArticle, error)
}

// Cache stores fetched articles keyed by query.
type Cache interface {
	SaveNews(query string, articles []types.NewsArticle) error
	LoadNews(query string, maxAge time.Duration) ([]types.NewsArticle, error)
}

// Service reads through the cache: fresh entries are served locally, misses
// and expired entries go to the source and are written back.
type Service struct {
	src    Source
	cache  Cache
	maxAge time.Duration
}

func NewService(src Source, cache Cache, maxAge time.Duration) *Service {
	return &Service{src: src, cache: cache, maxAge: maxAge}
}

func (s *Service) Get(ctx context.Context, query string) ([]types.NewsArticle, error) {
	if s.cache != nil {
		articles, err := s.cache.LoadNews(query, s.maxAge)
		if err == nil {
			logger.Debug(ctx, "News cache hit", "query", query, "articles", len(articles))
			return articles, nil
		}
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrCacheExpired) {
			logger.Warn(ctx, "News cache read failed, falling through to fetch", "query", query, "error", err.Error())
		}
	}

	articles, err := s.src.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SaveNews(query, articles); err != nil {
			logger.Warn(ctx, "News cache write failed", "query", query, "error", err.Error())
		}
	}
	return articles, nil
}
