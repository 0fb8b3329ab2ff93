// Package newsfilter applies an ordered chain of independent filters to a
// list of news articles before they reach the analyst.
package newsfilter

import (
	"context"
	"strings"
	"time"

	"momentum-scout/internal/logger"
	"momentum-scout/internal/types"
)

type Filter interface {
	Name() string
	Apply(articles []types.NewsArticle) []types.NewsArticle
}

// TimeRecency keeps articles published within the last Hours. Articles whose
// publish date could not be parsed carry a "now" timestamp from construction
// and therefore always pass; that is the documented policy, not an accident.
type TimeRecency struct {
	Hours int
}

func (TimeRecency) Name() string { return "time_recency" }

func (f TimeRecency) Apply(articles []types.NewsArticle) []types.NewsArticle {
	cutoff := time.Now().Add(-time.Duration(f.Hours) * time.Hour)
	kept := make([]types.NewsArticle, 0, len(articles))
	for _, a := range articles {
		if !a.PublishedAt.Before(cutoff) {
			kept = append(kept, a)
		}
	}
	return kept
}

// SourceBlacklist excludes articles whose source name contains any of the
// configured terms, case-insensitively.
type SourceBlacklist struct {
	Terms []string
}

func (SourceBlacklist) Name() string { return "source_blacklist" }

func (f SourceBlacklist) Apply(articles []types.NewsArticle) []types.NewsArticle {
	kept := make([]types.NewsArticle, 0, len(articles))
	for _, a := range articles {
		if !f.blacklisted(a.Source) {
			kept = append(kept, a)
		}
	}
	return kept
}

func (f SourceBlacklist) blacklisted(source string) bool {
	s := strings.ToLower(source)
	for _, term := range f.Terms {
		if term != "" && strings.Contains(s, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// Chain runs filters in configuration order, stopping early once the list
// is empty.
type Chain struct {
	filters []Filter
}

// NewChain resolves filter configs against the fixed registry. Unknown
// filter names are skipped with a warning; the chain keeps running with
// whatever resolved (documented policy).
func NewChain(ctx context.Context, configs []types.FilterConfig) *Chain {
	filters := make([]Filter, 0, len(configs))
	for _, cfg := range configs {
		switch cfg.Name {
		case "time_recency":
			filters = append(filters, TimeRecency{Hours: cfg.Hours})
		case "source_blacklist":
			filters = append(filters, SourceBlacklist{Terms: cfg.Sources})
		default:
			logger.Warn(ctx, "Unknown news filter, skipping", "filter", cfg.Name)
		}
	}
	return &Chain{filters: filters}
}

func (c *Chain) Run(ctx context.Context, articles []types.NewsArticle) []types.NewsArticle {
	for _, f := range c.filters {
		if len(articles) == 0 {
			break
		}
		before := len(articles)
		articles = f.Apply(articles)
		logger.Debug(ctx, "News filter applied", "filter", f.Name(), "kept", len(articles), "dropped", before-len(articles))
	}
	return articles
}

// Len reports how many filters resolved from configuration.
func (c *Chain) Len() int { return len(c.filters) }
