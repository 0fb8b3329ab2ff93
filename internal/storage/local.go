// Package storage persists run artifacts as JSON files under a single data
// directory: the ticker universe, shortlist records, a keyed news cache and
// analyst workflow state.
package storage

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"momentum-scout/internal/types"
)

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrCacheExpired = errors.New("storage: cache entry expired")
)

type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	for _, dir := range []string{root, filepath.Join(root, "news"), filepath.Join(root, "analysis")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: init %s: %w", dir, err)
		}
	}
	return &Local{root: root}, nil
}

func (s *Local) writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (s *Local) readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return err
	}
	return json.Unmarshal(b, v)
}

// LoadTickers reads the screening universe from tickers.json, a map of
// ticker symbol to company name.
func (s *Local) LoadTickers() (map[string]string, error) {
	var out map[string]string
	if err := s.readJSON(filepath.Join(s.root, "tickers.json"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Local) SaveTickers(tickers map[string]string) error {
	return s.writeJSON(filepath.Join(s.root, "tickers.json"), tickers)
}

func (s *Local) shortlistPath(shortlistID string) string {
	return filepath.Join(s.root, shortlistID+".json")
}

func (s *Local) SaveShortlist(rec types.ShortlistRecord) error {
	return s.writeJSON(s.shortlistPath(rec.ShortlistID), rec)
}

func (s *Local) LoadShortlist(shortlistID string) (types.ShortlistRecord, error) {
	var rec types.ShortlistRecord
	err := s.readJSON(s.shortlistPath(shortlistID), &rec)
	return rec, err
}

// newsEnvelope wraps cached articles with their fetch time so expiry can be
// judged on read.
type newsEnvelope struct {
	Query     string              `json:"query"`
	FetchedAt time.Time           `json:"fetched_at"`
	Articles  []types.NewsArticle `json:"articles"`
}

func newsKey(query string) string {
	sum := md5.Sum([]byte(query))
	return hex.EncodeToString(sum[:])
}

func (s *Local) newsPath(query string) string {
	return filepath.Join(s.root, "news", newsKey(query)+".json")
}

func (s *Local) SaveNews(query string, articles []types.NewsArticle) error {
	env := newsEnvelope{Query: query, FetchedAt: time.Now(), Articles: articles}
	return s.writeJSON(s.newsPath(query), env)
}

// LoadNews returns cached articles for a query. Entries older than maxAge
// return ErrCacheExpired; missing entries return ErrNotFound.
func (s *Local) LoadNews(query string, maxAge time.Duration) ([]types.NewsArticle, error) {
	var env newsEnvelope
	if err := s.readJSON(s.newsPath(query), &env); err != nil {
		return nil, err
	}
	if maxAge > 0 && time.Since(env.FetchedAt) > maxAge {
		return nil, fmt.Errorf("%w: fetched %s", ErrCacheExpired, env.FetchedAt.Format(time.RFC3339))
	}
	return env.Articles, nil
}

func (s *Local) statePath(analysisID string) string {
	return filepath.Join(s.root, "analysis", analysisID+".json")
}

func (s *Local) SaveAnalystState(state types.AnalystState) error {
	return s.writeJSON(s.statePath(state.AnalysisID), state)
}

func (s *Local) LoadAnalystState(analysisID string) (types.AnalystState, error) {
	var state types.AnalystState
	err := s.readJSON(s.statePath(analysisID), &state)
	return state, err
}
