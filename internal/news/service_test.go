package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"momentum-scout/internal/storage"
	"momentum-scout/internal/types"
)

type fakeSource struct {
	calls    int
	articles []types.NewsArticle
	err      error
}

func (f *fakeSource) Fetch(context.Context, string) ([]types.NewsArticle, error) {
	f.calls++
	return f.articles, f.err
}

type fakeCache struct {
	entries map[string][]types.NewsArticle
	loadErr error
	saved   int
}

func (f *fakeCache) SaveNews(query string, articles []types.NewsArticle) error {
	if f.entries == nil {
		f.entries = map[string][]types.NewsArticle{}
	}
	f.entries[query] = articles
	f.saved++
	return nil
}

func (f *fakeCache) LoadNews(query string, _ time.Duration) ([]types.NewsArticle, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if a, ok := f.entries[query]; ok {
		return a, nil
	}
	return nil, storage.ErrNotFound
}

func TestBuildQuery(t *testing.T) {
	cases := []struct {
		prefix, company, suffix string
		lookback                int
		want                    string
	}{
		{"", "Tata Motors", "share price NSE", 3, `"Tata Motors" share price NSE when:3d`},
		{"intraday", "Infosys", "", 1, `intraday "Infosys" when:1d`},
		{"", "TCS", "", 0, `"TCS"`},
	}
	for _, tc := range cases {
		if got := BuildQuery(tc.prefix, tc.company, tc.suffix, tc.lookback); got != tc.want {
			t.Errorf("BuildQuery = %q, want %q", got, tc.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	in := `<ol><li><a href="https://x">Stock surges 12%</a>&nbsp;<font color="#6f6f6f">Mint</font></li></ol>`
	got := stripHTML(in)
	if got == in || got == "" {
		t.Errorf("stripHTML(%q) = %q", in, got)
	}
	for _, tag := range []string{"<a", "<li", "<font"} {
		if strings.Contains(got, tag) {
			t.Errorf("stripHTML left markup %q in %q", tag, got)
		}
	}
}

func TestServiceCacheHitSkipsFetch(t *testing.T) {
	src := &fakeSource{}
	cache := &fakeCache{entries: map[string][]types.NewsArticle{
		"q": {{Title: "cached"}},
	}}
	svc := NewService(src, cache, time.Hour)

	got, err := svc.Get(context.Background(), "q")
	if err != nil || len(got) != 1 || got[0].Title != "cached" {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if src.calls != 0 {
		t.Errorf("source called %d times on cache hit", src.calls)
	}
}

func TestServiceMissFetchesAndWritesBack(t *testing.T) {
	src := &fakeSource{articles: []types.NewsArticle{{Title: "fresh"}}}
	cache := &fakeCache{}
	svc := NewService(src, cache, time.Hour)

	got, err := svc.Get(context.Background(), "q")
	if err != nil || len(got) != 1 {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if src.calls != 1 || cache.saved != 1 {
		t.Errorf("calls = %d, saved = %d, want 1 and 1", src.calls, cache.saved)
	}
}

func TestServiceExpiredEntryRefetches(t *testing.T) {
	src := &fakeSource{articles: []types.NewsArticle{{Title: "fresh"}}}
	cache := &fakeCache{loadErr: storage.ErrCacheExpired}
	svc := NewService(src, cache, time.Hour)

	got, err := svc.Get(context.Background(), "q")
	if err != nil || got[0].Title != "fresh" {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want refetch on expiry", src.calls)
	}
}

func TestServiceFetchErrorPropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("feed down")}
	svc := NewService(src, &fakeCache{}, time.Hour)
	if _, err := svc.Get(context.Background(), "q"); err == nil {
		t.Error("want fetch error to propagate")
	}
}

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>"Tata Motors" - Google News</title>
<item>
  <title>Tata Motors rallies on JLR numbers</title>
  <link>https://example.com/a</link>
  <pubDate>Mon, 31 Aug 2026 09:30:00 GMT</pubDate>
  <description>&lt;a href="https://example.com/a"&gt;Tata Motors rallies&lt;/a&gt;&amp;nbsp;&lt;font&gt;Mint&lt;/font&gt;</description>
  <source url="https://livemint.com">Mint</source>
</item>
<item>
  <title>Auto sector roundup</title>
  <link>https://example.com/b</link>
  <pubDate>not a date</pubDate>
</item>
</channel></rss>`

func TestFetcherParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Error("missing q parameter")
		}
		if r.URL.Query().Get("ceid") != "IN:en" {
			t.Errorf("ceid = %q", r.URL.Query().Get("ceid"))
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, sampleRSS)
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	f.feedURL = srv.URL

	articles, err := f.Fetch(context.Background(), `"Tata Motors" when:3d`)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(articles))
	}

	a := articles[0]
	if a.Title != "Tata Motors rallies on JLR numbers" || a.Source != "Mint" {
		t.Errorf("article = %+v", a)
	}
	if a.PublishedAt.IsZero() {
		t.Error("pubDate not parsed")
	}
	if strings.Contains(a.Summary, "<a") || a.Summary == "" {
		t.Errorf("summary not stripped: %q", a.Summary)
	}

	b := articles[1]
	if b.Source != "Google News" {
		t.Errorf("missing source should default, got %q", b.Source)
	}
	if b.PublishedAt.IsZero() {
		t.Error("unparsable pubDate should default to now, not zero")
	}
}
