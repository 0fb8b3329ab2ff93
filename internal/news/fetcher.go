// Package news fetches ticker headlines from the Google News RSS feed and
// serves them through a file-backed cache.
package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"momentum-scout/internal/logger"
	"momentum-scout/internal/types"
)

const defaultFeedBase = "https://news.google.com/rss/search"

// Fetcher pulls articles from the Google News RSS search feed, scoped to the
// Indian English edition.
type Fetcher struct {
	timeout time.Duration
	feedURL string
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{timeout: timeout, feedURL: defaultFeedBase}
}

// BuildQuery assembles the feed search term. The company name is quoted so
// multi-word names match exactly; a positive lookback adds Google's when:
// operator.
func BuildQuery(prefix, company, suffix string, lookbackDays int) string {
	parts := make([]string, 0, 4)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, fmt.Sprintf("%q", company))
	if suffix != "" {
		parts = append(parts, suffix)
	}
	if lookbackDays > 0 {
		parts = append(parts, fmt.Sprintf("when:%dd", lookbackDays))
	}
	return strings.Join(parts, " ")
}

func (f *Fetcher) Fetch(ctx context.Context, query string) ([]types.NewsArticle, error) {
	ctx, span := logger.StartSpan(ctx, "fetch-news-feed")
	defer span.End()

	var articles []types.NewsArticle
	var fetchErr error

	c := colly.NewCollector(colly.MaxDepth(1))
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnXML("//rss/channel/item", func(e *colly.XMLElement) {
		title := strings.TrimSpace(e.ChildText("title"))
		if title == "" {
			return
		}
		source := strings.TrimSpace(e.ChildText("source"))
		if source == "" {
			source = "Google News"
		}
		a := types.NewNewsArticle(title, strings.TrimSpace(e.ChildText("link")), source, strings.TrimSpace(e.ChildText("pubDate")))
		a.Summary = stripHTML(e.ChildText("description"))
		articles = append(articles, a)
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("news feed fetch failed (%d): %w", r.StatusCode, err)
	})

	feedURL := fmt.Sprintf("%s?q=%s&hl=en-IN&gl=IN&ceid=IN:en", f.feedURL, url.QueryEscape(query))
	if err := c.Visit(feedURL); err != nil {
		return nil, fmt.Errorf("visit news feed: %w", err)
	}
	c.Wait()
	if fetchErr != nil {
		return nil, fetchErr
	}

	logger.Info(ctx, "News feed fetched", "query", query, "articles", len(articles))
	return articles, nil
}

// stripHTML reduces an RSS description, which Google ships as HTML markup,
// to its visible text.
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
