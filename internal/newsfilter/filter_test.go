package newsfilter

import (
	"context"
	"testing"
	"time"

	"momentum-scout/internal/types"
)

func article(title, source string, age time.Duration) types.NewsArticle {
	return types.NewsArticle{
		Title:       title,
		Source:      source,
		PublishedAt: time.Now().Add(-age),
	}
}

func TestTimeRecencyKeepsFreshArticles(t *testing.T) {
	articles := []types.NewsArticle{
		article("fresh", "Mint", 2*time.Hour),
		article("stale", "Mint", 72*time.Hour),
	}
	kept := TimeRecency{Hours: 24}.Apply(articles)
	if len(kept) != 1 || kept[0].Title != "fresh" {
		t.Errorf("kept = %v, want only the fresh article", kept)
	}
}

func TestTimeRecencyUnparsedDatePasses(t *testing.T) {
	// unparsable publish dates default to "now" at construction time
	a := types.NewNewsArticle("odd date", "link", "Mint", "not-a-date")
	kept := TimeRecency{Hours: 1}.Apply([]types.NewsArticle{a})
	if len(kept) != 1 {
		t.Error("article with defaulted publish date should pass recency")
	}
}

func TestSourceBlacklistSubstringCaseInsensitive(t *testing.T) {
	articles := []types.NewsArticle{
		article("a", "The Motley Fool", time.Hour),
		article("b", "MINT", time.Hour),
		article("c", "Economic Times", time.Hour),
	}
	kept := SourceBlacklist{Terms: []string{"fool", "mint"}}.Apply(articles)
	if len(kept) != 1 || kept[0].Title != "c" {
		t.Errorf("kept = %v, want only Economic Times", kept)
	}
}

func TestChainOrderAndEarlyStop(t *testing.T) {
	ctx := context.Background()
	chain := NewChain(ctx, []types.FilterConfig{
		{Name: "source_blacklist", Sources: []string{"Mint"}},
		{Name: "time_recency", Hours: 24},
	})
	articles := []types.NewsArticle{article("a", "Mint", time.Hour)}
	if got := chain.Run(ctx, articles); len(got) != 0 {
		t.Errorf("got %v, want everything filtered", got)
	}
}

func TestChainSkipsUnknownFilterWithWarning(t *testing.T) {
	ctx := context.Background()
	chain := NewChain(ctx, []types.FilterConfig{
		{Name: "sentiment_magic"},
		{Name: "time_recency", Hours: 24},
	})
	if chain.Len() != 1 {
		t.Errorf("resolved %d filters, want 1 (unknown skipped)", chain.Len())
	}
	articles := []types.NewsArticle{article("a", "Mint", time.Hour)}
	if got := chain.Run(ctx, articles); len(got) != 1 {
		t.Errorf("chain with skipped filter dropped articles: %v", got)
	}
}

func TestChainIdempotentOnConformingInput(t *testing.T) {
	ctx := context.Background()
	chain := NewChain(ctx, []types.FilterConfig{
		{Name: "time_recency", Hours: 48},
		{Name: "source_blacklist", Sources: []string{"Fool"}},
	})
	articles := []types.NewsArticle{
		article("a", "Mint", time.Hour),
		article("b", "Economic Times", 2*time.Hour),
	}
	once := chain.Run(ctx, articles)
	twice := chain.Run(ctx, once)
	if len(once) != len(articles) || len(twice) != len(once) {
		t.Fatalf("idempotency broken: %d -> %d -> %d", len(articles), len(once), len(twice))
	}
	for i := range once {
		if once[i].Title != twice[i].Title {
			t.Errorf("article %d changed between runs", i)
		}
	}
}

func TestChainEmptyInput(t *testing.T) {
	ctx := context.Background()
	chain := NewChain(ctx, []types.FilterConfig{{Name: "time_recency", Hours: 24}})
	if got := chain.Run(ctx, nil); len(got) != 0 {
		t.Errorf("got %v from empty input", got)
	}
}
