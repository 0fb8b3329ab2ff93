package analyst

import (
	"testing"

	"momentum-scout/internal/types"
)

func result(conviction int, sentiment float64) types.AnalysisResult {
	return types.AnalysisResult{
		ConvictionScore: conviction,
		SentimentScore:  sentiment,
		PrimaryDriver:   types.DriverEarnings,
	}
}

func TestRankFiltersSortsAndNumbersContiguously(t *testing.T) {
	order := []string{"AAA", "BBB", "CCC", "DDD"}
	results := map[string]types.AnalysisResult{
		"AAA": result(6, 0.5),
		"BBB": result(9, 0.3),
		"CCC": result(4, 0.9),  // below conviction threshold
		"DDD": result(8, 0.05), // below sentiment threshold
	}

	got := Rank(order, results, 5, 0.1, 5)
	if len(got) != 2 {
		t.Fatalf("shortlist = %v, want 2 entries", got)
	}
	if got[1] != "BBB" || got[2] != "AAA" {
		t.Errorf("shortlist = %v, want BBB then AAA", got)
	}
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	order := []string{"X", "Y", "Z"}
	results := map[string]types.AnalysisResult{
		"X": result(7, 0.4),
		"Y": result(7, 0.8),
		"Z": result(7, 0.2),
	}
	got := Rank(order, results, 5, 0.1, 5)
	if got[1] != "X" || got[2] != "Y" || got[3] != "Z" {
		t.Errorf("tied convictions must keep input order, got %v", got)
	}
}

func TestRankTopNTruncates(t *testing.T) {
	order := []string{"A", "B", "C"}
	results := map[string]types.AnalysisResult{
		"A": result(10, 0.9),
		"B": result(9, 0.9),
		"C": result(8, 0.9),
	}
	got := Rank(order, results, 5, 0.1, 2)
	if len(got) != 2 || got[1] != "A" || got[2] != "B" {
		t.Errorf("top 2 = %v", got)
	}
	if _, ok := got[3]; ok {
		t.Error("rank 3 must not exist after truncation")
	}
}

func TestRankThresholdsAreInclusive(t *testing.T) {
	order := []string{"EDGE"}
	results := map[string]types.AnalysisResult{"EDGE": result(5, 0.1)}
	got := Rank(order, results, 5, 0.1, 5)
	if got[1] != "EDGE" {
		t.Errorf("exact threshold values must qualify, got %v", got)
	}
}

func TestRankEmptyAndMissingResults(t *testing.T) {
	if got := Rank(nil, nil, 5, 0.1, 5); len(got) != 0 {
		t.Errorf("empty input produced %v", got)
	}
	// ticker with no analysis result is skipped, not ranked
	got := Rank([]string{"A", "B"}, map[string]types.AnalysisResult{"B": result(8, 0.5)}, 5, 0.1, 5)
	if len(got) != 1 || got[1] != "B" {
		t.Errorf("shortlist = %v", got)
	}
}
