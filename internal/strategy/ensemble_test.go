package strategy

import (
	"strings"
	"testing"

	"momentum-scout/internal/types"
)

// stubStrategy returns a canned verdict, used to drive the ensemble truth
// tables without crafting price series.
type stubStrategy struct {
	name    string
	verdict types.Verdict
}

func (s stubStrategy) Name() string                      { return s.name }
func (s stubStrategy) Evaluate(types.Series) types.Verdict { return s.verdict }

func stubEnsemble(mode EnsembleMode, passes ...bool) *Ensemble {
	members := make([]Strategy, len(passes))
	for i, p := range passes {
		members[i] = stubStrategy{
			name:    string(rune('a' + i)),
			verdict: types.Verdict{PassFilter: p, Reason: "r"},
		}
	}
	name := "any"
	if mode == ModeAll {
		name = "all"
	}
	return &Ensemble{name: name, mode: mode, members: members}
}

func TestEnsembleAnyIsLogicalOR(t *testing.T) {
	combos := [][]bool{
		{false, false, false, false},
		{true, false, false, false},
		{false, false, true, false},
		{true, true, true, true},
	}
	for _, combo := range combos {
		want := false
		for _, p := range combo {
			want = want || p
		}
		got := stubEnsemble(ModeAny, combo...).Evaluate(nil).PassFilter
		if got != want {
			t.Errorf("any%v = %v, want %v", combo, got, want)
		}
	}
}

func TestEnsembleAllIsLogicalAND(t *testing.T) {
	combos := [][]bool{
		{false, false, false, false},
		{true, true, true, false},
		{true, true, true, true},
	}
	for _, combo := range combos {
		want := true
		for _, p := range combo {
			want = want && p
		}
		got := stubEnsemble(ModeAll, combo...).Evaluate(nil).PassFilter
		if got != want {
			t.Errorf("all%v = %v, want %v", combo, got, want)
		}
	}
}

func TestEnsembleMetricCollisionLastWriterWins(t *testing.T) {
	e := &Ensemble{name: "any", mode: ModeAny, members: []Strategy{
		stubStrategy{name: "first", verdict: types.Verdict{
			Metrics: map[string]any{"RSI": 40.0, "RVOL": 1.5}, Reason: "one",
		}},
		stubStrategy{name: "second", verdict: types.Verdict{
			Metrics: map[string]any{"RSI": 55.0}, Reason: "two",
		}},
	}}

	v := e.Evaluate(nil)
	if v.Metrics["RSI"] != 55.0 {
		t.Errorf("RSI = %v, want later strategy's 55.0", v.Metrics["RSI"])
	}
	if v.Metrics["RVOL"] != 1.5 {
		t.Errorf("RVOL = %v, want 1.5 preserved", v.Metrics["RVOL"])
	}
}

func TestEnsembleReasonConcatenatesAllMembers(t *testing.T) {
	v := NewEnsemble("all", ModeAll).Evaluate(nil)
	for _, name := range []string{"explosive_breakout", "golden_momentum", "reversal_hunter", "trendsurfer"} {
		if !strings.Contains(v.Reason, name) {
			t.Errorf("reason %q missing member %s", v.Reason, name)
		}
	}
}

func TestEnsembleUsesFourAtomics(t *testing.T) {
	atomics := Atomics()
	if len(atomics) != 4 {
		t.Fatalf("atomics = %d, want 4", len(atomics))
	}
	for _, st := range atomics {
		if _, isEnsemble := st.(*Ensemble); isEnsemble {
			t.Errorf("%s: ensembles must not recurse into ensembles", st.Name())
		}
	}
}
