package strategy

import (
	"fmt"
	"strings"

	"momentum-scout/internal/types"
)

// EnsembleMode picks how atomic verdicts combine.
type EnsembleMode int

const (
	// ModeAny passes when at least one atomic strategy passes.
	ModeAny EnsembleMode = iota
	// ModeAll passes only when every atomic strategy passes.
	ModeAll
)

// Ensemble composes the atomic strategies with boolean semantics. Ensembles
// only ever recurse into atomic strategies, never into other ensembles.
type Ensemble struct {
	name    string
	mode    EnsembleMode
	members []Strategy
}

func NewEnsemble(name string, mode EnsembleMode) *Ensemble {
	return &Ensemble{name: name, mode: mode, members: Atomics()}
}

func (e *Ensemble) Name() string { return e.name }

func (e *Ensemble) Evaluate(s types.Series) types.Verdict {
	merged := map[string]any{}
	reasons := make([]string, 0, len(e.members))

	pass := e.mode == ModeAll
	for _, member := range e.members {
		v := member.Evaluate(s)
		// later strategies overwrite colliding metric names
		for k, val := range v.Metrics {
			merged[k] = val
		}
		reasons = append(reasons, fmt.Sprintf("%s: %s", member.Name(), v.Reason))
		if e.mode == ModeAny {
			pass = pass || v.PassFilter
		} else {
			pass = pass && v.PassFilter
		}
	}

	return types.Verdict{
		PassFilter: pass,
		Metrics:    merged,
		Reason:     strings.Join(reasons, "; "),
	}
}

// Atomics returns fresh instances of the four atomic strategies in their
// canonical evaluation order.
func Atomics() []Strategy {
	return []Strategy{
		ExplosiveBreakout{},
		GoldenMomentum{},
		ReversalHunter{},
		TrendSurfer{},
	}
}

// Select resolves a configured strategy name against the closed registry.
// Unknown names are an explicit configuration error.
func Select(name string) (Strategy, error) {
	switch name {
	case "explosive_breakout":
		return ExplosiveBreakout{}, nil
	case "golden_momentum":
		return GoldenMomentum{}, nil
	case "reversal_hunter":
		return ReversalHunter{}, nil
	case "trendsurfer":
		return TrendSurfer{}, nil
	case "any":
		return NewEnsemble("any", ModeAny), nil
	case "all":
		return NewEnsemble("all", ModeAll), nil
	}
	return nil, fmt.Errorf("unknown strategy %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// Names lists every selectable strategy name.
func Names() []string {
	return []string{"explosive_breakout", "golden_momentum", "reversal_hunter", "trendsurfer", "any", "all"}
}
