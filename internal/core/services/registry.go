package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/hira-cli/internal/core/domain"
)

// StageRegistry is the static, ordered catalog of valid stages and the
// transitions permitted between them. It is pure and immutable after
// construction; configuration reloads build a fresh registry.
type StageRegistry struct {
	allowAny bool
	stages   map[domain.Stage]domain.StageDefinition
	ordered  []domain.StageDefinition
}

// NewStageRegistry builds a registry from a board configuration. It
// fails with domain.ErrConfiguration when the config is malformed:
// no stages, duplicate identifiers or ranks, or transition targets
// referencing unknown stages.
func NewStageRegistry(cfg domain.BoardConfig) (*StageRegistry, error) {
	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("%w: no stages defined", domain.ErrConfiguration)
	}

	stages := make(map[domain.Stage]domain.StageDefinition, len(cfg.Stages))
	ranks := make(map[int]domain.Stage, len(cfg.Stages))
	for _, def := range cfg.Stages {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: stage with empty id", domain.ErrConfiguration)
		}
		if _, ok := stages[def.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate stage %q", domain.ErrConfiguration, def.ID)
		}
		if other, ok := ranks[def.Rank]; ok {
			return nil, fmt.Errorf("%w: stages %q and %q share rank %d",
				domain.ErrConfiguration, other, def.ID, def.Rank)
		}
		stages[def.ID] = def
		ranks[def.Rank] = def.ID
	}

	for _, def := range cfg.Stages {
		for _, target := range def.TransitionsTo {
			if _, ok := stages[target]; !ok {
				return nil, fmt.Errorf("%w: stage %q allows transition to unknown stage %q",
					domain.ErrConfiguration, def.ID, target)
			}
		}
	}

	ordered := make([]domain.StageDefinition, len(cfg.Stages))
	copy(ordered, cfg.Stages)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Rank < ordered[j].Rank })

	return &StageRegistry{
		allowAny: cfg.AllowAny,
		stages:   stages,
		ordered:  ordered,
	}, nil
}

// Has reports whether the stage is defined.
func (r *StageRegistry) Has(stage domain.Stage) bool {
	_, ok := r.stages[stage]
	return ok
}

// IsTransitionAllowed reports whether an item may move from one stage
// to another. Same-stage moves (reorders) are always allowed. Undefined
// stage identifiers fail with domain.ErrConfiguration.
func (r *StageRegistry) IsTransitionAllowed(from, to domain.Stage) (bool, error) {
	src, ok := r.stages[from]
	if !ok {
		return false, fmt.Errorf("%w: unknown stage %q", domain.ErrConfiguration, from)
	}
	if _, ok := r.stages[to]; !ok {
		return false, fmt.Errorf("%w: unknown stage %q", domain.ErrConfiguration, to)
	}

	if from == to {
		return true, nil
	}
	if r.allowAny {
		return true, nil
	}

	for _, target := range src.TransitionsTo {
		if target == to {
			return true, nil
		}
	}
	return false, nil
}

// OrderedStages returns the stage definitions in display order
// (ascending rank).
func (r *StageRegistry) OrderedStages() []domain.StageDefinition {
	out := make([]domain.StageDefinition, len(r.ordered))
	copy(out, r.ordered)
	return out
}
