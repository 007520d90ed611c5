package rules

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
)

type key struct {
	id      string
	version string
}

// Registry holds every loaded ruleset and dispatches validation by
// (id, version). It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	rulesets map[key]Ruleset
}

// NewRegistry creates a registry preloaded with rulesets
func NewRegistry(rulesets ...Ruleset) (*Registry, error) {
	r := &Registry{rulesets: make(map[key]Ruleset)}
	for _, rs := range rulesets {
		if err := r.Register(rs); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a ruleset. Registering the same (id, version) twice fails.
func (r *Registry) Register(rs Ruleset) error {
	if rs == nil {
		return errors.InvalidArgument("ruleset is required")
	}

	k := key{id: rs.ID(), version: rs.Version()}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rulesets[k]; exists {
		return errors.AlreadyExistsf("ruleset %s@%s already registered", k.id, k.version)
	}
	r.rulesets[k] = rs

	slog.Debug("Ruleset registered", "ruleset_id", k.id, "ruleset_version", k.version)
	return nil
}

// Get returns the ruleset for (id, version)
func (r *Registry) Get(rulesetID, version string) (Ruleset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.rulesets[key{id: rulesetID, version: version}]
	if !ok {
		return nil, errors.RulesetNotFound(rulesetID, version)
	}
	return rs, nil
}

// List returns descriptors sorted by id then version
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.rulesets))
	for _, rs := range r.rulesets {
		out = append(out, rs.Describe())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Version < out[j].Version
	})
	return out
}

// Validate dispatches to the ruleset named by the input
func (r *Registry) Validate(ctx context.Context, input *ValidateInput) (*entities.ValidationResult, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeCanceled, "validation canceled")
	}

	rs, err := r.Get(input.RulesetID, input.RulesetVersion)
	if err != nil {
		return nil, err
	}

	return rs.Validate(input)
}
