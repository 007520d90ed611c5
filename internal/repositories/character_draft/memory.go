package characterdraft

import (
	"context"
	"sync"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
)

type stepKey struct {
	id   string
	step entities.Step
}

// InMemoryRepository implements Repository in process memory. State does not
// survive a restart; it backs tests and throwaway sessions.
type InMemoryRepository struct {
	mu         sync.RWMutex
	drafts     map[string]*entities.CharacterDraft
	stepDrafts map[stepKey]*entities.CharacterDraft
	characters map[string]*entities.Character
	snapshots  map[string]map[int]entities.LevelSnapshot
	rolls      map[string]*entities.AbilityRollSession
}

// NewInMemory creates an empty in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		drafts:     make(map[string]*entities.CharacterDraft),
		stepDrafts: make(map[stepKey]*entities.CharacterDraft),
		characters: make(map[string]*entities.Character),
		snapshots:  make(map[string]map[int]entities.LevelSnapshot),
		rolls:      make(map[string]*entities.AbilityRollSession),
	}
}

// Save stores a copy of the draft
func (r *InMemoryRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := checkSave(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.PersistenceFailure(err, "save aborted")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.putDraft(input.Draft, !input.CursorOnly)

	return &SaveOutput{}, nil
}

func (r *InMemoryRepository) putDraft(d *entities.CharacterDraft, withStep bool) {
	r.drafts[d.ID] = d.Clone()
	if !withStep {
		return
	}
	if step, ok := d.LastCommittedStep(); ok {
		r.stepDrafts[stepKey{id: d.ID, step: step}] = d.Clone()
	}
}

// Load returns a copy of the stored draft
func (r *InMemoryRepository) Load(_ context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		draft *entities.CharacterDraft
		ok    bool
	)
	if input.Step == "" {
		draft, ok = r.drafts[input.ID]
	} else {
		draft, ok = r.stepDrafts[stepKey{id: input.ID, step: input.Step}]
	}
	if !ok {
		return nil, errors.NotFoundf("draft %s not found", describeLoad(input))
	}

	return &LoadOutput{Draft: draft.Clone()}, nil
}

// AppendSnapshot records a snapshot together with the optional character and
// draft writes
func (r *InMemoryRepository) AppendSnapshot(ctx context.Context, input *AppendSnapshotInput) (*AppendSnapshotOutput, error) {
	if err := checkAppend(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.PersistenceFailure(err, "append aborted")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	levels := r.snapshots[input.CharacterID]
	if _, exists := levels[input.Snapshot.Level]; exists {
		return nil, errors.DuplicateLevel(input.CharacterID, input.Snapshot.Level)
	}
	if levels == nil {
		levels = make(map[int]entities.LevelSnapshot)
		r.snapshots[input.CharacterID] = levels
	}
	levels[input.Snapshot.Level] = input.Snapshot.Clone()

	if input.Character != nil {
		r.characters[input.CharacterID] = stripSnapshots(input.Character)
	}
	if input.Draft != nil {
		r.putDraft(input.Draft, true)
	}

	return &AppendSnapshotOutput{}, nil
}

// SaveCharacter overwrites the character record. Snapshots are not touched.
func (r *InMemoryRepository) SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*SaveCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if err := checkCharacter(input.Character); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.PersistenceFailure(err, "save aborted")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.characters[input.Character.ID] = stripSnapshots(input.Character)

	return &SaveCharacterOutput{}, nil
}

// LoadCharacter returns a copy of the character with its snapshots
func (r *InMemoryRepository) LoadCharacter(_ context.Context, input *LoadCharacterInput) (*LoadCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.characters[input.ID]
	if !ok {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}
	character := stored.Clone()
	character.Snapshots = r.listSnapshots(input.ID)

	return &LoadCharacterOutput{Character: character}, nil
}

// ListSnapshots returns the snapshots of a character in level order
func (r *InMemoryRepository) ListSnapshots(_ context.Context, input *ListSnapshotsInput) (*ListSnapshotsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return &ListSnapshotsOutput{Snapshots: r.listSnapshots(input.CharacterID)}, nil
}

func (r *InMemoryRepository) listSnapshots(characterID string) []entities.LevelSnapshot {
	levels := r.snapshots[characterID]
	out := make([]entities.LevelSnapshot, 0, len(levels))
	for _, snap := range levels {
		out = append(out, snap.Clone())
	}
	sortSnapshots(out)
	return out
}

// SaveRollSession stores a copy of the rolls
func (r *InMemoryRepository) SaveRollSession(ctx context.Context, input *SaveRollSessionInput) (*SaveRollSessionOutput, error) {
	if err := checkRollSession(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.PersistenceFailure(err, "save aborted")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolls[input.Session.DraftID] = input.Session.Clone()

	return &SaveRollSessionOutput{}, nil
}

// LoadRollSession returns a copy of the rolls
func (r *InMemoryRepository) LoadRollSession(_ context.Context, input *LoadRollSessionInput) (*LoadRollSessionOutput, error) {
	if err := checkLoadRollSession(input); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.rolls[input.DraftID]
	if !ok {
		return nil, errors.NotFoundf("no ability rolls for draft %s", input.DraftID)
	}
	return &LoadRollSessionOutput{Session: session.Clone()}, nil
}

var _ Repository = (*InMemoryRepository)(nil)
