// Package characterdraft persists character drafts, characters and their
// per-level snapshots.
package characterdraft

import (
	"context"
	"sort"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=characterdraftmock github.com/KirkDiggler/charforge/internal/repositories/character_draft Repository

// Repository is the draft store contract. Every write is atomic: readers
// never observe a partially written draft or character.
type Repository interface {
	// Save overwrites the draft and records a copy keyed by its most
	// recently committed step
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Load returns the latest draft, or the draft as of a committed step
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// AppendSnapshot adds a level snapshot. It fails with DuplicateLevel when
	// the level is already recorded. Character and Draft, when set, are
	// written in the same transaction.
	AppendSnapshot(ctx context.Context, input *AppendSnapshotInput) (*AppendSnapshotOutput, error)

	SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*SaveCharacterOutput, error)

	// LoadCharacter returns the character with its snapshots in level order
	LoadCharacter(ctx context.Context, input *LoadCharacterInput) (*LoadCharacterOutput, error)

	ListSnapshots(ctx context.Context, input *ListSnapshotsInput) (*ListSnapshotsOutput, error)

	// SaveRollSession replaces the ability rolls held for a draft
	SaveRollSession(ctx context.Context, input *SaveRollSessionInput) (*SaveRollSessionOutput, error)

	// LoadRollSession fails with NotFound when the draft has not rolled
	LoadRollSession(ctx context.Context, input *LoadRollSessionInput) (*LoadRollSessionOutput, error)
}

// SaveInput defines the input for saving a draft
type SaveInput struct {
	Draft *entities.CharacterDraft
	// CursorOnly writes the latest draft and leaves the per-step copy alone.
	// Set it when the save commits no step, such as moving back.
	CursorOnly bool
}

// SaveOutput defines the output of saving a draft
type SaveOutput struct{}

// LoadInput defines the input for loading a draft
type LoadInput struct {
	ID string
	// Step selects the draft as it was when Step was last committed
	Step entities.Step
}

// LoadOutput defines the output of loading a draft
type LoadOutput struct {
	Draft *entities.CharacterDraft
}

// AppendSnapshotInput defines the input for appending a snapshot
type AppendSnapshotInput struct {
	CharacterID string
	Snapshot    entities.LevelSnapshot
	Character   *entities.Character
	Draft       *entities.CharacterDraft
}

// AppendSnapshotOutput defines the output of appending a snapshot
type AppendSnapshotOutput struct{}

// SaveCharacterInput defines the input for saving a character
type SaveCharacterInput struct {
	Character *entities.Character
}

// SaveCharacterOutput defines the output of saving a character
type SaveCharacterOutput struct{}

// LoadCharacterInput defines the input for loading a character
type LoadCharacterInput struct {
	ID string
}

// LoadCharacterOutput defines the output of loading a character
type LoadCharacterOutput struct {
	Character *entities.Character
}

// ListSnapshotsInput defines the input for listing snapshots
type ListSnapshotsInput struct {
	CharacterID string
}

// ListSnapshotsOutput defines the output of listing snapshots
type ListSnapshotsOutput struct {
	Snapshots []entities.LevelSnapshot
}

// SaveRollSessionInput defines the input for saving ability rolls
type SaveRollSessionInput struct {
	Session *entities.AbilityRollSession
}

// SaveRollSessionOutput defines the output of saving ability rolls
type SaveRollSessionOutput struct{}

// LoadRollSessionInput defines the input for loading ability rolls
type LoadRollSessionInput struct {
	DraftID string
}

// LoadRollSessionOutput defines the output of loading ability rolls
type LoadRollSessionOutput struct {
	Session *entities.AbilityRollSession
}

const (
	errInputRequired  = "input is required"
	errDraftNil       = "draft cannot be nil"
	errDraftIDEmpty   = "draft ID cannot be empty"
	errCharacterNil   = "character cannot be nil"
	errCharacterEmpty = "character ID cannot be empty"
	errLevelInvalid   = "snapshot level must be at least 1"
)

func checkSave(input *SaveInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputRequired)
	}
	if input.Draft == nil {
		return errors.InvalidArgument(errDraftNil)
	}
	if input.Draft.ID == "" {
		return errors.InvalidArgument(errDraftIDEmpty)
	}
	return nil
}

func checkRollSession(input *SaveRollSessionInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputRequired)
	}
	if input.Session == nil {
		return errors.InvalidArgument("roll session cannot be nil")
	}
	if input.Session.DraftID == "" {
		return errors.InvalidArgument(errDraftIDEmpty)
	}
	return nil
}

func checkLoadRollSession(input *LoadRollSessionInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputRequired)
	}
	if input.DraftID == "" {
		return errors.InvalidArgument(errDraftIDEmpty)
	}
	return nil
}

func checkAppend(input *AppendSnapshotInput) error {
	if input == nil {
		return errors.InvalidArgument(errInputRequired)
	}
	if input.CharacterID == "" {
		return errors.InvalidArgument(errCharacterEmpty)
	}
	if input.Snapshot.Level < 1 {
		return errors.InvalidArgument(errLevelInvalid)
	}
	if input.Character != nil && input.Character.ID != input.CharacterID {
		return errors.InvalidArgument("character ID does not match snapshot owner")
	}
	if input.Draft != nil && input.Draft.ID == "" {
		return errors.InvalidArgument(errDraftIDEmpty)
	}
	return nil
}

func checkCharacter(c *entities.Character) error {
	if c == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if c.ID == "" {
		return errors.InvalidArgument(errCharacterEmpty)
	}
	return nil
}

// stripSnapshots returns a copy of c without snapshots. Snapshots are stored
// on their own and reattached by LoadCharacter.
func stripSnapshots(c *entities.Character) *entities.Character {
	out := c.Clone()
	out.Snapshots = nil
	return out
}

func sortSnapshots(snaps []entities.LevelSnapshot) {
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Level < snaps[j].Level })
}

func describeLoad(input *LoadInput) string {
	if input.Step == "" {
		return input.ID
	}
	return input.ID + "@" + string(input.Step)
}
