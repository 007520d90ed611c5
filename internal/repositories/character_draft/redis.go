package characterdraft

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	redisclient "github.com/KirkDiggler/charforge/internal/redis"
)

const (
	draftKeyPrefix     = "draft:"
	characterKeyPrefix = "character:"
	snapshotKeySuffix  = ":snapshots"
	stepKeySegment     = ":step:"
	rollsKeySuffix     = ":rolls"

	// appendAttempts bounds the optimistic retries when a watched snapshot
	// hash changes between WATCH and EXEC
	appendAttempts = 3
)

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a Redis backed repository
func NewRedisRepository(client redisclient.Client) Repository {
	return &redisRepository{client: client}
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}

func draftStepKey(id string, step entities.Step) string {
	return draftKeyPrefix + id + stepKeySegment + string(step)
}

func rollsKey(draftID string) string {
	return draftKeyPrefix + draftID + rollsKeySuffix
}

func characterKey(id string) string {
	return characterKeyPrefix + id
}

func snapshotKey(characterID string) string {
	return characterKeyPrefix + characterID + snapshotKeySuffix
}

// Save writes the draft and, unless CursorOnly, its per-step copy in one MULTI/EXEC
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := checkSave(input); err != nil {
		return nil, err
	}

	writes, err := draftWrites(input.Draft, !input.CursorOnly)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	for key, data := range writes {
		pipe.Set(ctx, key, data, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to save draft %s", input.Draft.ID)
	}

	return &SaveOutput{}, nil
}

func draftWrites(d *entities.CharacterDraft, withStep bool) (map[string][]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal draft %s", d.ID)
	}
	writes := map[string][]byte{draftKey(d.ID): data}
	if !withStep {
		return writes, nil
	}
	if step, ok := d.LastCommittedStep(); ok {
		writes[draftStepKey(d.ID, step)] = data
	}
	return writes, nil
}

// Load reads the latest draft or the per-step copy
func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}

	key := draftKey(input.ID)
	if input.Step != "" {
		key = draftStepKey(input.ID, input.Step)
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redisclient.Nil) {
		return nil, errors.NotFoundf("draft %s not found", describeLoad(input))
	}
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to load draft %s", input.ID)
	}

	var draft entities.CharacterDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal draft %s", input.ID)
	}

	return &LoadOutput{Draft: &draft}, nil
}

// AppendSnapshot watches the snapshot hash so two appends of the same level
// cannot both succeed
func (r *redisRepository) AppendSnapshot(ctx context.Context, input *AppendSnapshotInput) (*AppendSnapshotOutput, error) {
	if err := checkAppend(input); err != nil {
		return nil, err
	}

	snapData, err := json.Marshal(input.Snapshot)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal snapshot %d", input.Snapshot.Level)
	}
	writes := make(map[string][]byte)
	if input.Character != nil {
		charData, err := json.Marshal(stripSnapshots(input.Character))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal character %s", input.CharacterID)
		}
		writes[characterKey(input.CharacterID)] = charData
	}
	if input.Draft != nil {
		draftData, err := draftWrites(input.Draft, true)
		if err != nil {
			return nil, err
		}
		for k, v := range draftData {
			writes[k] = v
		}
	}

	hashKey := snapshotKey(input.CharacterID)
	field := strconv.Itoa(input.Snapshot.Level)

	txf := func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, hashKey, field).Result()
		if err != nil {
			return err
		}
		if exists {
			return errors.DuplicateLevel(input.CharacterID, input.Snapshot.Level)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, hashKey, field, snapData)
			for key, data := range writes {
				pipe.Set(ctx, key, data, 0)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < appendAttempts; attempt++ {
		err = r.client.Watch(ctx, txf, hashKey)
		if !errors.Is(err, redisclient.TxFailedErr) {
			break
		}
	}
	switch {
	case err == nil:
		return &AppendSnapshotOutput{}, nil
	case errors.IsDuplicateLevel(err):
		return nil, err
	default:
		return nil, errors.PersistenceFailuref(err, "failed to append snapshot %d for %s", input.Snapshot.Level, input.CharacterID)
	}
}

// SaveCharacter overwrites the character record
func (r *redisRepository) SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*SaveCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if err := checkCharacter(input.Character); err != nil {
		return nil, err
	}

	data, err := json.Marshal(stripSnapshots(input.Character))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character %s", input.Character.ID)
	}
	if err := r.client.Set(ctx, characterKey(input.Character.ID), data, 0).Err(); err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to save character %s", input.Character.ID)
	}

	return &SaveCharacterOutput{}, nil
}

// LoadCharacter reads the character and its snapshot hash
func (r *redisRepository) LoadCharacter(ctx context.Context, input *LoadCharacterInput) (*LoadCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterEmpty)
	}

	pipe := r.client.TxPipeline()
	getCmd := pipe.Get(ctx, characterKey(input.ID))
	snapCmd := pipe.HGetAll(ctx, snapshotKey(input.ID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redisclient.Nil) {
		return nil, errors.PersistenceFailuref(err, "failed to load character %s", input.ID)
	}

	data, err := getCmd.Bytes()
	if errors.Is(err, redisclient.Nil) {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to load character %s", input.ID)
	}

	var character entities.Character
	if err := json.Unmarshal(data, &character); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character %s", input.ID)
	}
	snaps, err := decodeSnapshots(snapCmd.Val())
	if err != nil {
		return nil, err
	}
	character.Snapshots = snaps

	return &LoadCharacterOutput{Character: &character}, nil
}

// ListSnapshots returns the snapshot hash in level order
func (r *redisRepository) ListSnapshots(ctx context.Context, input *ListSnapshotsInput) (*ListSnapshotsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterEmpty)
	}

	raw, err := r.client.HGetAll(ctx, snapshotKey(input.CharacterID)).Result()
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to list snapshots for %s", input.CharacterID)
	}
	snaps, err := decodeSnapshots(raw)
	if err != nil {
		return nil, err
	}

	return &ListSnapshotsOutput{Snapshots: snaps}, nil
}

func decodeSnapshots(raw map[string]string) ([]entities.LevelSnapshot, error) {
	out := make([]entities.LevelSnapshot, 0, len(raw))
	for field, data := range raw {
		var snap entities.LevelSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal snapshot %s", field)
		}
		out = append(out, snap)
	}
	sortSnapshots(out)
	return out, nil
}

// SaveRollSession overwrites the rolls held for a draft
func (r *redisRepository) SaveRollSession(ctx context.Context, input *SaveRollSessionInput) (*SaveRollSessionOutput, error) {
	if err := checkRollSession(input); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal rolls for %s", input.Session.DraftID)
	}
	if err := r.client.Set(ctx, rollsKey(input.Session.DraftID), data, 0).Err(); err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to save rolls for %s", input.Session.DraftID)
	}

	return &SaveRollSessionOutput{}, nil
}

// LoadRollSession reads the rolls held for a draft
func (r *redisRepository) LoadRollSession(ctx context.Context, input *LoadRollSessionInput) (*LoadRollSessionOutput, error) {
	if err := checkLoadRollSession(input); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, rollsKey(input.DraftID)).Bytes()
	if errors.Is(err, redisclient.Nil) {
		return nil, errors.NotFoundf("no ability rolls for draft %s", input.DraftID)
	}
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to load rolls for %s", input.DraftID)
	}

	var session entities.AbilityRollSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal rolls for %s", input.DraftID)
	}

	return &LoadRollSessionOutput{Session: &session}, nil
}
