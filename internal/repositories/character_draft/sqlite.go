package characterdraft

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/pkg/sqlitemigrate"
	"github.com/KirkDiggler/charforge/internal/repositories/character_draft/migrations"
)

// SQLiteRepository implements Repository on a local SQLite file
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and applies the embedded migrations
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidArgument("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.PersistenceFailure(err, "failed to open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.PersistenceFailure(err, "failed to ping sqlite db")
	}
	if err := sqlitemigrate.ApplyMigrations(db, migrations.FS, ""); err != nil {
		_ = db.Close()
		return nil, errors.PersistenceFailure(err, "failed to run migrations")
	}
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// Save upserts the draft and, unless CursorOnly, its per-step copy in one transaction
func (r *SQLiteRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := checkSave(input); err != nil {
		return nil, err
	}

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		return putDraftTx(ctx, tx, input.Draft, !input.CursorOnly)
	})
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to save draft %s", input.Draft.ID)
	}

	return &SaveOutput{}, nil
}

func putDraftTx(ctx context.Context, tx *sql.Tx, d *entities.CharacterDraft, withStep bool) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	now := toMillis(d.UpdatedAt)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO drafts (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		d.ID, string(data), now,
	); err != nil {
		return err
	}
	if !withStep {
		return nil
	}
	step, ok := d.LastCommittedStep()
	if !ok {
		return nil
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO draft_steps (draft_id, step, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(draft_id, step) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		d.ID, string(step), string(data), now,
	)
	return err
}

func putCharacterTx(ctx context.Context, tx *sql.Tx, c *entities.Character) error {
	data, err := json.Marshal(stripSnapshots(c))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO characters (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		c.ID, string(data), toMillis(c.UpdatedAt),
	)
	return err
}

// Load reads the latest draft or the per-step copy
func (r *SQLiteRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}

	var row *sql.Row
	if input.Step == "" {
		row = r.db.QueryRowContext(ctx, `SELECT data FROM drafts WHERE id = ?`, input.ID)
	} else {
		row = r.db.QueryRowContext(ctx, `SELECT data FROM draft_steps WHERE draft_id = ? AND step = ?`, input.ID, string(input.Step))
	}

	var data string
	if err := row.Scan(&data); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("draft %s not found", describeLoad(input))
		}
		return nil, errors.PersistenceFailuref(err, "failed to load draft %s", input.ID)
	}

	var draft entities.CharacterDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal draft %s", input.ID)
	}

	return &LoadOutput{Draft: &draft}, nil
}

// AppendSnapshot inserts the snapshot and the optional character and draft
// writes in one transaction. The (character_id, level) key rejects duplicates.
func (r *SQLiteRepository) AppendSnapshot(ctx context.Context, input *AppendSnapshotInput) (*AppendSnapshotOutput, error) {
	if err := checkAppend(input); err != nil {
		return nil, err
	}

	snapData, err := json.Marshal(input.Snapshot)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal snapshot %d", input.Snapshot.Level)
	}

	err = r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO level_snapshots (character_id, level, data, created_at) VALUES (?, ?, ?, ?)`,
			input.CharacterID, input.Snapshot.Level, string(snapData), toMillis(input.Snapshot.CreatedAt),
		); err != nil {
			if isUniqueViolation(err) {
				return errors.DuplicateLevel(input.CharacterID, input.Snapshot.Level)
			}
			return err
		}
		if input.Character != nil {
			if err := putCharacterTx(ctx, tx, input.Character); err != nil {
				return err
			}
		}
		if input.Draft != nil {
			return putDraftTx(ctx, tx, input.Draft, true)
		}
		return nil
	})
	switch {
	case err == nil:
		return &AppendSnapshotOutput{}, nil
	case errors.IsDuplicateLevel(err):
		return nil, err
	default:
		return nil, errors.PersistenceFailuref(err, "failed to append snapshot %d for %s", input.Snapshot.Level, input.CharacterID)
	}
}

// SaveCharacter upserts the character record
func (r *SQLiteRepository) SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*SaveCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if err := checkCharacter(input.Character); err != nil {
		return nil, err
	}

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		return putCharacterTx(ctx, tx, input.Character)
	})
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to save character %s", input.Character.ID)
	}

	return &SaveCharacterOutput{}, nil
}

// LoadCharacter reads the character and attaches its snapshots
func (r *SQLiteRepository) LoadCharacter(ctx context.Context, input *LoadCharacterInput) (*LoadCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterEmpty)
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM characters WHERE id = ?`, input.ID).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to load character %s", input.ID)
	}

	var character entities.Character
	if err := json.Unmarshal([]byte(data), &character); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character %s", input.ID)
	}
	snaps, err := r.snapshots(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	character.Snapshots = snaps

	return &LoadCharacterOutput{Character: &character}, nil
}

// ListSnapshots returns the snapshots of a character in level order
func (r *SQLiteRepository) ListSnapshots(ctx context.Context, input *ListSnapshotsInput) (*ListSnapshotsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterEmpty)
	}

	snaps, err := r.snapshots(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	return &ListSnapshotsOutput{Snapshots: snaps}, nil
}

func (r *SQLiteRepository) snapshots(ctx context.Context, characterID string) ([]entities.LevelSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM level_snapshots WHERE character_id = ? ORDER BY level`, characterID)
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to list snapshots for %s", characterID)
	}
	defer func() { _ = rows.Close() }()

	out := make([]entities.LevelSnapshot, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.PersistenceFailuref(err, "failed to scan snapshot for %s", characterID)
		}
		var snap entities.LevelSnapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal snapshot for %s", characterID)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to list snapshots for %s", characterID)
	}
	return out, nil
}

// SaveRollSession upserts the rolls held for a draft
func (r *SQLiteRepository) SaveRollSession(ctx context.Context, input *SaveRollSessionInput) (*SaveRollSessionOutput, error) {
	if err := checkRollSession(input); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal rolls for %s", input.Session.DraftID)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO ability_rolls (draft_id, data, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(draft_id) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
		input.Session.DraftID, string(data), toMillis(input.Session.CreatedAt),
	); err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to save rolls for %s", input.Session.DraftID)
	}

	return &SaveRollSessionOutput{}, nil
}

// LoadRollSession reads the rolls held for a draft
func (r *SQLiteRepository) LoadRollSession(ctx context.Context, input *LoadRollSessionInput) (*LoadRollSessionOutput, error) {
	if err := checkLoadRollSession(input); err != nil {
		return nil, err
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM ability_rolls WHERE draft_id = ?`, input.DraftID).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("no ability rolls for draft %s", input.DraftID)
	}
	if err != nil {
		return nil, errors.PersistenceFailuref(err, "failed to load rolls for %s", input.DraftID)
	}

	var session entities.AbilityRollSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal rolls for %s", input.DraftID)
	}

	return &LoadRollSessionOutput{Session: &session}, nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ Repository = (*SQLiteRepository)(nil)
