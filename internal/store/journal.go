package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"folio/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// DefaultJournalMax bounds the journal to its most recent entries.
const DefaultJournalMax = 10000

// Event is one journal entry describing a successful store mutation.
type Event struct {
	Seq      int64           `json:"seq"`
	EventID  string          `json:"eventId"`
	Kind     model.Kind      `json:"kind"`
	EntityID string          `json:"entityId"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	TS       time.Time       `json:"ts"`
}

const (
	EventRecordAdd      = "record.add"
	EventRecordUpdate   = "record.update"
	EventRecordDelete   = "record.delete"
	EventRecordSwap     = "record.swap"
	EventRecordMove     = "record.move"
	EventRecordReorder  = "record.reorder"
	EventCategoryChange = "category.change"
	EventSettingsSort   = "settings.sort"
)

// Journal is a bounded, append-only sqlite log of mutations. A nil *Journal accepts appends and
// discards them, so callers never need to check whether journaling is enabled.
type Journal struct {
	db  *sql.DB
	max int
	log *zap.Logger
	now func() time.Time
}

type JournalOptions struct {
	// Max is the number of most recent events kept. <=0 means DefaultJournalMax.
	Max    int
	Logger *zap.Logger
}

func OpenJournal(ctx context.Context, path string, opts JournalOptions) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal pragma: %w", err)
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal migrate: %w", err)
	}

	keep := opts.Max
	if keep <= 0 {
		keep = DefaultJournalMax
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Journal{db: db, max: keep, log: log, now: time.Now}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			type TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			ts_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind, seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

// Append records one event and prunes everything older than the newest j.max entries.
func (j *Journal) Append(ctx context.Context, kind model.Kind, entityID int, typ string, payload any) error {
	if j == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("journal payload: %w", err)
	}
	ent := ""
	if entityID > 0 {
		ent = strconv.Itoa(entityID)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events(event_id, kind, entity_id, type, payload_json, ts_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), string(kind), ent, typ, string(b), j.now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM events WHERE seq <= (SELECT seq FROM events ORDER BY seq DESC LIMIT 1 OFFSET ?)`,
		j.max,
	); err != nil {
		return fmt.Errorf("journal prune: %w", err)
	}
	return tx.Commit()
}

// record appends and logs failures instead of returning them. Journaling never fails a mutation
// that has already been persisted.
func (j *Journal) record(kind model.Kind, entityID int, typ string, payload any) {
	if j == nil {
		return
	}
	if err := j.Append(context.Background(), kind, entityID, typ, payload); err != nil {
		j.log.Warn("journal append failed",
			zap.String("kind", string(kind)),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}

type ListOptions struct {
	// Kind filters by record kind when non-empty.
	Kind model.Kind
	// Limit returns only the newest Limit events. <=0 means all retained events.
	Limit int
}

// List returns retained events oldest first.
func (j *Journal) List(ctx context.Context, opts ListOptions) ([]Event, error) {
	if j == nil {
		return []Event{}, nil
	}
	q := `SELECT seq, event_id, kind, entity_id, type, payload_json, ts_unixms FROM events`
	var args []any
	if opts.Kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, string(opts.Kind))
	}
	q += ` ORDER BY seq DESC`
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var (
			ev      Event
			kind    string
			payload string
			ts      int64
		)
		if err := rows.Scan(&ev.Seq, &ev.EventID, &kind, &ev.EntityID, &ev.Type, &payload, &ts); err != nil {
			return nil, err
		}
		ev.Kind = model.Kind(kind)
		ev.Payload = json.RawMessage(payload)
		ev.TS = time.UnixMilli(ts).UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	return out, nil
}

// Count returns the number of retained events.
func (j *Journal) Count(ctx context.Context) (int, error) {
	if j == nil {
		return 0, nil
	}
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
