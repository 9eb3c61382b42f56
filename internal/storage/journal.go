package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultJournalSize is the number of entries kept when no limit is given.
const DefaultJournalSize = 1000

// JournalEntry is one fired navigation event.
type JournalEntry struct {
	ID          int64
	Event       string
	Token       string
	Querystring string
	Params      map[string]string
	FiredAt     time.Time
}

// Journal is an append-only audit log of navigation events, trimmed to
// the newest maxSize entries. It is never replayed into history.
type Journal struct {
	db      *sql.DB
	maxSize int
}

// NewJournal creates a journal keeping up to maxSize entries. Zero or
// less means DefaultJournalSize.
func NewJournal(db *DB, maxSize int) *Journal {
	if maxSize <= 0 {
		maxSize = DefaultJournalSize
	}
	return &Journal{db: db.Conn(), maxSize: maxSize}
}

// Record appends e and drops entries beyond the size limit.
func (j *Journal) Record(ctx context.Context, e JournalEntry) error {
	if e.FiredAt.IsZero() {
		e.FiredAt = time.Now()
	}
	params := e.Params
	if params == nil {
		params = map[string]string{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting journal write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO navigation_events (event, token, querystring, params, fired_at) VALUES (?, ?, ?, ?, ?)`,
		e.Event, e.Token, e.Querystring, string(data), e.FiredAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("recording navigation event: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM navigation_events WHERE id NOT IN (
			SELECT id FROM navigation_events ORDER BY id DESC LIMIT ?
		)`, j.maxSize,
	); err != nil {
		return fmt.Errorf("trimming journal: %w", err)
	}

	return tx.Commit()
}

// Recent returns up to limit entries, newest first. A limit of zero or
// less returns everything kept.
func (j *Journal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = j.maxSize
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, event, token, querystring, params, fired_at
		 FROM navigation_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing journal: %w", err)
	}
	defer rows.Close()
	return scanJournal(rows)
}

// Search returns entries whose token contains query, newest first.
func (j *Journal) Search(ctx context.Context, query string) ([]JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, event, token, querystring, params, fired_at
		 FROM navigation_events WHERE token LIKE ? ESCAPE '\' ORDER BY id DESC`,
		"%"+escapeLike(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("searching journal: %w", err)
	}
	defer rows.Close()
	return scanJournal(rows)
}

// Count returns the number of entries kept.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM navigation_events`).Scan(&n)
	return n, err
}

// Clear removes every entry.
func (j *Journal) Clear(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `DELETE FROM navigation_events`)
	return err
}

func scanJournal(rows *sql.Rows) ([]JournalEntry, error) {
	var entries []JournalEntry
	for rows.Next() {
		var (
			e      JournalEntry
			params string
			nanos  int64
		)
		if err := rows.Scan(&e.ID, &e.Event, &e.Token, &e.Querystring, &params, &nanos); err != nil {
			return nil, fmt.Errorf("scanning journal: %w", err)
		}
		if err := json.Unmarshal([]byte(params), &e.Params); err != nil {
			return nil, fmt.Errorf("decoding params of entry %d: %w", e.ID, err)
		}
		if len(e.Params) == 0 {
			e.Params = nil
		}
		e.FiredAt = time.Unix(0, nanos)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
