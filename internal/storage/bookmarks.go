package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyToken is returned when bookmarking the root location.
var ErrEmptyToken = errors.New("empty token")

// Bookmark is a saved navigation token.
type Bookmark struct {
	ID        int64
	Token     string
	Title     string
	Tags      []string
	CreatedAt time.Time
}

// BookmarkStore keeps bookmarks keyed by token.
type BookmarkStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewBookmarkStore creates a bookmark store on db.
func NewBookmarkStore(db *DB) *BookmarkStore {
	return &BookmarkStore{db: db.Conn(), now: time.Now}
}

// Add saves token under title. It reports false when the token was
// already bookmarked; the existing title is kept.
func (bs *BookmarkStore) Add(ctx context.Context, token, title string, tags ...string) (bool, error) {
	if token == "" {
		return false, ErrEmptyToken
	}
	res, err := bs.db.ExecContext(ctx,
		`INSERT INTO bookmarks (token, title, tags, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(token) DO NOTHING`,
		token, title, strings.Join(tags, ","), bs.now().UnixNano())
	if err != nil {
		return false, fmt.Errorf("adding bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Remove deletes the bookmark for token, reporting whether one existed.
func (bs *BookmarkStore) Remove(ctx context.Context, token string) (bool, error) {
	res, err := bs.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE token = ?`, token)
	if err != nil {
		return false, fmt.Errorf("removing bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Has reports whether token is bookmarked.
func (bs *BookmarkStore) Has(ctx context.Context, token string) (bool, error) {
	var one int
	err := bs.db.QueryRowContext(ctx, `SELECT 1 FROM bookmarks WHERE token = ?`, token).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// List returns every bookmark, newest first.
func (bs *BookmarkStore) List(ctx context.Context) ([]Bookmark, error) {
	return bs.query(ctx,
		`SELECT id, token, title, tags, created_at FROM bookmarks ORDER BY id DESC`)
}

// Search returns bookmarks whose token, title or tags contain query.
func (bs *BookmarkStore) Search(ctx context.Context, query string) ([]Bookmark, error) {
	like := "%" + escapeLike(query) + "%"
	return bs.query(ctx,
		`SELECT id, token, title, tags, created_at FROM bookmarks
		 WHERE token LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\'
		 ORDER BY id DESC`,
		like, like, like)
}

// Count returns the number of bookmarks.
func (bs *BookmarkStore) Count(ctx context.Context) (int, error) {
	var n int
	err := bs.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&n)
	return n, err
}

func (bs *BookmarkStore) query(ctx context.Context, q string, args ...any) ([]Bookmark, error) {
	rows, err := bs.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var (
			b     Bookmark
			tags  string
			nanos int64
		)
		if err := rows.Scan(&b.ID, &b.Token, &b.Title, &tags, &nanos); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		if tags != "" {
			b.Tags = strings.Split(tags, ",")
		}
		b.CreatedAt = time.Unix(0, nanos)
		out = append(out, b)
	}
	return out, rows.Err()
}
