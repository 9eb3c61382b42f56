package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDBIsReopenable(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenDB(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "navsync.db"), db.Path())
	v, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
	require.NoError(t, db.Close())

	db, err = OpenDB(dir)
	require.NoError(t, err)
	v, err = db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v, "migrations are not reapplied")
	require.NoError(t, db.Close())
}

func TestOpenDBRejectsNewerSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenDB(dir)
	require.NoError(t, err)
	_, err = db.Conn().Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations)+1))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenDB(dir)
	assert.ErrorContains(t, err, "newer than this build")
}

func TestJournalRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(openTestDB(t), 10)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.Record(ctx, JournalEntry{
		Event: "nav", Token: "home", FiredAt: at,
	}))
	require.NoError(t, j.Record(ctx, JournalEntry{
		Event:       "nav",
		Token:       "search",
		Querystring: "q=widgets",
		Params:      map[string]string{"q": "widgets"},
		FiredAt:     at.Add(time.Second),
	}))

	got, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "search", got[0].Token)
	assert.Equal(t, "q=widgets", got[0].Querystring)
	assert.Equal(t, map[string]string{"q": "widgets"}, got[0].Params)
	assert.True(t, got[0].FiredAt.Equal(at.Add(time.Second)))

	assert.Equal(t, "home", got[1].Token)
	assert.Nil(t, got[1].Params)

	limited, err := j.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "search", limited[0].Token)
}

func TestJournalTrimsToMaxSize(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(openTestDB(t), 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, JournalEntry{Event: "nav", Token: fmt.Sprintf("t%d", i)}))
	}

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	var tokens []string
	for _, e := range got {
		tokens = append(tokens, e.Token)
	}
	assert.Equal(t, []string{"t4", "t3", "t2"}, tokens)
}

func TestJournalSearchAndClear(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(openTestDB(t), 0)

	for _, tok := range []string{"inbox", "inbox_archive", "settings", "100%"} {
		require.NoError(t, j.Record(ctx, JournalEntry{Event: "nav", Token: tok}))
	}

	got, err := j.Search(ctx, "inbox")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = j.Search(ctx, "x_a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "inbox_archive", got[0].Token)

	got, err = j.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100%", got[0].Token)

	require.NoError(t, j.Clear(ctx))
	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBookmarks(t *testing.T) {
	ctx := context.Background()
	bs := NewBookmarkStore(openTestDB(t))

	added, err := bs.Add(ctx, "search?q=widgets", "Widgets", "shop", "saved")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = bs.Add(ctx, "settings", "Settings")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = bs.Add(ctx, "settings", "Again")
	require.NoError(t, err)
	assert.False(t, added, "duplicate")

	_, err = bs.Add(ctx, "", "Empty")
	assert.ErrorIs(t, err, ErrEmptyToken)

	n, err := bs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	has, err := bs.Has(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = bs.Has(ctx, "inbox")
	require.NoError(t, err)
	assert.False(t, has)

	list, err := bs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "settings", list[0].Token)
	assert.Equal(t, "Settings", list[0].Title, "duplicate keeps the first title")
	assert.Equal(t, "Widgets", list[1].Title)
	assert.Equal(t, []string{"shop", "saved"}, list[1].Tags)
	assert.False(t, list[1].CreatedAt.IsZero())

	found, err := bs.Search(ctx, "shop")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "search?q=widgets", found[0].Token)

	found, err = bs.Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found, "wildcards are literal")

	removed, err := bs.Remove(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = bs.Remove(ctx, "settings")
	require.NoError(t, err)
	assert.False(t, removed)
}
