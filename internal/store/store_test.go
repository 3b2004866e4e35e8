package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verseforge/verseforge/internal/extract"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(ctx))
	return store
}

func sampleDoc(id string) Document {
	return Document{
		ID: id,
		Record: extract.VerseRecord{
			TopicID:       id,
			TopicName:     "Creation",
			VerseRef:      "Genesis 1:1",
			ScriptureText: "In the beginning...",
			Religion:      "Christianity",
			Qualities:     "power, creation",
			Meaning:       "God creates everything.",
			Book:          "Genesis",
			Chapter:       "1",
			Tags:          "creation",
		},
	}
}

func TestStore_Migrate_Idempotent(t *testing.T) {
	store := newTestStore(t)
	// Re-running must be a no-op, not an error.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestStore_UpsertVerse(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("insert and fetch", func(t *testing.T) {
		doc := sampleDoc("bible_Genesis_1_1")
		require.NoError(t, store.UpsertVerse(ctx, "bible_verses", doc))

		got, err := store.GetVerse(ctx, "bible_verses", "bible_Genesis_1_1")
		require.NoError(t, err)
		assert.Equal(t, doc.Record, got)
	})

	t.Run("overwrite on conflict", func(t *testing.T) {
		doc := sampleDoc("bible_Genesis_1_2")
		require.NoError(t, store.UpsertVerse(ctx, "bible_verses", doc))

		doc.Record.Meaning = "Revised meaning."
		require.NoError(t, store.UpsertVerse(ctx, "bible_verses", doc))

		got, err := store.GetVerse(ctx, "bible_verses", "bible_Genesis_1_2")
		require.NoError(t, err)
		assert.Equal(t, "Revised meaning.", got.Meaning)

		count, err := store.CountVerses(ctx, "bible_verses")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("same id in another collection is a distinct document", func(t *testing.T) {
		doc := sampleDoc("bible_Genesis_1_1")
		require.NoError(t, store.UpsertVerse(ctx, "other_verses", doc))

		count, err := store.CountVerses(ctx, "other_verses")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		err := store.UpsertVerse(ctx, "bible_verses", Document{})
		assert.Error(t, err)
	})
}

func TestStore_UpsertVerses(t *testing.T) {
	t.Run("batch lands atomically", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		docs := []Document{
			sampleDoc("bible_Genesis_1_1"),
			sampleDoc("bible_Genesis_1_2"),
			sampleDoc("bible_Genesis_1_3"),
		}
		require.NoError(t, store.UpsertVerses(ctx, "bible_verses", docs))

		count, err := store.CountVerses(ctx, "bible_verses")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("invalid document rolls back the whole batch", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		docs := []Document{
			sampleDoc("bible_Genesis_1_1"),
			{}, // no ID
			sampleDoc("bible_Genesis_1_3"),
		}
		require.Error(t, store.UpsertVerses(ctx, "bible_verses", docs))

		count, err := store.CountVerses(ctx, "bible_verses")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count, "no partial upload may remain")
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.UpsertVerses(context.Background(), "bible_verses", nil))
	})
}

func TestStore_GetVerse_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetVerse(context.Background(), "bible_verses", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_Counts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bible := sampleDoc("bible_Genesis_1_1")
	require.NoError(t, store.UpsertVerse(ctx, "bible_verses", bible))

	gita := sampleDoc("gita_2_47")
	gita.Record.Religion = "hinduism"
	require.NoError(t, store.UpsertVerse(ctx, "gita_verses", gita))

	gita2 := sampleDoc("gita_2_48")
	gita2.Record.Religion = "hinduism"
	require.NoError(t, store.UpsertVerse(ctx, "gita_verses", gita2))

	byCollection, err := store.CountByCollection(ctx)
	require.NoError(t, err)
	require.Len(t, byCollection, 2)
	assert.Equal(t, CountRow{Name: "gita_verses", Count: 2}, byCollection[0])
	assert.Equal(t, CountRow{Name: "bible_verses", Count: 1}, byCollection[1])

	byReligion, err := store.CountByReligion(ctx)
	require.NoError(t, err)
	require.Len(t, byReligion, 2)
	assert.Equal(t, CountRow{Name: "hinduism", Count: 2}, byReligion[0])
}
