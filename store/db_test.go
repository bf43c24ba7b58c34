package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	g := &Generation{
		ID:         "a1",
		Kind:       "url",
		Content:    "https://github.com",
		Path:       "qr_codes/github.png",
		Engine:     "skip2",
		Level:      "H",
		ModuleSize: 10,
		Border:     4,
		CreatedAt:  100,
	}
	require.NoError(t, s.SaveGeneration(g))

	got, err := s.GetGeneration("a1")
	require.NoError(t, err)
	assert.Equal(t, g, got)

	// Duplicate IDs are ignored rather than rejected.
	dup := *g
	dup.Content = "changed"
	require.NoError(t, s.SaveGeneration(&dup))
	got, err = s.GetGeneration("a1")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com", got.Content)

	_, err = s.GetGeneration("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListGenerations(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, s.SaveGeneration(&Generation{
			ID:        content,
			Kind:      "text",
			Content:   content,
			Path:      content + ".png",
			CreatedAt: int64(i + 1),
		}))
	}

	all, err := s.ListGenerations(10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].ID)
	assert.Equal(t, "first", all[2].ID)

	page, err := s.ListGenerations(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].ID)

	empty, err := openTestStore(t).ListGenerations(10, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchGenerations(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.SaveGeneration(&Generation{ID: "1", Kind: "wifi", Content: "WIFI:T:WPA;S:HomeNet;P:pw;;", Path: "wifi.png", CreatedAt: 1}))
	require.NoError(t, s.SaveGeneration(&Generation{ID: "2", Kind: "url", Content: "https://github.com", Path: "gh.png", CreatedAt: 2}))

	res, err := s.SearchGenerations("github", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "2", res[0].ID)

	// Quotes in the query must not break FTS syntax.
	res, err = s.SearchGenerations(`say "hi"`, 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}
