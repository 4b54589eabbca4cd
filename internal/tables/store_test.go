package tables

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/csvdesk/internal/storage"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_Import(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(storage.Options{})

	t.Run("well formed file", func(t *testing.T) {
		path := writeFile(t, dir, "products.csv", "a,b,c\n1,2,3\n4,5,6\n")
		require.NoError(t, s.Import(path))

		got := s.Get(path)
		assert.Equal(t, 3, got.Len())
		assert.Equal(t, types.Row{"a", "b", "c"}, got.Header())
		assert.Contains(t, s.Keys(), path)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "missing.csv")
		err := s.Import(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NotContains(t, s.Keys(), path)
	})

	t.Run("zero byte file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.csv", "")
		err := s.Import(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrEmptyContent)
		assert.True(t, s.Get(path).Empty())
		assert.NotContains(t, s.Keys(), path)
	})

	t.Run("blank lines only", func(t *testing.T) {
		path := writeFile(t, dir, "blank.csv", "\n\n")
		err := s.Import(path)
		assert.ErrorIs(t, err, types.ErrEmptyContent)
		assert.NotContains(t, s.Keys(), path)
	})
}

func TestStore_Load(t *testing.T) {
	s := NewStore(storage.Options{})

	require.NoError(t, s.Load("k", strings.NewReader("nom,qte\nA,10\n")))
	assert.Equal(t, []types.Row{{"nom", "qte"}, {"A", "10"}}, s.Get("k").Rows)

	err := s.Load("blank", strings.NewReader(""))
	assert.ErrorIs(t, err, types.ErrEmptyContent)
	_, ok := s.Lookup("blank")
	assert.False(t, ok)
}

func TestStore_ReloadKeepsPosition(t *testing.T) {
	s := NewStore(storage.Options{})
	require.NoError(t, s.Load("first", strings.NewReader("h\n1\n")))
	require.NoError(t, s.Load("second", strings.NewReader("h\n2\n")))
	require.NoError(t, s.Load("first", strings.NewReader("h\n3\n")))

	assert.Equal(t, []string{"first", "second"}, s.Keys())
	assert.Equal(t, types.Row{"3"}, s.Get("first").Rows[1])
	assert.Equal(t, 2, s.Len())
}

func TestStore_GetUnknownKey(t *testing.T) {
	s := NewStore(storage.Options{})
	got := s.Get("nope")
	assert.True(t, got.Empty())
	assert.Empty(t, s.Keys())
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore(storage.Options{})
	require.NoError(t, s.Add("k", types.NewTable(types.Row{"h"}, types.Row{"v"})))

	got := s.Get("k")
	got.Rows[1][0] = "mutated"

	assert.Equal(t, "v", s.Get("k").Rows[1][0])
}

func TestStore_Entries(t *testing.T) {
	s := NewStore(storage.Options{})
	require.NoError(t, s.Add("one", types.NewTable(types.Row{"h"})))
	require.NoError(t, s.Add("two", types.NewTable(types.Row{"h"}, types.Row{"x"})))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Key)
	assert.Equal(t, "two", entries[1].Key)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, 2, entries[1].Table.Len())
}

func TestStore_Resolve(t *testing.T) {
	s := NewStore(storage.Options{})
	require.NoError(t, s.Add("a.csv", types.NewTable(types.Row{"h"})))
	require.NoError(t, s.Add("b.csv", types.NewTable(types.Row{"h"})))

	tests := []struct {
		ref    string
		want   string
		wantOK bool
	}{
		{ref: "a.csv", want: "a.csv", wantOK: true},
		{ref: "2", want: "b.csv", wantOK: true},
		{ref: "1", want: "a.csv", wantOK: true},
		{ref: "0", wantOK: false},
		{ref: "3", wantOK: false},
		{ref: "c.csv", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := s.Resolve(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_ImportOtherFormats(t *testing.T) {
	dir := t.TempDir()
	rows := []types.Row{{"nom", "qte"}, {"X", "1"}}

	jsonlPath := filepath.Join(dir, "t.jsonl")
	require.NoError(t, storage.WriteJSONL(jsonlPath, rows))

	dbPath := filepath.Join(dir, "t.db")
	require.NoError(t, storage.Save(dbPath, types.NewTable(rows...), storage.Options{Table: "stock"}))

	s := NewStore(storage.Options{Table: "stock"})
	require.NoError(t, s.Import(jsonlPath))
	require.NoError(t, s.Import(dbPath))

	assert.Equal(t, rows, s.Get(jsonlPath).Rows)
	assert.Equal(t, rows, s.Get(dbPath).Rows)
}
