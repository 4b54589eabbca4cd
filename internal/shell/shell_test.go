package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/csvdesk/internal/render"
	"github.com/mesh-intelligence/csvdesk/internal/storage"
	"github.com/mesh-intelligence/csvdesk/internal/tables"
	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

// session runs input through a fresh shell rooted at dir and returns the
// store and everything written.
func session(t *testing.T, dir, input string) (*tables.Store, string) {
	t.Helper()
	store := tables.NewStore(storage.Options{})
	var out bytes.Buffer
	sh := New(store, strings.NewReader(input), &out, Options{WorkDir: dir})
	require.NoError(t, sh.Run())
	return store, out.String()
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestShell_ImportAndShow(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "stock.csv", "nom,qte\nA,10\nB,2\n")

	store, out := session(t, dir, "import "+path+"\nshow\nquit\n")

	assert.Contains(t, out, "Imported "+path+".")
	assert.Contains(t, out, "nom | qte\nA   | 10 \nB   | 2  \n")
	assert.Contains(t, out, "Goodbye!")
	assert.Equal(t, []string{path}, store.Keys())
}

func TestShell_ImportByNumber(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "h\n1\n")
	b := writeCSV(t, dir, "b.csv", "h\n2\n")

	store, out := session(t, dir, "import\n2\n")

	assert.Contains(t, out, "1. "+filepath.Join(dir, "a.csv"))
	assert.Contains(t, out, "2. "+b)
	assert.Contains(t, out, "Imported "+b+".")
	assert.Equal(t, []string{b}, store.Keys())
}

func TestShell_ImportNumberArgument(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "h\n1\n")
	b := writeCSV(t, dir, "b.csv", "h\n2\n")

	store, out := session(t, dir, "import 2\nimport 9\n")
	assert.Contains(t, out, "Imported "+b+".")
	assert.Contains(t, out, "Invalid choice.")
	assert.Equal(t, []string{b}, store.Keys())
}

func TestShell_ImportNumericFileName(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "h\n1\n")
	named := writeCSV(t, dir, "3", "n\nv\n")

	store, out := session(t, dir, "import 3\n")
	assert.Contains(t, out, "Imported "+named+".")
	assert.Equal(t, []string{named}, store.Keys())
}

func TestShell_ImportInvalidChoice(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "h\n1\n")

	store, out := session(t, dir, "import\n5\nimport\nabc\n")

	assert.Equal(t, 2, strings.Count(out, "Invalid choice."))
	assert.Zero(t, store.Len())
}

func TestShell_ImportFailures(t *testing.T) {
	dir := t.TempDir()
	empty := writeCSV(t, dir, "empty.csv", "")
	missing := filepath.Join(dir, "missing.csv")

	store, out := session(t, dir, "import "+missing+"\nimport "+empty+"\n")

	assert.Contains(t, out, "Could not import "+missing+": file not found.")
	assert.Contains(t, out, "Could not import "+empty+": file is empty.")
	assert.Zero(t, store.Len())
}

func TestShell_NoCSVFiles(t *testing.T) {
	_, out := session(t, t.TempDir(), "files\nimport\n")
	assert.Equal(t, 2, strings.Count(out, "No CSV files found"))
}

func TestShell_Tables(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "h\n1\n")

	store, out := session(t, dir, "tables\nimport "+a+"\ntables\n")
	assert.Contains(t, out, "No tables imported.")
	assert.Contains(t, out, "Imported tables:\n1. "+a+"  rows=2  id=")

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Contains(t, out, "id="+entries[0].ID+"\n")
}

func TestShell_ShowWithoutSelection(t *testing.T) {
	_, out := session(t, t.TempDir(), "show\nshow 3\n")
	assert.Contains(t, out, "No table selected.")
	assert.Contains(t, out, `Unknown table "3"`)
}

func TestShell_Sort(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "stock.csv", "nom,qte\nB,2\nA,10\n")

	t.Run("by number", func(t *testing.T) {
		_, out := session(t, dir, "import "+path+"\nsort 2\n")
		assert.Contains(t, out, "nom | qte\nA   | 10 \nB   | 2  \n")
	})

	t.Run("by name with explicit table", func(t *testing.T) {
		_, out := session(t, dir, "import "+path+"\nsort nom 1\n")
		assert.Contains(t, out, "nom | qte\nA   | 10 \nB   | 2  \n")
	})

	t.Run("prompted column", func(t *testing.T) {
		_, out := session(t, dir, "import "+path+"\nsort\n1\n")
		assert.Contains(t, out, "Columns:\n1. nom\n2. qte\n")
		assert.Contains(t, out, "A   | 10 \nB   | 2  \n")
	})

	t.Run("invalid column", func(t *testing.T) {
		_, out := session(t, dir, "import "+path+"\nsort 9\nsort 0\n")
		assert.Equal(t, 2, strings.Count(out, "Invalid column"))
	})
}

func TestShell_SortRaggedRow(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "ragged.csv", "a,b\n1,2\n3\n")

	_, out := session(t, dir, "import "+path+"\nsort 2\n")
	assert.Contains(t, out, "Invalid column 2.")
	assert.NotContains(t, out, "a | b")
}

func TestShell_MergeAndSave(t *testing.T) {
	dir := t.TempDir()
	k1 := writeCSV(t, dir, "k1.csv", "nom,qte\nX,1\n")
	k2 := writeCSV(t, dir, "k2.csv", "nom,qte\nY,2\n")

	input := strings.Join([]string{
		"import " + k1,
		"import " + k2,
		"merge",
		"1 2",
		"yes",
		"merged",
		"quit",
	}, "\n") + "\n"
	_, out := session(t, dir, input)

	saved := filepath.Join(dir, "merged.csv")
	assert.Contains(t, out, "nom | qte\nX   | 1  \nY   | 2  \n")
	assert.Contains(t, out, "Saved to "+saved+".")

	got, err := storage.ReadDelimited(saved)
	require.NoError(t, err)
	assert.Equal(t, []types.Row{{"nom", "qte"}, {"X", "1"}, {"Y", "2"}}, got.Rows)
}

func TestShell_MergeDeclineSave(t *testing.T) {
	dir := t.TempDir()
	k1 := writeCSV(t, dir, "k1.csv", "nom,qte\nX,1\n")

	_, out := session(t, dir, "import "+k1+"\nmerge 1\nno\n")
	assert.Contains(t, out, "Merged table not saved.")
	assert.NoFileExists(t, filepath.Join(dir, ".csv"))
}

func TestShell_MergeInvalidChoice(t *testing.T) {
	dir := t.TempDir()
	k1 := writeCSV(t, dir, "k1.csv", "nom,qte\nX,1\n")

	_, out := session(t, dir, "merge\nimport "+k1+"\nmerge 1 7\n")
	assert.Contains(t, out, "No tables imported.")
	assert.Contains(t, out, "Invalid choice.")
}

func TestShell_MergeRaggedDisplay(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "x,y\n1,2\n")
	b := writeCSV(t, dir, "b.csv", "x,y,z\n3,4,5\n")

	_, out := session(t, dir, "import "+a+"\nimport "+b+"\nmerge 1 2\nno\n")
	assert.Contains(t, out, "Invalid column: rows have different widths.")
}

func TestShell_SaveFormats(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "stock.csv", "nom,qte\nA,1\n")
	jsonl := filepath.Join(dir, "out.jsonl")
	db := filepath.Join(dir, "out.db")

	_, out := session(t, dir, "import "+path+"\nsave 1 "+jsonl+"\nsave 1 "+db+"\nsave\n")
	assert.Contains(t, out, "Saved "+path+" to "+jsonl+".")
	assert.Contains(t, out, "Usage: save")

	for _, p := range []string{jsonl, db} {
		got, err := storage.Open(p, storage.Options{})
		require.NoError(t, err)
		assert.Equal(t, []types.Row{{"nom", "qte"}, {"A", "1"}}, got.Rows)
	}
}

func TestShell_QuotedArguments(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "with space.csv", "h\nv\n")

	store, out := session(t, dir, `import "`+path+`"`+"\n")
	assert.Contains(t, out, "Imported "+path+".")
	assert.Equal(t, []string{path}, store.Keys())
}

func TestShell_UnknownAndMalformed(t *testing.T) {
	_, out := session(t, t.TempDir(), "frobnicate\nimport \"unclosed\n\n")
	assert.Contains(t, out, `Unknown command "frobnicate"`)
	assert.Contains(t, out, "Invalid input:")
}

func TestShell_Help(t *testing.T) {
	_, out := session(t, t.TempDir(), "help\n")
	for _, name := range []string{"import", "files", "tables", "show", "sort", "merge", "save", "quit"} {
		assert.Contains(t, out, name)
	}
}

func TestShell_PromptMode(t *testing.T) {
	store := tables.NewStore(storage.Options{})
	var out bytes.Buffer
	sh := New(store, strings.NewReader("exit\n"), &out, Options{Prompt: true, Render: render.Options{}})
	require.NoError(t, sh.Run())

	assert.True(t, strings.HasPrefix(out.String(), intro+"\n"+prompt))
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestShell_SeparatorOption(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "s.csv", "a,b\n1,2\n")

	store := tables.NewStore(storage.Options{})
	var out bytes.Buffer
	sh := New(store, strings.NewReader("import "+path+"\nshow\n"), &out, Options{WorkDir: dir, Render: render.Options{Separator: true}})
	require.NoError(t, sh.Run())

	assert.Contains(t, out.String(), "a | b\n-----\n1 | 2\n-----\n")
	assert.Equal(t, path, sh.current)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(strings.NewReader("")))
}
