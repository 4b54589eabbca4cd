package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableAccessors(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		var tbl Table
		assert.True(t, tbl.Empty())
		assert.Equal(t, 0, tbl.Len())
		assert.Nil(t, tbl.Header())
		assert.Nil(t, tbl.DataRows())
	})

	t.Run("header only", func(t *testing.T) {
		tbl := NewTable(Row{"a", "b"})
		assert.False(t, tbl.Empty())
		assert.Equal(t, Row{"a", "b"}, tbl.Header())
		assert.Nil(t, tbl.DataRows())
	})

	t.Run("header and data rows", func(t *testing.T) {
		tbl := NewTable(Row{"a", "b"}, Row{"1", "2"}, Row{"3", "4"})
		assert.Equal(t, 3, tbl.Len())
		assert.Equal(t, []Row{{"1", "2"}, {"3", "4"}}, tbl.DataRows())
	})
}

func TestTableClone(t *testing.T) {
	orig := NewTable(Row{"a"}, Row{"1"})
	cp := orig.Clone()
	cp.Rows[1][0] = "changed"
	cp.Rows = append(cp.Rows, Row{"2"})

	assert.Equal(t, "1", orig.Rows[1][0])
	assert.Equal(t, 2, orig.Len())
	assert.True(t, Table{}.Clone().Empty())
}

func TestTableClone_KeepsEmptyRows(t *testing.T) {
	cp := NewTable(Row{}, Row{"x"}).Clone()
	assert.NotNil(t, cp.Header())
	assert.Equal(t, Row{}, cp.Header())
}
