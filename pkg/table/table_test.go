package table

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsert(t *testing.T) {
	t.Run("new key becomes a column and backfills prior rows", func(t *testing.T) {
		tbl := newTable(t, row("name", "Alice", "age", 30))
		require.NoError(t, tbl.Insert(row("name", "Eve", "age", 29, "city", "NY")))

		assert.Equal(t, []string{"name", "age", "city"}, tbl.Columns())
		first, err := tbl.At(0)
		require.NoError(t, err)
		assert.True(t, first.Equal(row("name", "Alice", "age", 30.0, "city", nil)))
	})

	t.Run("batch insert applies rows in order", func(t *testing.T) {
		tbl := newTable(t,
			row("id", 1, "name", "Alice", "score", 70),
			row("id", 2, "name", "Bob", "score", 65),
			row("id", 3, "name", "Charlie", "score", 80),
		)
		assert.Equal(t, 3, tbl.Len())
		assert.Equal(t, []types.Value{"Alice", "Bob", "Charlie"}, column(tbl, "name"))
	})

	t.Run("new keys are appended in row order", func(t *testing.T) {
		tbl := newTable(t, row("a", 1))
		require.NoError(t, tbl.Insert(row("c", 1, "a", 2, "b", 3)))
		assert.Equal(t, []string{"a", "c", "b"}, tbl.Columns())
		assert.Equal(t, [][]string{{"a", "c", "b"}, {"c", "a", "b"}}, keysOf(tbl))
	})

	t.Run("inserted row missing a column is left without it", func(t *testing.T) {
		tbl := newTable(t, row("a", 1, "b", 2))
		require.NoError(t, tbl.Insert(row("a", 3)))
		last, err := tbl.At(1)
		require.NoError(t, err)
		assert.False(t, last.Has("b"))
		assert.Nil(t, last.Value("b"))
	})

	t.Run("null-only column survives insert", func(t *testing.T) {
		tbl := newTable(t, row("name", "Hannah", "city", nil))
		assert.Equal(t, []string{"name", "city"}, tbl.Columns())
	})

	t.Run("unsupported value rejects the whole batch", func(t *testing.T) {
		tbl := newTable(t, row("a", 1))
		err := tbl.Insert(row("a", 2), row("a", []int{1}))
		if !errors.Is(err, types.ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType, got %v", err)
		}
		assert.Equal(t, 1, tbl.Len())
		assert.Equal(t, []string{"a"}, tbl.Columns())
	})

	t.Run("caller rows are not aliased", func(t *testing.T) {
		in := row("a", 1)
		tbl := newTable(t, in)
		in.Set("a", 99)
		assert.Equal(t, []types.Value{1.0}, column(tbl, "a"))
	})
}

func TestQuery(t *testing.T) {
	tbl := newTable(t,
		row("name", "Alice", "age", 30),
		row("name", "Bob", "age", "30"),
		row("name", "Carol", "age", 30),
		row("name", "Dan"),
	)

	t.Run("exact match without coercion", func(t *testing.T) {
		got, err := tbl.Query(types.Predicate{"age": 30})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Alice", got[0].Value("name"))
		assert.Equal(t, "Carol", got[1].Value("name"))
	})

	t.Run("empty predicate matches all", func(t *testing.T) {
		got, err := tbl.Query(nil)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("null matches absent values", func(t *testing.T) {
		got, err := tbl.Query(types.Predicate{"age": nil})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dan", got[0].Value("name"))
	})

	t.Run("unknown column matches only null", func(t *testing.T) {
		got, err := tbl.Query(types.Predicate{"zip": nil})
		require.NoError(t, err)
		assert.Len(t, got, 4)
		got, err = tbl.Query(types.Predicate{"zip": "x"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("results are independent of table state", func(t *testing.T) {
		got, err := tbl.Query(types.Predicate{"name": "Alice"})
		require.NoError(t, err)
		got[0].Set("name", "Mallory")
		again, err := tbl.Query(types.Predicate{"name": "Alice"})
		require.NoError(t, err)
		assert.Len(t, again, 1)
	})

	t.Run("unsupported predicate value", func(t *testing.T) {
		_, err := tbl.Query(types.Predicate{"age": struct{}{}})
		if !errors.Is(err, types.ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType, got %v", err)
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("changes only matching rows", func(t *testing.T) {
		tbl := newTable(t,
			row("name", "Alice", "age", 30),
			row("name", "Bob", "age", 25),
			row("name", "Carol", "age", 30),
		)
		n, err := tbl.Update(types.Predicate{"age": 30}, row("age", 31))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 3, tbl.Len())
		assert.Equal(t, []types.Value{31.0, 25.0, 31.0}, column(tbl, "age"))
	})

	t.Run("all matching rows updated", func(t *testing.T) {
		tbl := newTable(t, row("id", 1, "score", 50), row("id", 2, "score", 50))
		n, err := tbl.Update(types.Predicate{"score": 50}, row("score", 100))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []types.Value{100.0, 100.0}, column(tbl, "score"))
	})

	t.Run("new key becomes a column", func(t *testing.T) {
		tbl := newTable(t, row("id", 1), row("id", 2))
		_, err := tbl.Update(types.Predicate{"id": 2}, row("flag", true))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "flag"}, tbl.Columns())
		assert.Equal(t, []types.Value{nil, true}, column(tbl, "flag"))
		first, _ := tbl.At(0)
		assert.True(t, first.Has("flag"))
	})

	t.Run("column emptied across all rows disappears", func(t *testing.T) {
		tbl := newTable(t,
			row("id", 1, "value", 100, "obsolete", "x"),
			row("id", 2, "value", 200, "obsolete", "x"),
		)

		_, err := tbl.Update(types.Predicate{"id": 1}, row("obsolete", nil))
		require.NoError(t, err)
		for _, r := range tbl.All() {
			assert.True(t, r.Has("obsolete"))
		}

		_, err = tbl.Update(types.Predicate{"id": 2}, row("obsolete", nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "value"}, tbl.Columns())
		for _, r := range tbl.All() {
			assert.False(t, r.Has("obsolete"))
			assert.True(t, r.Has("value"))
			assert.True(t, r.Has("id"))
		}
	})

	t.Run("no match leaves table unchanged", func(t *testing.T) {
		tbl := newTable(t, row("a", 1))
		before := tbl.Dump()
		n, err := tbl.Update(types.Predicate{"a": 2}, row("a", 3))
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.True(t, before.Equal(tbl.Dump()))
	})

	t.Run("unsupported change value leaves table unchanged", func(t *testing.T) {
		tbl := newTable(t, row("a", 1))
		_, err := tbl.Update(nil, row("a", map[string]any{}))
		if !errors.Is(err, types.ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType, got %v", err)
		}
		assert.Equal(t, []types.Value{1.0}, column(tbl, "a"))
	})
}

func TestBatchUpdate(t *testing.T) {
	tbl := newTable(t,
		row("id", 1, "name", "Alice", "score", 70),
		row("id", 2, "name", "Bob", "score", 65),
		row("id", 3, "name", "Charlie", "score", 80),
	)
	require.NoError(t, tbl.Insert(row("id", 4, "name", "David", "score", 20, "passed", false)))

	n, err := tbl.BatchUpdate(
		types.Change{Where: types.Predicate{"id": 1}, Set: row("score", 90, "passed", true)},
		types.Change{Where: types.Predicate{"name": "Bob"}, Set: row("score", 75)},
		types.Change{Where: types.Predicate{"id": 3}, Set: row("passed", true)},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, r := range tbl.All() {
		assert.True(t, r.Has("passed"))
	}
	assert.Equal(t, []types.Value{90.0, 75.0, 80.0, 20.0}, column(tbl, "score"))
	assert.Equal(t, []types.Value{true, nil, true, false}, column(tbl, "passed"))

	t.Run("later changes see earlier ones", func(t *testing.T) {
		tbl := newTable(t, row("a", 1))
		n, err := tbl.BatchUpdate(
			types.Change{Where: types.Predicate{"a": 1}, Set: row("a", 2)},
			types.Change{Where: types.Predicate{"a": 2}, Set: row("a", 3)},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []types.Value{3.0}, column(tbl, "a"))
	})

	t.Run("invalid later change applies nothing", func(t *testing.T) {
		tbl := newTable(t, row("a", 1))
		_, err := tbl.BatchUpdate(
			types.Change{Where: types.Predicate{"a": 1}, Set: row("a", 2)},
			types.Change{Where: types.Predicate{"a": []string{}}, Set: row("a", 3)},
		)
		if !errors.Is(err, types.ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType, got %v", err)
		}
		assert.Equal(t, []types.Value{1.0}, column(tbl, "a"))
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes matching rows", func(t *testing.T) {
		tbl := newTable(t, row("id", 1), row("id", 2), row("id", 1))
		n, err := tbl.Delete(types.Predicate{"id": 1})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []types.Value{2.0}, column(tbl, "id"))
	})

	t.Run("prunes columns held only by deleted rows", func(t *testing.T) {
		tbl := newTable(t,
			row("id", 1, "name", "Alice", "remove_me", "yes"),
			row("id", 2, "name", "Bob", "remove_me", "yes"),
			row("id", 3, "name", "Charlie", "remove_me", "keep"),
		)
		_, err := tbl.Delete(types.Predicate{"remove_me": "yes"})
		require.NoError(t, err)
		require.Equal(t, 1, tbl.Len())
		remaining, _ := tbl.At(0)
		assert.True(t, remaining.Has("remove_me"))

		_, err = tbl.Update(types.Predicate{"id": 3}, row("remove_me", nil))
		require.NoError(t, err)
		remaining, _ = tbl.At(0)
		assert.False(t, remaining.Has("remove_me"))
		assert.Equal(t, []string{"id", "name"}, tbl.Columns())
	})

	t.Run("deleting the only row holding a column drops it", func(t *testing.T) {
		tbl := newTable(t, row("a", 1), row("a", 2, "b", "x"))
		_, err := tbl.Delete(types.Predicate{"b": "x"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, tbl.Columns())
	})

	t.Run("empty predicate deletes everything", func(t *testing.T) {
		tbl := newTable(t, row("a", 1), row("b", 2))
		n, err := tbl.Delete(types.Predicate{})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Zero(t, tbl.Len())
		assert.Empty(t, tbl.Columns())
	})
}

func TestRenameKey(t *testing.T) {
	t.Run("renames on every row in place", func(t *testing.T) {
		tbl := newTable(t, row("name", "Charlie", "age", 40), row("name", "Alice", "age", 25))
		require.NoError(t, tbl.RenameKey("name", "nickname"))

		assert.Equal(t, []string{"nickname", "age"}, tbl.Columns())
		assert.Equal(t, [][]string{{"nickname", "age"}, {"nickname", "age"}}, keysOf(tbl))
		assert.Equal(t, []types.Value{"Charlie", "Alice"}, column(tbl, "nickname"))

		got, err := tbl.Query(types.Predicate{"name": "Charlie"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("preserves position of a middle column", func(t *testing.T) {
		tbl := newTable(t, row("a", 1, "b", 2, "c", 3))
		require.NoError(t, tbl.RenameKey("b", "z"))
		assert.Equal(t, []string{"a", "z", "c"}, tbl.Columns())
		assert.Equal(t, [][]string{{"a", "z", "c"}}, keysOf(tbl))
	})

	t.Run("unknown column", func(t *testing.T) {
		tbl := newTable(t, row("a", 1))
		err := tbl.RenameKey("nonexistent", "something")
		if !errors.Is(err, types.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("target already exists", func(t *testing.T) {
		tbl := newTable(t, row("a", 1, "b", 2))
		err := tbl.RenameKey("a", "b")
		if !errors.Is(err, types.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	})

	t.Run("same name is a no-op", func(t *testing.T) {
		tbl := newTable(t, row("a", 1))
		require.NoError(t, tbl.RenameKey("a", "a"))
		assert.Equal(t, []string{"a"}, tbl.Columns())
	})
}

func TestCloneAndRestore(t *testing.T) {
	tbl := newTable(t, row("a", 1))
	snapshot := tbl.Clone()

	require.NoError(t, tbl.Insert(row("b", 2)))
	assert.Equal(t, 1, snapshot.Len())
	assert.Equal(t, []string{"a"}, snapshot.Columns())

	tbl.Restore(snapshot)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{"a"}, tbl.Columns())

	require.NoError(t, tbl.Insert(row("c", 3)))
	assert.Equal(t, 1, snapshot.Len(), "restore must not alias the snapshot")
}

func TestAt(t *testing.T) {
	tbl := newTable(t, row("a", 1))
	for _, i := range []int{-1, 1} {
		_, err := tbl.At(i)
		if !errors.Is(err, types.ErrIndexOutOfRange) {
			t.Fatalf("At(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}
