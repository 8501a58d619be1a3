package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore(map[string][]string{"sheet": {"A", "B", "C"}})
}

func TestMemoryStoreAppendAndReadRange(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"1", "x"}))
	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"2", "y", "z"}))

	rows, err := s.ReadRange(ctx, "sheet", 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"A", "B", "C"}, rows[0])

	// padded to the requested width
	rows, err = s.ReadRange(ctx, "sheet", 2, 1, 3)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1", "x", ""}}, rows)

	// past the end reads empty, not an error
	rows, err = s.ReadRange(ctx, "sheet", 10, 0, 0)
	require.NoError(t, err)
	require.Empty(t, rows)

	count, err := s.RowCount(ctx, "sheet")
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestMemoryStoreWriteCellExtendsRow(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"1"}))

	require.NoError(t, s.WriteCell(ctx, "sheet", 2, 3, "v"))
	rows, err := s.ReadRange(ctx, "sheet", 2, 1, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "", "v"}, rows[0])

	require.ErrorIs(t, s.WriteCell(ctx, "sheet", 9, 1, "v"), ErrRowNotFound)
}

func TestMemoryStoreDeleteShiftsRows(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"1"}))
	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"2"}))
	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"3"}))

	require.NoError(t, s.DeleteRow(ctx, "sheet", 3))

	rows, err := s.ReadRange(ctx, "sheet", 2, 0, 0)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1"}, {"3"}}, rows)

	require.ErrorIs(t, s.DeleteRow(ctx, "sheet", 4), ErrRowNotFound)
}

func TestMemoryStoreFindRow(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"1", "alpha"}))
	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"2", "beta"}))

	row, err := s.FindRow(ctx, "sheet", 2, "beta")
	require.NoError(t, err)
	require.Equal(t, 3, row)

	// exact, case-sensitive match only
	_, err = s.FindRow(ctx, "sheet", 2, "BETA")
	require.ErrorIs(t, err, ErrRowNotFound)
}

func TestMemoryStoreReadReturnsCopies(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AppendRow(ctx, "sheet", []string{"1", "alpha"}))

	rows, err := s.ReadRange(ctx, "sheet", 2, 1, 0)
	require.NoError(t, err)
	rows[0][1] = "mutated"

	again, err := s.ReadRange(ctx, "sheet", 2, 1, 0)
	require.NoError(t, err)
	require.Equal(t, "alpha", again[0][1])
}
