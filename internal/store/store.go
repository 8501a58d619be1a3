package store

import (
	"context"
	"errors"
)

// ErrRowNotFound is returned by FindRow when no row matches.
var ErrRowNotFound = errors.New("row not found")

// TabularStore abstracts the spreadsheet-shaped persistence substrate: named
// sheets of rows where row 1 is the header. Rows and columns are 1-based.
// Row-level writes are atomic at the storage layer; serialization of
// competing mutations is the caller's responsibility.
type TabularStore interface {
	// AppendRow adds a row after the current last row.
	AppendRow(ctx context.Context, sheet string, row []string) error
	// ReadRange returns up to rowCount rows starting at startRow. A
	// non-positive rowCount reads to the end; a positive colCount pads or
	// truncates every row to that width.
	ReadRange(ctx context.Context, sheet string, startRow, rowCount, colCount int) ([][]string, error)
	// WriteCell sets one cell, extending the row if needed.
	WriteCell(ctx context.Context, sheet string, row, col int, value string) error
	// DeleteRow removes a row and shifts later rows up.
	DeleteRow(ctx context.Context, sheet string, row int) error
	// FindRow returns the first row whose cell in col equals value exactly
	// (case-sensitive), or ErrRowNotFound.
	FindRow(ctx context.Context, sheet string, col int, value string) (int, error)
	// RowCount returns the number of rows including the header.
	RowCount(ctx context.Context, sheet string) (int, error)
}

func padRow(row []string, colCount int) []string {
	if colCount <= 0 {
		return row
	}
	if len(row) == colCount {
		return row
	}
	out := make([]string, colCount)
	copy(out, row)
	return out
}
