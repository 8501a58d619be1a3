package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process TabularStore used for tests and for running
// without a POSTGRES_DSN.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemoryStore creates an empty store, seeding the given header rows.
func NewMemoryStore(headers map[string][]string) *MemoryStore {
	sheets := make(map[string][][]string, len(headers))
	for sheet, header := range headers {
		sheets[sheet] = [][]string{cloneRow(header)}
	}
	return &MemoryStore{sheets: sheets}
}

func (s *MemoryStore) AppendRow(_ context.Context, sheet string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = append(s.sheets[sheet], cloneRow(row))
	return nil
}

func (s *MemoryStore) ReadRange(_ context.Context, sheet string, startRow, rowCount, colCount int) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.sheets[sheet]
	if startRow < 1 {
		startRow = 1
	}
	if startRow > len(rows) {
		return nil, nil
	}
	end := len(rows)
	if rowCount > 0 && startRow-1+rowCount < end {
		end = startRow - 1 + rowCount
	}
	result := make([][]string, 0, end-startRow+1)
	for _, row := range rows[startRow-1 : end] {
		result = append(result, padRow(cloneRow(row), colCount))
	}
	return result, nil
}

func (s *MemoryStore) WriteCell(_ context.Context, sheet string, row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[sheet]
	if row < 1 || row > len(rows) {
		return ErrRowNotFound
	}
	cells := rows[row-1]
	if col > len(cells) {
		cells = padRow(cells, col)
		rows[row-1] = cells
	}
	cells[col-1] = value
	return nil
}

func (s *MemoryStore) DeleteRow(_ context.Context, sheet string, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[sheet]
	if row < 1 || row > len(rows) {
		return ErrRowNotFound
	}
	s.sheets[sheet] = append(rows[:row-1], rows[row:]...)
	return nil
}

func (s *MemoryStore) FindRow(_ context.Context, sheet string, col int, value string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, row := range s.sheets[sheet] {
		if col >= 1 && col <= len(row) && row[col-1] == value {
			return i + 1, nil
		}
	}
	return 0, ErrRowNotFound
}

func (s *MemoryStore) RowCount(_ context.Context, sheet string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sheets[sheet]), nil
}

func cloneRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}
