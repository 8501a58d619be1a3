package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps every sheet in a single sheet_rows table, one array of
// text cells per row. It is a deliberate emulation of the spreadsheet the
// system was built around, not a relational model.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the backing table and seeds header rows for any sheet
// that is still empty.
func (s *PostgresStore) EnsureSchema(ctx context.Context, headers map[string][]string) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS sheet_rows (
            sheet   TEXT   NOT NULL,
            row_num BIGINT NOT NULL,
            cells   TEXT[] NOT NULL,
            PRIMARY KEY (sheet, row_num)
        )`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return err
	}
	for sheet, header := range headers {
		count, err := s.RowCount(ctx, sheet)
		if err != nil {
			return err
		}
		if count == 0 {
			if err := s.AppendRow(ctx, sheet, header); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *PostgresStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	const query = `
        INSERT INTO sheet_rows (sheet, row_num, cells)
        SELECT $1, COALESCE(MAX(row_num), 0) + 1, $2
        FROM sheet_rows WHERE sheet = $1`
	_, err := s.pool.Exec(ctx, query, sheet, row)
	return err
}

func (s *PostgresStore) ReadRange(ctx context.Context, sheet string, startRow, rowCount, colCount int) ([][]string, error) {
	if startRow < 1 {
		startRow = 1
	}
	query := `SELECT cells FROM sheet_rows WHERE sheet = $1 AND row_num >= $2 ORDER BY row_num`
	args := []any{sheet, startRow}
	if rowCount > 0 {
		query = `SELECT cells FROM sheet_rows WHERE sheet = $1 AND row_num >= $2 AND row_num < $3 ORDER BY row_num`
		args = append(args, startRow+rowCount)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		result = append(result, padRow(cells, colCount))
	}
	return result, rows.Err()
}

func (s *PostgresStore) WriteCell(ctx context.Context, sheet string, row, col int, value string) error {
	var cells []string
	err := s.pool.QueryRow(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = $1 AND row_num = $2`,
		sheet, row,
	).Scan(&cells)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRowNotFound
	}
	if err != nil {
		return err
	}
	if col > len(cells) {
		cells = padRow(cells, col)
	}
	cells[col-1] = value
	_, err = s.pool.Exec(ctx,
		`UPDATE sheet_rows SET cells = $3 WHERE sheet = $1 AND row_num = $2`,
		sheet, row, cells,
	)
	return err
}

func (s *PostgresStore) DeleteRow(ctx context.Context, sheet string, row int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx,
		`DELETE FROM sheet_rows WHERE sheet = $1 AND row_num = $2`, sheet, row)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	// shift later rows up, spreadsheet style
	if _, err := tx.Exec(ctx,
		`UPDATE sheet_rows SET row_num = row_num - 1 WHERE sheet = $1 AND row_num > $2`,
		sheet, row); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) FindRow(ctx context.Context, sheet string, col int, value string) (int, error) {
	var rowNum int
	err := s.pool.QueryRow(ctx,
		`SELECT row_num FROM sheet_rows WHERE sheet = $1 AND cells[$2] = $3 ORDER BY row_num LIMIT 1`,
		sheet, col, value,
	).Scan(&rowNum)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrRowNotFound
	}
	if err != nil {
		return 0, err
	}
	return rowNum, nil
}

func (s *PostgresStore) RowCount(ctx context.Context, sheet string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(row_num), 0) FROM sheet_rows WHERE sheet = $1`, sheet,
	).Scan(&count)
	return count, err
}
