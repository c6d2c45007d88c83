package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"sheetsense/domain/table"
	apperrors "sheetsense/internal/errors"
	"sheetsense/ports"
)

// tableRepository implements ports.TableRepository on Postgres. Rows are
// stored string-serialized; type coercion for storage is a caller
// concern, not a core invariant.
type tableRepository struct {
	db *sqlx.DB
}

// NewTableRepository creates a table repository on an open connection.
func NewTableRepository(db *sqlx.DB) ports.TableRepository {
	return &tableRepository{db: db}
}

// Connect opens a Postgres connection and verifies it.
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

// EnsureSchema creates the normalized_tables table if it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS normalized_tables (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		file_name TEXT NOT NULL,
		sheet_name TEXT NOT NULL,
		columns JSONB NOT NULL,
		column_types JSONB NOT NULL,
		header JSONB NOT NULL,
		profiles JSONB,
		warnings JSONB,
		row_count INTEGER NOT NULL,
		rows JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return apperrors.Wrap(err, "failed to create schema")
	}
	return nil
}

// Save upserts one processed table keyed by name, so re-uploading a
// workbook replaces its earlier tables.
func (r *tableRepository) Save(ctx context.Context, info *table.TableInfo) error {
	columnsJSON, err := json.Marshal(info.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}
	typesJSON, err := json.Marshal(info.Types)
	if err != nil {
		return fmt.Errorf("failed to marshal column types: %w", err)
	}
	headerJSON, err := json.Marshal(info.Header)
	if err != nil {
		return fmt.Errorf("failed to marshal header metadata: %w", err)
	}
	profilesJSON, err := json.Marshal(info.Profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}
	warningsJSON, err := json.Marshal(info.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}
	rowsJSON, err := marshalRows(info.Table)
	if err != nil {
		return err
	}

	query := `INSERT INTO normalized_tables (
		id, name, file_name, sheet_name, columns, column_types, header,
		profiles, warnings, row_count, rows, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	) ON CONFLICT (name) DO UPDATE SET
		id = EXCLUDED.id,
		file_name = EXCLUDED.file_name,
		sheet_name = EXCLUDED.sheet_name,
		columns = EXCLUDED.columns,
		column_types = EXCLUDED.column_types,
		header = EXCLUDED.header,
		profiles = EXCLUDED.profiles,
		warnings = EXCLUDED.warnings,
		row_count = EXCLUDED.row_count,
		rows = EXCLUDED.rows,
		created_at = EXCLUDED.created_at`

	_, err = r.db.ExecContext(ctx, query,
		info.ID, info.Name, info.FileName, info.SheetName, columnsJSON, typesJSON, headerJSON,
		profilesJSON, warningsJSON, info.RowCount, rowsJSON, info.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to save table")
	}
	return nil
}

// GetByName retrieves one table with its rows.
func (r *tableRepository) GetByName(ctx context.Context, name string) (*table.TableInfo, error) {
	query := `SELECT id, name, file_name, sheet_name, columns, column_types, header,
		COALESCE(profiles, 'null') AS profiles, COALESCE(warnings, 'null') AS warnings,
		row_count, rows, created_at
	FROM normalized_tables WHERE name = $1`

	info, err := r.scanRow(r.db.QueryRowxContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("table " + name)
		}
		return nil, apperrors.Wrap(err, "failed to get table")
	}
	return info, nil
}

// List retrieves every stored table, newest first.
func (r *tableRepository) List(ctx context.Context) ([]*table.TableInfo, error) {
	query := `SELECT id, name, file_name, sheet_name, columns, column_types, header,
		COALESCE(profiles, 'null') AS profiles, COALESCE(warnings, 'null') AS warnings,
		row_count, rows, created_at
	FROM normalized_tables ORDER BY created_at DESC`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tables")
	}
	defer rows.Close()

	var infos []*table.TableInfo
	for rows.Next() {
		info, err := r.scanRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan table")
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteAll clears the store, matching the registry's clear-on-upload
// lifecycle.
func (r *tableRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM normalized_tables`); err != nil {
		return apperrors.Wrap(err, "failed to clear tables")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *tableRepository) scanRow(row rowScanner) (*table.TableInfo, error) {
	var info table.TableInfo
	var columnsJSON, typesJSON, headerJSON, profilesJSON, warningsJSON, rowsJSON []byte

	err := row.Scan(
		&info.ID, &info.Name, &info.FileName, &info.SheetName, &columnsJSON, &typesJSON, &headerJSON,
		&profilesJSON, &warningsJSON, &info.RowCount, &rowsJSON, &info.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(columnsJSON, &info.Columns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
	}
	if err := json.Unmarshal(typesJSON, &info.Types); err != nil {
		return nil, fmt.Errorf("failed to unmarshal column types: %w", err)
	}
	if err := json.Unmarshal(headerJSON, &info.Header); err != nil {
		return nil, fmt.Errorf("failed to unmarshal header metadata: %w", err)
	}
	if err := json.Unmarshal(profilesJSON, &info.Profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
	}
	if err := json.Unmarshal(warningsJSON, &info.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
	}

	tbl, err := unmarshalRows(info.Columns, rowsJSON)
	if err != nil {
		return nil, err
	}
	info.Table = tbl

	return &info, nil
}

func marshalRows(t *table.NormalizedTable) ([]byte, error) {
	if t == nil {
		return json.Marshal([][]string{})
	}
	rows := make([][]string, len(t.Rows))
	for i := range t.Rows {
		rows[i] = t.RowStrings(i)
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}
	return data, nil
}

func unmarshalRows(columns []string, data []byte) (*table.NormalizedTable, error) {
	var rawRows [][]string
	if err := json.Unmarshal(data, &rawRows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rows: %w", err)
	}

	rows := make([][]table.Cell, len(rawRows))
	for i, rawRow := range rawRows {
		cells := make([]table.Cell, len(rawRow))
		for j, raw := range rawRow {
			if raw != "" {
				cells[j] = table.Cell{Raw: raw, Kind: table.KindText}
			}
		}
		rows[i] = cells
	}

	return &table.NormalizedTable{Columns: columns, Rows: rows}, nil
}
