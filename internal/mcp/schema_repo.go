package mcp

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaRepo provides the session tables schema (information_schema) data.
type SchemaRepo interface {
	GetSessionColumns(ctx context.Context) ([]SchemaColumn, error)
}

// SchemaColumn represents one row from information_schema.columns.
type SchemaColumn struct {
	TableSchema string
	TableName   string
	ColumnName  string
	DataType    string
	IsNullable  string
	ColumnDef   *string
}

var sessionTables = []string{"workout_plan", "workout_session", "session_day", "session_exercise", "session_set"}

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetSessionColumns(ctx context.Context) ([]SchemaColumn, error) {
	query := `
		SELECT table_schema, table_name, column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position`
	rows, err := r.pool.Query(ctx, query, sessionTables)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}
	defer rows.Close()

	var cols []SchemaColumn
	for rows.Next() {
		var c SchemaColumn
		if err := rows.Scan(&c.TableSchema, &c.TableName, &c.ColumnName, &c.DataType, &c.IsNullable, &c.ColumnDef); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns: %w", err)
	}

	return cols, nil
}
