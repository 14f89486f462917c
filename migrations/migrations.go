// Package migrations содержит SQL схему базы данных.
package migrations

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed 000001_init_schema.up.sql
var initSchemaUp string

//go:embed 000001_init_schema.down.sql
var initSchemaDown string

// Up применяет схему (все выражения идемпотентны)
func Up(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, initSchemaUp); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Down удаляет все таблицы схемы
func Down(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, initSchemaDown); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
