// Package catalog_repo provides the PostgreSQL repository for the
// material reference catalog.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coilledger/internal/core/apperror"
	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/infrastructure/storage/postgres"
)

const materialTable = "materials"

// MaterialRepo persists material catalog entries.
type MaterialRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewMaterialRepo creates a material catalog repository.
func NewMaterialRepo(txm *postgres.TxManager) *MaterialRepo {
	return &MaterialRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[material.Entry](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Upsert inserts or replaces a catalog entry by code.
func (r *MaterialRepo) Upsert(ctx context.Context, entry *material.Entry) error {
	q := builder().
		Insert(materialTable).
		SetMap(postgres.StructToMap(entry)).
		Suffix("ON CONFLICT (code) DO UPDATE SET description = EXCLUDED.description, thickness = EXCLUDED.thickness, type = EXCLUDED.type")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", materialTable, err)
	}
	return nil
}

// GetByCode retrieves one catalog entry.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*material.Entry, error) {
	q := builder().
		Select(r.cols...).
		From(materialTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry material.Entry
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("material", code)
		}
		return nil, fmt.Errorf("get by code: %w", err)
	}
	return &entry, nil
}

// ListAll retrieves the whole catalog ordered by code.
func (r *MaterialRepo) ListAll(ctx context.Context) ([]material.Entry, error) {
	q := builder().
		Select(r.cols...).
		From(materialTable).
		OrderBy("code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []material.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", materialTable, err)
	}
	return items, nil
}
