package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/id"
	"coilledger/internal/domain/documents/shipment"
	"coilledger/internal/infrastructure/storage/postgres"
)

const shipmentTable = "shipment_records"

// ShipmentRepo persists shipment records.
type ShipmentRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewShipmentRepo creates a shipment record repository.
func NewShipmentRepo(txm *postgres.TxManager) *ShipmentRepo {
	return &ShipmentRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[shipment.Record](),
	}
}

// Create inserts a shipment record.
func (r *ShipmentRepo) Create(ctx context.Context, rec *shipment.Record) error {
	q := builder().Insert(shipmentTable).SetMap(postgres.StructToMap(rec))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", shipmentTable, err)
	}
	return nil
}

// GetByID retrieves a shipment record by id.
func (r *ShipmentRepo) GetByID(ctx context.Context, recID id.ID) (*shipment.Record, error) {
	q := builder().
		Select(r.cols...).
		From(shipmentTable).
		Where(squirrel.Eq{"id": recID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec shipment.Record
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shipment record", recID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &rec, nil
}

// ListAll retrieves every shipment record in date order.
func (r *ShipmentRepo) ListAll(ctx context.Context) ([]shipment.Record, error) {
	q := builder().
		Select(r.cols...).
		From(shipmentTable).
		OrderBy("date ASC", "created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []shipment.Record
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", shipmentTable, err)
	}
	return items, nil
}
