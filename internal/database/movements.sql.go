package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertInventoryMovement = `-- name: InsertInventoryMovement :one
INSERT INTO inventory_movements (
    product_id, variant_id, movement_type, quantity, reason, reference_id
) VALUES (
    $1, $2, $3, $4, $5, $6
)
RETURNING id, product_id, variant_id, movement_type, quantity, reason, reference_id, created_at
`

type InsertInventoryMovementParams struct {
	ProductID    pgtype.UUID
	VariantID    pgtype.UUID
	MovementType string
	Quantity     int32
	Reason       pgtype.Text
	ReferenceID  pgtype.Text
}

func (q *Queries) InsertInventoryMovement(ctx context.Context, arg InsertInventoryMovementParams) (InventoryMovement, error) {
	row := q.db.QueryRow(ctx, insertInventoryMovement,
		arg.ProductID,
		arg.VariantID,
		arg.MovementType,
		arg.Quantity,
		arg.Reason,
		arg.ReferenceID,
	)
	var i InventoryMovement
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.VariantID,
		&i.MovementType,
		&i.Quantity,
		&i.Reason,
		&i.ReferenceID,
		&i.CreatedAt,
	)
	return i, err
}
