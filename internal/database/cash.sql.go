package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listCompletedSalesBetween = `-- name: ListCompletedSalesBetween :many
SELECT id, total, payment_method, sale_type, status, created_at
FROM sales
WHERE status = 'completada'
  AND created_at >= $1
  AND created_at < $2
ORDER BY created_at
`

type ListCompletedSalesBetweenParams struct {
	FromTime pgtype.Timestamptz
	ToTime   pgtype.Timestamptz
}

func (q *Queries) ListCompletedSalesBetween(ctx context.Context, arg ListCompletedSalesBetweenParams) ([]Sale, error) {
	rows, err := q.db.Query(ctx, listCompletedSalesBetween, arg.FromTime, arg.ToTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Sale
	for rows.Next() {
		var i Sale
		if err := rows.Scan(
			&i.ID,
			&i.Total,
			&i.PaymentMethod,
			&i.SaleType,
			&i.Status,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listCashMovementsBetween = `-- name: ListCashMovementsBetween :many
SELECT id, type, amount, concept, created_at
FROM cash_movements
WHERE created_at >= $1
  AND created_at < $2
ORDER BY created_at DESC
`

type ListCashMovementsBetweenParams struct {
	FromTime pgtype.Timestamptz
	ToTime   pgtype.Timestamptz
}

func (q *Queries) ListCashMovementsBetween(ctx context.Context, arg ListCashMovementsBetweenParams) ([]CashMovement, error) {
	rows, err := q.db.Query(ctx, listCashMovementsBetween, arg.FromTime, arg.ToTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CashMovement
	for rows.Next() {
		var i CashMovement
		if err := rows.Scan(
			&i.ID,
			&i.Type,
			&i.Amount,
			&i.Concept,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertCashMovement = `-- name: InsertCashMovement :one
INSERT INTO cash_movements (type, amount, concept)
VALUES ($1, $2, $3)
RETURNING id, type, amount, concept, created_at
`

type InsertCashMovementParams struct {
	Type    string
	Amount  pgtype.Numeric
	Concept string
}

func (q *Queries) InsertCashMovement(ctx context.Context, arg InsertCashMovementParams) (CashMovement, error) {
	row := q.db.QueryRow(ctx, insertCashMovement, arg.Type, arg.Amount, arg.Concept)
	var i CashMovement
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Amount,
		&i.Concept,
		&i.CreatedAt,
	)
	return i, err
}
