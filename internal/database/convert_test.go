package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTextRoundTrip(t *testing.T) {
	require.False(t, Text("").Valid)
	require.False(t, Text("   ").Valid)

	v := Text("  MTB-001 ")
	require.True(t, v.Valid)
	require.Equal(t, "MTB-001", v.String)
	require.Equal(t, "MTB-001", TextValue(v))
	require.Equal(t, "", TextValue(pgtype.Text{}))
}

func TestUUIDRoundTrip(t *testing.T) {
	require.False(t, UUID(uuid.Nil).Valid)

	id := uuid.New()
	require.Equal(t, id, UUIDValue(UUID(id)))
	require.Equal(t, uuid.Nil, UUIDValue(pgtype.UUID{}))
}

func TestNumericRoundTrip(t *testing.T) {
	for _, in := range []string{"0", "299.99", "-12.5", "1000000", "0.001"} {
		d := decimal.RequireFromString(in)
		got := Decimal(Numeric(d))
		require.True(t, d.Equal(got), "round trip %s gave %s", in, got)
	}
}

func TestDecimalNullAndNaN(t *testing.T) {
	require.True(t, Decimal(pgtype.Numeric{}).IsZero())
	require.True(t, Decimal(pgtype.Numeric{Valid: true, NaN: true}).IsZero())
	require.True(t, Decimal(pgtype.Numeric{Valid: true, InfinityModifier: pgtype.Infinity}).IsZero())
}

func TestSchemaDeclaresTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"products", "product_variants", "inventory_movements", "sales", "cash_movements", "settings"} {
		require.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
