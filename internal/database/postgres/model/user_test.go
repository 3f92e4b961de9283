package model

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCoreTrimsAndMapsNulls(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.FixedZone("CST", 8*3600))
	row := &UserRow{
		ID:           "6f1d3c1e-7a53-4a53-9c55-0d1f0b6c1a01",
		OpenID:       pgtype.Text{String: " oX1 ", Valid: true},
		Name:         pgtype.Text{String: "王小明  ", Valid: true},
		Pnrid:        pgtype.Text{},
		CreatedAt:    pgtype.Timestamptz{Time: created, Valid: true},
		TenderOpened: pgtype.Bool{Bool: true, Valid: true},
		Insured:      pgtype.Text{String: "P-100", Valid: true},
		MaxOrders:    pgtype.Int4{Int32: 3, Valid: true},
	}

	u := row.ToCore()
	assert.Equal(t, "oX1", u.OpenID)
	assert.Equal(t, "王小明", u.Name)
	assert.Equal(t, "", u.Pnrid)
	assert.True(t, u.TenderOpened)
	assert.Equal(t, 3, u.MaxOrders)
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
	assert.True(t, u.CreatedAt.Equal(created))
	assert.True(t, u.UpdatedAt.IsZero())
	require.NotNil(t, u.Insured)
	assert.Equal(t, "P-100", *u.Insured)
}

func TestToCoreBlankInsuredIsUnbound(t *testing.T) {
	row := &UserRow{ID: "u1", Insured: pgtype.Text{String: "   ", Valid: true}}
	assert.Nil(t, row.ToCore().Insured)
	assert.Len(t, row.ScanTargets(), 16)
}
