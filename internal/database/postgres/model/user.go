package model

import (
	"strings"

	"profile/internal/core"

	"github.com/jackc/pgx/v5/pgtype"
)

// UserColumns users 表欄位，順序與 UserRow.ScanTargets 一致
const UserColumns = `id, openid, name, gender, identity_no, phone, nickname, portrait, pnrid, ticket, inviter, created_at, updated_at, tender_opened, insured, max_orders`

// UserRow users 表的一列；文字欄位可能為 NULL
type UserRow struct {
	ID           string
	OpenID       pgtype.Text
	Name         pgtype.Text
	Gender       pgtype.Text
	IdentityNo   pgtype.Text
	Phone        pgtype.Text
	Nickname     pgtype.Text
	Portrait     pgtype.Text
	Pnrid        pgtype.Text
	Ticket       pgtype.Text
	Inviter      pgtype.Text
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
	TenderOpened pgtype.Bool
	Insured      pgtype.Text
	MaxOrders    pgtype.Int4
}

func (r *UserRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.OpenID, &r.Name, &r.Gender, &r.IdentityNo, &r.Phone, &r.Nickname,
		&r.Portrait, &r.Pnrid, &r.Ticket, &r.Inviter, &r.CreatedAt, &r.UpdatedAt,
		&r.TenderOpened, &r.Insured, &r.MaxOrders,
	}
}

// ToCore NULL 轉成空字串，其餘去除前後空白；insured 空白視為未綁定
func (r *UserRow) ToCore() *core.User {
	u := &core.User{
		ID:           strings.TrimSpace(r.ID),
		OpenID:       text(r.OpenID),
		Name:         text(r.Name),
		Gender:       text(r.Gender),
		IdentityNo:   text(r.IdentityNo),
		Phone:        text(r.Phone),
		Nickname:     text(r.Nickname),
		Portrait:     text(r.Portrait),
		Pnrid:        text(r.Pnrid),
		Ticket:       text(r.Ticket),
		Inviter:      text(r.Inviter),
		TenderOpened: r.TenderOpened.Valid && r.TenderOpened.Bool,
		MaxOrders:    int(r.MaxOrders.Int32),
	}
	if r.CreatedAt.Valid {
		u.CreatedAt = r.CreatedAt.Time.UTC()
	}
	if r.UpdatedAt.Valid {
		u.UpdatedAt = r.UpdatedAt.Time.UTC()
	}
	if insured := text(r.Insured); insured != "" {
		u.Insured = &insured
	}
	return u
}

func text(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return strings.TrimSpace(t.String)
}
