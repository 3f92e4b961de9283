package core

import (
	"time"

	"github.com/tinylib/msgp/msgp"
)

// User users 表的一列。OpenID 只存在 wxuser 索引，不進 profile-entities
type User struct {
	ID           string    `json:"id"`
	OpenID       string    `json:"-"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender"`
	IdentityNo   string    `json:"identity_no"`
	Phone        string    `json:"phone"`
	Nickname     string    `json:"nickname"`
	Portrait     string    `json:"portrait"`
	Pnrid        string    `json:"pnrid"`
	Ticket       string    `json:"ticket"`
	Inviter      string    `json:"inviter"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	TenderOpened bool      `json:"tender_opened"`
	Insured      *string   `json:"insured"`
	MaxOrders    int       `json:"max_orders"`
}

// Projection 回傳去除 openid 的副本
func (u *User) Projection() *User {
	p := *u
	p.OpenID = ""
	return &p
}

// HoldsInsured 是否已綁定該互助會員
func (u *User) HoldsInsured(insured string) bool {
	return u.Insured != nil && *u.Insured == insured
}

const userFieldCount = 15

// MarshalMsg implements msgp.Marshaler；openid 只有非空時才寫入
func (u *User) MarshalMsg(b []byte) (o []byte, err error) {
	n := uint32(userFieldCount)
	if u.OpenID != "" {
		n++
	}
	o = msgp.AppendMapHeader(b, n)
	o = msgp.AppendString(o, "id")
	o = msgp.AppendString(o, u.ID)
	if u.OpenID != "" {
		o = msgp.AppendString(o, "openid")
		o = msgp.AppendString(o, u.OpenID)
	}
	o = msgp.AppendString(o, "name")
	o = msgp.AppendString(o, u.Name)
	o = msgp.AppendString(o, "gender")
	o = msgp.AppendString(o, u.Gender)
	o = msgp.AppendString(o, "identity_no")
	o = msgp.AppendString(o, u.IdentityNo)
	o = msgp.AppendString(o, "phone")
	o = msgp.AppendString(o, u.Phone)
	o = msgp.AppendString(o, "nickname")
	o = msgp.AppendString(o, u.Nickname)
	o = msgp.AppendString(o, "portrait")
	o = msgp.AppendString(o, u.Portrait)
	o = msgp.AppendString(o, "pnrid")
	o = msgp.AppendString(o, u.Pnrid)
	o = msgp.AppendString(o, "ticket")
	o = msgp.AppendString(o, u.Ticket)
	o = msgp.AppendString(o, "inviter")
	o = msgp.AppendString(o, u.Inviter)
	o = msgp.AppendString(o, "created_at")
	o = msgp.AppendTime(o, u.CreatedAt)
	o = msgp.AppendString(o, "updated_at")
	o = msgp.AppendTime(o, u.UpdatedAt)
	o = msgp.AppendString(o, "tender_opened")
	o = msgp.AppendBool(o, u.TenderOpened)
	o = msgp.AppendString(o, "insured")
	if u.Insured == nil {
		o = msgp.AppendNil(o)
	} else {
		o = msgp.AppendString(o, *u.Insured)
	}
	o = msgp.AppendString(o, "max_orders")
	o = msgp.AppendInt(o, u.MaxOrders)
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (u *User) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var sz uint32
	sz, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, err
	}
	*u = User{}
	for ; sz > 0; sz-- {
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, err
		}
		key := string(field)
		switch key {
		case "id":
			u.ID, bts, err = msgp.ReadStringBytes(bts)
		case "openid":
			u.OpenID, bts, err = msgp.ReadStringBytes(bts)
		case "name":
			u.Name, bts, err = msgp.ReadStringBytes(bts)
		case "gender":
			u.Gender, bts, err = msgp.ReadStringBytes(bts)
		case "identity_no":
			u.IdentityNo, bts, err = msgp.ReadStringBytes(bts)
		case "phone":
			u.Phone, bts, err = msgp.ReadStringBytes(bts)
		case "nickname":
			u.Nickname, bts, err = msgp.ReadStringBytes(bts)
		case "portrait":
			u.Portrait, bts, err = msgp.ReadStringBytes(bts)
		case "pnrid":
			u.Pnrid, bts, err = msgp.ReadStringBytes(bts)
		case "ticket":
			u.Ticket, bts, err = msgp.ReadStringBytes(bts)
		case "inviter":
			u.Inviter, bts, err = msgp.ReadStringBytes(bts)
		case "created_at":
			u.CreatedAt, bts, err = msgp.ReadTimeBytes(bts)
			u.CreatedAt = u.CreatedAt.UTC()
		case "updated_at":
			u.UpdatedAt, bts, err = msgp.ReadTimeBytes(bts)
			u.UpdatedAt = u.UpdatedAt.UTC()
		case "tender_opened":
			u.TenderOpened, bts, err = msgp.ReadBoolBytes(bts)
		case "insured":
			if msgp.IsNil(bts) {
				bts, err = msgp.ReadNilBytes(bts)
				u.Insured = nil
			} else {
				var s string
				s, bts, err = msgp.ReadStringBytes(bts)
				u.Insured = &s
			}
		case "max_orders":
			u.MaxOrders, bts, err = msgp.ReadIntBytes(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return nil, msgp.WrapError(err, key)
		}
	}
	return bts, nil
}

// DecodeUser 解 profile-entities 內的值
func DecodeUser(b []byte) (*User, error) {
	u := &User{}
	if _, err := u.UnmarshalMsg(b); err != nil {
		return nil, err
	}
	return u, nil
}
