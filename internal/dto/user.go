package dto

import (
	"time"

	"profile/internal/core"
)

// 綁定互助會員
type SetInsuredDto struct {
	Insured string `json:"insured" binding:"required"`
}

// 開啟/關閉投標
type SetTenderOpenedDto struct {
	Opened *bool `json:"opened" binding:"required"`
}

// uid 為空代表全量重建
type RefreshDto struct {
	UID string `json:"uid,omitempty" binding:"omitempty,uuid"`
}

type BatchUsersDto struct {
	UserIDs []string `json:"user_ids" binding:"required,max=500,dive,uuid"`
}

// 分頁查詢，對應 profile list 的 LRANGE
type ListUsersQuery struct {
	Start int64 `form:"start" binding:"min=0"`
	Limit int64 `form:"limit" binding:"omitempty,min=1,max=500"`
}

type UserResponseDto struct {
	ID           string    `json:"id"`
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

type UserListDto struct {
	Total int64              `json:"total"`
	Users []*UserResponseDto `json:"users"`
}

type OpenIDDto struct {
	OpenID string `json:"openid"`
}

type DiscountDto struct {
	Discount bool `json:"discount"`
}

type InsuredDto struct {
	Insured string `json:"insured"`
}

// openid 不對外輸出
func ToUserResponseDto(u *core.User) *UserResponseDto {
	if u == nil {
		return nil
	}
	return &UserResponseDto{
		ID:           u.ID,
		Name:         u.Name,
		Gender:       u.Gender,
		IdentityNo:   u.IdentityNo,
		Phone:        u.Phone,
		Nickname:     u.Nickname,
		Portrait:     u.Portrait,
		Pnrid:        u.Pnrid,
		Ticket:       u.Ticket,
		Inviter:      u.Inviter,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		TenderOpened: u.TenderOpened,
		Insured:      u.Insured,
		MaxOrders:    u.MaxOrders,
	}
}

func ToUserResponseDtos(users []*core.User) []*UserResponseDto {
	resp := make([]*UserResponseDto, len(users))
	for i, u := range users {
		resp[i] = ToUserResponseDto(u)
	}
	return resp
}
