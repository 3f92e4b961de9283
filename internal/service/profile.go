package service

import (
	"context"
	"fmt"
	"slices"

	"profile/config"
	"profile/internal/core"
	"profile/internal/dto"
	cErr "profile/internal/pkg/error"
	"profile/internal/telemetry"

	"go.uber.org/zap"
)

const defaultListLimit = 20

// ProjectionReader 只讀 redis 投影，HTTP 讀取不經過 Postgres
type ProjectionReader interface {
	GetEntity(ctx context.Context, uid string) (*core.User, error)
	GetEntities(ctx context.Context, uids []string) ([]*core.User, error)
	ListIDs(ctx context.Context, start, stop int64) ([]string, error)
	CountIDs(ctx context.Context) (int64, error)
	GetOpenID(ctx context.Context, uid string) (string, error)
	GetInviteUID(ctx context.Context, key string) (string, error)
}

// CommandDispatcher 寫入一律交給 processor
type CommandDispatcher interface {
	Dispatch(ctx context.Context, cmd core.CommandName, args ...any) (*core.Result, error)
}

type ProfileService struct {
	trace      *telemetry.Trace
	logger     *zap.Logger
	tickets    []string
	projection ProjectionReader
	dispatcher CommandDispatcher
}

func NewProfileService(conf *config.Configuration, trace *telemetry.Trace, logger *zap.Logger, projection ProjectionReader, dispatcher CommandDispatcher) *ProfileService {
	return &ProfileService{
		trace:      trace,
		logger:     logger,
		tickets:    conf.Discount.Tickets,
		projection: projection,
		dispatcher: dispatcher,
	}
}

// GetUser 取得單一用戶，投影中不存在視為 404
func (s *ProfileService) GetUser(ctx context.Context, uid string) (*dto.UserResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	user, err := s.projection.GetEntity(ctx, uid)
	if err != nil {
		s.logger.Error("projection GetEntity", zap.String("uid", uid), zap.Error(err))
		return nil, cErr.StoreError("projection GetEntity error")
	}
	if user == nil {
		return nil, cErr.NotFound(fmt.Sprintf("user %s not found", uid))
	}
	return dto.ToUserResponseDto(user), nil
}

// GetDiscountStatus 自己的 ticket 或推薦碼任一在優惠名單內即成立
func (s *ProfileService) GetDiscountStatus(ctx context.Context, uid, recommend string) (*dto.DiscountDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	user, err := s.projection.GetEntity(ctx, uid)
	if err != nil {
		s.logger.Error("projection GetEntity", zap.String("uid", uid), zap.Error(err))
		return nil, cErr.StoreError("projection GetEntity error")
	}
	if user == nil {
		return nil, cErr.NotFound(fmt.Sprintf("user %s not found", uid))
	}
	discount := s.isDiscountTicket(user.Ticket) || s.isDiscountTicket(recommend)
	return &dto.DiscountDto{Discount: discount}, nil
}

func (s *ProfileService) isDiscountTicket(ticket string) bool {
	return ticket != "" && slices.Contains(s.tickets, ticket)
}

// GetUserForInvite 依邀請碼找到邀請人
func (s *ProfileService) GetUserForInvite(ctx context.Context, key string) (*dto.UserResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	uid, err := s.projection.GetInviteUID(ctx, key)
	if err != nil {
		s.logger.Error("projection GetInviteUID", zap.String("key", key), zap.Error(err))
		return nil, cErr.StoreError("projection GetInviteUID error")
	}
	if uid == "" {
		return nil, cErr.NotFound("invite key not found")
	}
	return s.GetUser(ctx, uid)
}

func (s *ProfileService) GetUserOpenID(ctx context.Context, uid string) (*dto.OpenIDDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	openID, err := s.projection.GetOpenID(ctx, uid)
	if err != nil {
		s.logger.Error("projection GetOpenID", zap.String("uid", uid), zap.Error(err))
		return nil, cErr.StoreError("projection GetOpenID error")
	}
	return &dto.OpenIDDto{OpenID: openID}, nil
}

// ListUsers 依 profile list 順序分頁，list 只在全量 refresh 時重建
func (s *ProfileService) ListUsers(ctx context.Context, start, limit int64) (*dto.UserListDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if limit <= 0 {
		limit = defaultListLimit
	}
	total, err := s.projection.CountIDs(ctx)
	if err != nil {
		s.logger.Error("projection CountIDs", zap.Error(err))
		return nil, cErr.StoreError("projection CountIDs error")
	}
	uids, err := s.projection.ListIDs(ctx, start, start+limit-1)
	if err != nil {
		s.logger.Error("projection ListIDs", zap.Int64("start", start), zap.Int64("limit", limit), zap.Error(err))
		return nil, cErr.StoreError("projection ListIDs error")
	}
	users, err := s.projection.GetEntities(ctx, uids)
	if err != nil {
		s.logger.Error("projection GetEntities", zap.Error(err))
		return nil, cErr.StoreError("projection GetEntities error")
	}
	return &dto.UserListDto{Total: total, Users: dto.ToUserResponseDtos(users)}, nil
}

// GetUsersByIDs 回傳 uid -> user，不存在的 uid 不出現在結果內
func (s *ProfileService) GetUsersByIDs(ctx context.Context, uids []string) (map[string]*dto.UserResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	users, err := s.projection.GetEntities(ctx, uids)
	if err != nil {
		s.logger.Error("projection GetEntities", zap.Int("count", len(uids)), zap.Error(err))
		return nil, cErr.StoreError("projection GetEntities error")
	}
	resp := make(map[string]*dto.UserResponseDto, len(users))
	for _, u := range users {
		resp[u.ID] = dto.ToUserResponseDto(u)
	}
	return resp, nil
}

// SetInsured 回傳實際綁定的 insured（可能是原本已驗證的綁定）
func (s *ProfileService) SetInsured(ctx context.Context, uid, insured string) (*dto.InsuredDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	result, err := s.dispatch(ctx, core.CommandSetInsured, uid, insured)
	if err != nil {
		return nil, err
	}
	bound, _ := result.Data.(string)
	return &dto.InsuredDto{Insured: bound}, nil
}

func (s *ProfileService) SetTenderOpened(ctx context.Context, uid string, opened bool) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	_, err := s.dispatch(ctx, core.CommandSetTenderOpened, opened, uid)
	return err
}

// Refresh uid 為空代表全量重建
func (s *ProfileService) Refresh(ctx context.Context, uid string) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	var args []any
	if uid != "" {
		args = append(args, uid)
	}
	_, err := s.dispatch(ctx, core.CommandRefresh, args...)
	return err
}

// dispatch 把 bridge 錯誤與 processor 回報的失敗都轉成 *cErr.Error
func (s *ProfileService) dispatch(ctx context.Context, cmd core.CommandName, args ...any) (*core.Result, error) {
	result, err := s.dispatcher.Dispatch(ctx, cmd, args...)
	if err != nil {
		return nil, cErr.From(err)
	}
	if appErr := cErr.FromResult(result); appErr != nil {
		return nil, appErr
	}
	return result, nil
}
