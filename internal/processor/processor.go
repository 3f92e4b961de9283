package processor

import (
	"context"

	"profile/internal/binding"
	"profile/internal/bridge"
	"profile/internal/core"
	postgresRepo "profile/internal/database/postgres/repository"
	cErr "profile/internal/pkg/error"
	"profile/internal/projection"

	"github.com/google/wire"
	"go.uber.org/zap"
)

type Syncer interface {
	Sync(ctx context.Context, uid string) error
}

type Binder interface {
	Bind(ctx context.Context, uid, insured string) (string, error)
}

type TenderStore interface {
	Exists(ctx context.Context, uid string) (bool, error)
	UpdateTenderOpened(ctx context.Context, uid string, opened bool) (int64, error)
}

// Registrar bridge.Executor 的註冊介面
type Registrar interface {
	Register(cmd core.CommandName, handler bridge.HandlerFunc)
}

// Processor 所有會修改 users 的 command 都在這裡執行，並在同一個流程內同步投影
type Processor struct {
	syncer Syncer
	binder Binder
	users  TenderStore
	logger *zap.Logger
}

func NewProcessor(syncer Syncer, binder Binder, users TenderStore, logger *zap.Logger) *Processor {
	return &Processor{syncer: syncer, binder: binder, users: users, logger: logger}
}

func (p *Processor) Register(r Registrar) {
	r.Register(core.CommandRefresh, p.Refresh)
	r.Register(core.CommandSetInsured, p.SetInsured)
	r.Register(core.CommandSetTenderOpened, p.SetTenderOpened)
}

// Refresh 無參數時全量重建
func (p *Processor) Refresh(ctx context.Context, args []any) (any, error) {
	a, err := parseRefresh(args)
	if err != nil {
		return nil, err
	}
	p.logger.Info("refresh", zap.String("uid", a.UID), zap.Bool("full", a.UID == ""))
	if err := p.syncer.Sync(ctx, a.UID); err != nil {
		return nil, err
	}
	return "success", nil
}

// SetInsured 回傳綁定後的 insured
func (p *Processor) SetInsured(ctx context.Context, args []any) (any, error) {
	a, err := parseSetInsured(args)
	if err != nil {
		return nil, err
	}
	p.logger.Info("setInsured", zap.String("uid", a.UID), zap.String("insured", a.Insured))
	return p.binder.Bind(ctx, a.UID, a.Insured)
}

func (p *Processor) SetTenderOpened(ctx context.Context, args []any) (any, error) {
	a, err := parseSetTenderOpened(args)
	if err != nil {
		return nil, err
	}
	p.logger.Info("setTenderOpened", zap.String("uid", a.UID), zap.Bool("opened", a.Opened))

	exists, err := p.users.Exists(ctx, a.UID)
	if err != nil {
		return nil, cErr.StoreError(err.Error())
	}
	if !exists {
		return nil, cErr.NotFound("user " + a.UID + " not found")
	}
	affected, err := p.users.UpdateTenderOpened(ctx, a.UID, a.Opened)
	if err != nil {
		return nil, cErr.StoreError(err.Error())
	}
	if affected == 0 {
		return nil, cErr.NotFound("user " + a.UID + " not found")
	}
	if err := p.syncer.Sync(ctx, a.UID); err != nil {
		return nil, err
	}
	return "success", nil
}

var ProviderSet = wire.NewSet(
	NewProcessor,
	wire.Bind(new(Syncer), new(*projection.Syncer)),
	wire.Bind(new(Binder), new(*binding.Resolver)),
	wire.Bind(new(TenderStore), new(*postgresRepo.UserRepository)),
)
