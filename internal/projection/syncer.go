package projection

import (
	"context"

	"profile/internal/core"
	postgresRepo "profile/internal/database/postgres/repository"
	redisRepo "profile/internal/database/redis/repository"
	cErr "profile/internal/pkg/error"
	"profile/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// UserSource Source of Truth 的讀取端
type UserSource interface {
	FindByID(ctx context.Context, uid string) (*core.User, error)
	FindAll(ctx context.Context) ([]*core.User, error)
}

// ProjectionWriter 以單一 transaction 寫入投影
type ProjectionWriter interface {
	Apply(ctx context.Context, users []*core.User, full bool) error
}

// Syncer 把 users 表重寫到 Redis 投影
type Syncer struct {
	source UserSource
	writer ProjectionWriter
	trace  *telemetry.Trace
	metric *telemetry.Metric
	logger *zap.Logger
}

func NewSyncer(source UserSource, writer ProjectionWriter, trace *telemetry.Trace, metric *telemetry.Metric, logger *zap.Logger) *Syncer {
	return &Syncer{source: source, writer: writer, trace: trace, metric: metric, logger: logger}
}

// Sync uid 為空字串時全量重建，否則只同步該使用者；
// 使用者不存在時不寫入任何東西。失敗一律回傳 StoreError。
func (s *Syncer) Sync(ctx context.Context, uid string) (err error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanSync))
	defer func() { end(err) }()

	full := uid == ""
	scope := "user"
	if full {
		scope = "full"
	}
	meta := core.TraceSyncMeta{UserID: uid, Full: full}
	defer func() {
		s.trace.ApplyTraceAttributes(span, meta)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metric.IncSync(scope, outcome)
	}()

	var users []*core.User
	if full {
		users, err = s.source.FindAll(ctx)
	} else {
		var user *core.User
		user, err = s.source.FindByID(ctx, uid)
		if user != nil {
			users = []*core.User{user}
		}
	}
	if err != nil {
		s.logger.Error("sync: query source of truth", zap.String("uid", uid), zap.Error(err))
		return cErr.StoreError(err.Error())
	}
	meta.Rows = len(users)

	if !full && len(users) == 0 {
		s.logger.Debug("sync: user not found, nothing to write", zap.String("uid", uid))
		return nil
	}

	if err = s.writer.Apply(ctx, users, full); err != nil {
		s.logger.Error("sync: write projection", zap.String("uid", uid), zap.Bool("full", full), zap.Error(err))
		return cErr.StoreError(err.Error())
	}
	if full {
		s.logger.Info("sync: full rebuild done", zap.Int("users", len(users)))
	}
	return nil
}

// SyncMany 依序同步多個使用者，回傳第一個錯誤
func (s *Syncer) SyncMany(ctx context.Context, uids ...string) error {
	for _, uid := range uids {
		if uid == "" {
			continue
		}
		if err := s.Sync(ctx, uid); err != nil {
			return err
		}
	}
	return nil
}

var ProviderSet = wire.NewSet(
	NewSyncer,
	wire.Bind(new(UserSource), new(*postgresRepo.UserRepository)),
	wire.Bind(new(ProjectionWriter), new(*redisRepo.ProjectionRepository)),
)
