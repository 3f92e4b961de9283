package binding

import (
	"context"
	"errors"

	"profile/internal/core"
	postgresRepo "profile/internal/database/postgres/repository"
	cErr "profile/internal/pkg/error"
	"profile/internal/telemetry"

	"go.uber.org/zap"
)

// UserStore FindInsuredHolders 只是快照；AssignInsured 與 StealInsured 必須在
// 同一個 insured 上互斥，並在寫入前重新確認持有者，不符時回傳 ErrInsuredChanged。
type UserStore interface {
	FindByID(ctx context.Context, uid string) (*core.User, error)
	FindInsuredHolders(ctx context.Context, insured, exceptUID string) ([]string, error)
	AssignInsured(ctx context.Context, uid, insured string) error
	StealInsured(ctx context.Context, uid, insured string, holders []string) error
}

type Syncer interface {
	SyncMany(ctx context.Context, uids ...string) error
}

type PersonVerifier interface {
	Verified(ctx context.Context, personID string) (bool, error)
}

const (
	outcomeUnchanged = "unchanged"
	outcomeKept      = "kept"
	outcomeAssigned  = "assigned"
	outcomeStolen    = "stolen"
	outcomeConflict  = "conflict"
)

// Resolver 維持「一個 insured 最多只有一個持有者」
type Resolver struct {
	users  UserStore
	syncer Syncer
	person PersonVerifier
	trace  *telemetry.Trace
	logger *zap.Logger
}

func NewResolver(users UserStore, syncer Syncer, person PersonVerifier, trace *telemetry.Trace, logger *zap.Logger) *Resolver {
	return &Resolver{users: users, syncer: syncer, person: person, trace: trace, logger: logger}
}

// Bind 把 insured 綁到 uid，回傳綁定後 uid 實際持有的 insured。
//
// 已持有相同 insured 時不做任何修改；已持有另一個已認證的 insured 時保留原綁定。
// 其他使用者持有且已認證回傳 BindingConflict；未認證則在同一個 transaction 內搶綁，
// 之後同步所有受影響的使用者。
func (r *Resolver) Bind(ctx context.Context, uid, insured string) (bound string, err error) {
	ctx, span, end := r.trace.WithSpan(ctx)
	meta := core.TraceBindingMeta{UserID: uid, Insured: insured}
	defer func() {
		r.trace.ApplyTraceAttributes(span, meta)
		end(err)
	}()

	user, err := r.users.FindByID(ctx, uid)
	if err != nil {
		return "", cErr.StoreError(err.Error())
	}
	if user == nil {
		return "", cErr.NotFound("user " + uid + " not found")
	}

	if user.HoldsInsured(insured) {
		meta.Outcome = outcomeUnchanged
		return insured, nil
	}

	if user.Insured != nil {
		current := *user.Insured
		verified, verr := r.person.Verified(ctx, current)
		if verr != nil {
			r.logger.Warn("binding: verify current insured, treating as unverified",
				zap.String("uid", uid), zap.String("insured", current), zap.Error(verr))
		} else if verified {
			meta.Outcome = outcomeKept
			return current, nil
		}
	}

	holders, err := r.users.FindInsuredHolders(ctx, insured, uid)
	if err != nil {
		return "", cErr.StoreError(err.Error())
	}
	meta.Holders = holders

	if len(holders) == 0 {
		if err = r.users.AssignInsured(ctx, uid, insured); err != nil {
			return "", r.mapStoreErr(err, uid)
		}
		meta.Outcome = outcomeAssigned
		return insured, r.syncer.SyncMany(ctx, uid)
	}

	verified, err := r.person.Verified(ctx, insured)
	if err != nil {
		return "", err
	}
	meta.Verified = verified
	if verified {
		meta.Outcome = outcomeConflict
		return "", cErr.BindingConflict("insured " + insured + " is verified and bound to another account")
	}

	if err = r.users.StealInsured(ctx, uid, insured, holders); err != nil {
		return "", r.mapStoreErr(err, uid)
	}
	meta.Outcome = outcomeStolen
	r.logger.Info("binding: insured moved to new holder",
		zap.String("uid", uid), zap.String("insured", insured), zap.Strings("previous", holders))

	touched := append([]string{uid}, holders...)
	return insured, r.syncer.SyncMany(ctx, touched...)
}

func (r *Resolver) mapStoreErr(err error, uid string) error {
	switch {
	case errors.Is(err, postgresRepo.ErrInsuredChanged):
		return cErr.BindingConflict("insured binding changed concurrently, retry")
	case errors.Is(err, postgresRepo.ErrUserMissing):
		return cErr.NotFound("user " + uid + " not found")
	default:
		return cErr.StoreError(err.Error())
	}
}
