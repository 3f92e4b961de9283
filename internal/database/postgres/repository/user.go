package repository

import (
	"context"
	"errors"
	"fmt"

	"profile/internal/core"
	"profile/internal/database/postgres/model"
	"profile/internal/telemetry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrInsuredChanged 搶綁時持有者已不再持有該 insured（或被他人搶先綁定）
	ErrInsuredChanged = errors.New("insured binding changed concurrently")
	// ErrUserMissing 更新目標不存在
	ErrUserMissing = errors.New("user does not exist")
)

const uniqueViolation = "23505"

// PgxPool *pgxpool.Pool 與 pgxmock 皆滿足
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	pool   PgxPool
	trace  *telemetry.Trace
	logger *zap.Logger
}

func NewUserRepository(pool PgxPool, trace *telemetry.Trace, logger *zap.Logger) *UserRepository {
	return &UserRepository{pool: pool, trace: trace, logger: logger}
}

var (
	selectUserByID = `SELECT ` + model.UserColumns + ` FROM ` + string(core.PostgresTableUsers) + ` WHERE id = $1`
	selectAllUsers = `SELECT ` + model.UserColumns + ` FROM ` + string(core.PostgresTableUsers) + ` ORDER BY created_at, id`
)

// FindByID 不存在時回傳 (nil, nil)
func (repository *UserRepository) FindByID(ctx context.Context, uid string) (_ *core.User, err error) {
	ctx, span, end := repository.trace.WithSpan(ctx)
	defer func() { end(err) }()
	meta := core.TraceUserRepoMeta{Op: "find_by_id", UserID: uid}
	defer func() { repository.trace.ApplyTraceAttributes(span, meta) }()

	var row model.UserRow
	if err = repository.pool.QueryRow(ctx, selectUserByID, uid).Scan(row.ScanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %s: %w", uid, err)
	}
	meta.Count = 1
	return row.ToCore(), nil
}

// FindAll 依建立時間排序，作為 profile 列表的順序
func (repository *UserRepository) FindAll(ctx context.Context) (_ []*core.User, err error) {
	ctx, span, end := repository.trace.WithSpan(ctx)
	defer func() { end(err) }()

	rows, err := repository.pool.Query(ctx, selectAllUsers)
	if err != nil {
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	var users []*core.User
	for rows.Next() {
		var row model.UserRow
		if err = rows.Scan(row.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, row.ToCore())
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	repository.trace.ApplyTraceAttributes(span, core.TraceUserRepoMeta{Op: "find_all", Count: len(users)})
	return users, nil
}

func (repository *UserRepository) Exists(ctx context.Context, uid string) (bool, error) {
	var count int64
	query := `SELECT count(1) FROM ` + string(core.PostgresTableUsers) + ` WHERE id = $1`
	if err := repository.pool.QueryRow(ctx, query, uid).Scan(&count); err != nil {
		return false, fmt.Errorf("count user %s: %w", uid, err)
	}
	return count > 0, nil
}

// UpdateTenderOpened 回傳受影響列數
func (repository *UserRepository) UpdateTenderOpened(ctx context.Context, uid string, opened bool) (int64, error) {
	query := `UPDATE ` + string(core.PostgresTableUsers) + ` SET tender_opened = $1, updated_at = now() WHERE id = $2`
	tag, err := repository.pool.Exec(ctx, query, opened, uid)
	if err != nil {
		return 0, fmt.Errorf("update tender_opened of %s: %w", uid, err)
	}
	return tag.RowsAffected(), nil
}

// rowQuerier pool 與 tx 共用的查詢介面
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// FindInsuredHolders 目前持有 insured 的其他使用者
func (repository *UserRepository) FindInsuredHolders(ctx context.Context, insured, exceptUID string) (_ []string, err error) {
	ctx, span, end := repository.trace.WithSpan(ctx)
	defer func() { end(err) }()

	holders, err := queryHolders(ctx, repository.pool, insured, exceptUID)
	if err != nil {
		return nil, err
	}
	repository.trace.ApplyTraceAttributes(span, core.TraceUserRepoMeta{Op: "find_holders", Insured: insured, Count: len(holders)})
	return holders, nil
}

func queryHolders(ctx context.Context, q rowQuerier, insured, exceptUID string) ([]string, error) {
	query := `SELECT id FROM ` + string(core.PostgresTableUsers) + ` WHERE insured = $1 AND id <> $2 ORDER BY id`
	rows, err := q.Query(ctx, query, insured, exceptUID)
	if err != nil {
		return nil, fmt.Errorf("find holders of %s: %w", insured, err)
	}
	defer rows.Close()

	var holders []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan holder: %w", err)
		}
		holders = append(holders, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holders: %w", err)
	}
	return holders, nil
}

// AssignInsured 綁定沒有其他持有者的 insured。
// 在 transaction 內鎖住該 insured 後重新檢查持有者，期間有人綁走就回傳 ErrInsuredChanged。
func (repository *UserRepository) AssignInsured(ctx context.Context, uid, insured string) (err error) {
	ctx, span, end := repository.trace.WithSpan(ctx)
	defer func() { end(err) }()
	meta := core.TraceUserRepoMeta{Op: "assign_insured", UserID: uid, Insured: insured}
	defer func() { repository.trace.ApplyTraceAttributes(span, meta) }()

	return repository.withInsuredLock(ctx, uid, insured, func(tx pgx.Tx) error {
		holders, err := queryHolders(ctx, tx, insured, uid)
		if err != nil {
			return err
		}
		if len(holders) > 0 {
			return ErrInsuredChanged
		}
		affected, err := assignClaimant(ctx, tx, uid, insured)
		meta.Affected += affected
		return err
	})
}

// StealInsured 在同一個 transaction 內清掉所有持有者並綁到 uid。
// 鎖住 insured 後持有者必須與 holders 完全相同，且每個持有者以 (id, insured) 比對後清除，
// 任一條件不符就整筆 rollback 並回傳 ErrInsuredChanged。
func (repository *UserRepository) StealInsured(ctx context.Context, uid, insured string, holders []string) (err error) {
	ctx, span, end := repository.trace.WithSpan(ctx)
	defer func() { end(err) }()
	meta := core.TraceUserRepoMeta{Op: "steal_insured", UserID: uid, Insured: insured, Count: len(holders)}
	defer func() { repository.trace.ApplyTraceAttributes(span, meta) }()

	return repository.withInsuredLock(ctx, uid, insured, func(tx pgx.Tx) error {
		current, err := queryHolders(ctx, tx, insured, uid)
		if err != nil {
			return err
		}
		if !sameHolders(current, holders) {
			return ErrInsuredChanged
		}

		clearHolder := `UPDATE ` + string(core.PostgresTableUsers) + ` SET insured = NULL, updated_at = now() WHERE id = $1 AND insured = $2`
		for _, holder := range holders {
			tag, execErr := tx.Exec(ctx, clearHolder, holder, insured)
			if execErr != nil {
				return fmt.Errorf("clear insured of %s: %w", holder, execErr)
			}
			if tag.RowsAffected() != 1 {
				return ErrInsuredChanged
			}
			meta.Affected += tag.RowsAffected()
		}

		affected, err := assignClaimant(ctx, tx, uid, insured)
		meta.Affected += affected
		return err
	})
}

// withInsuredLock 開 transaction 並以 advisory lock 讓同一個 insured 的綁定依序執行，fn 成功才 commit
func (repository *UserRepository) withInsuredLock(ctx context.Context, uid, insured string, fn func(tx pgx.Tx) error) error {
	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insured tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			repository.logger.Warn("rollback insured tx", zap.String("uid", uid), zap.String("insured", insured), zap.Error(rbErr))
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, insured); err != nil {
		return fmt.Errorf("lock insured %s: %w", insured, err)
	}
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insured tx: %w", err)
	}
	return nil
}

func assignClaimant(ctx context.Context, tx pgx.Tx, uid, insured string) (int64, error) {
	query := `UPDATE ` + string(core.PostgresTableUsers) + ` SET insured = $1, updated_at = now() WHERE id = $2`
	tag, err := tx.Exec(ctx, query, insured, uid)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrInsuredChanged
		}
		return 0, fmt.Errorf("assign insured to %s: %w", uid, err)
	}
	if tag.RowsAffected() != 1 {
		return 0, ErrUserMissing
	}
	return tag.RowsAffected(), nil
}

func sameHolders(current, expected []string) bool {
	if len(current) != len(expected) {
		return false
	}
	want := make(map[string]struct{}, len(expected))
	for _, id := range expected {
		want[id] = struct{}{}
	}
	for _, id := range current {
		if _, ok := want[id]; !ok {
			return false
		}
	}
	return true
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
