package core

// ─── Database Types ────────────────────────────────────────────────────────────

// DatabaseType defines the type of database
type DatabaseType string

const (
	Postgres DatabaseType = "postgres"
	Redis    DatabaseType = "redis"
)

type PostgresTable string
type RedisKey string
type FluentdSubTag string

// ─── Postgres ──────────────────────────────────────────────────────────────────
const (
	PostgresTableUsers PostgresTable = "users"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

// 以下皆為 users 表的投影，可隨時由 Postgres 重建
const (
	RedisKeyProfileEntities RedisKey = "profile-entities" // uid -> msgpack(User)，不含 openid
	RedisKeyWxUser          RedisKey = "wxuser"           // uid <-> openid 雙向
	RedisKeyPnridUID        RedisKey = "pnrid-uid"        // pnrid -> uid
	RedisKeyProfileList     RedisKey = "profile"          // uid 列表（分頁用）
	RedisKeyOpenIDTicket    RedisKey = "openid_ticket"    // ticket 索引
	RedisKeyInvitePrefix    RedisKey = "InviteKey:"       // 邀請碼 -> uid
)

// ProjectionKeys 全量 refresh 時要先清掉的 key
var ProjectionKeys = []RedisKey{
	RedisKeyProfileEntities,
	RedisKeyPnridUID,
	RedisKeyProfileList,
	RedisKeyWxUser,
	RedisKeyOpenIDTicket,
}

func (k RedisKey) String() string {
	return string(k)
}

const (
	FluentdRequest  FluentdSubTag = "request_log"
	FluentdResponse FluentdSubTag = "response_log"
	FluentdCommand  FluentdSubTag = "command_log"
)
