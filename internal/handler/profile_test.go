package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"profile/config"
	"profile/internal/core"
	"profile/internal/database/client"
	"profile/internal/database/fluentd/repository"
	"profile/internal/middleware"
	cErr "profile/internal/pkg/error"
	"profile/internal/service"
	"profile/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	uidA = "6f1c0c43-7a0e-4a56-8a3c-3e2b1f0a9d01"
	uidB = "6f1c0c43-7a0e-4a56-8a3c-3e2b1f0a9d02"
)

type fakeProjection struct {
	users map[string]*core.User
}

func (f *fakeProjection) GetEntity(_ context.Context, uid string) (*core.User, error) {
	return f.users[uid], nil
}

func (f *fakeProjection) GetEntities(_ context.Context, uids []string) ([]*core.User, error) {
	users := []*core.User{}
	for _, uid := range uids {
		if u, ok := f.users[uid]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeProjection) ListIDs(context.Context, int64, int64) ([]string, error) {
	return []string{uidA, uidB}, nil
}

func (f *fakeProjection) CountIDs(context.Context) (int64, error) { return 2, nil }

func (f *fakeProjection) GetOpenID(_ context.Context, uid string) (string, error) {
	if uid == uidA {
		return "wx-a", nil
	}
	return "", nil
}

func (f *fakeProjection) GetInviteUID(_ context.Context, key string) (string, error) {
	if key == "inv-b" {
		return uidB, nil
	}
	return "", nil
}

type fakeDispatcher struct {
	cmd    core.CommandName
	args   []any
	result *core.Result
	err    error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, cmd core.CommandName, args ...any) (*core.Result, error) {
	f.cmd, f.args = cmd, args
	return f.result, f.err
}

type envelope struct {
	RequestID   string          `json:"requestID"`
	Code        int             `json:"code"`
	Data        json.RawMessage `json:"data"`
	Message     string          `json:"message"`
	Description string          `json:"description"`
}

func newTestEngine(dispatcher *fakeDispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	conf := &config.Configuration{Discount: config.Discount{Tickets: []string{"VIP"}}}
	logger := zap.NewNop()
	trace := &telemetry.Trace{}
	logRepo := repository.NewLogRepository(conf, &client.NoopClient{})
	projection := &fakeProjection{users: map[string]*core.User{
		uidA: {ID: uidA, OpenID: "wx-a", Name: "alice", Ticket: "VIP"},
		uidB: {ID: uidB, Name: "bob"},
	}}
	h := NewProfileHandler(trace, service.NewProfileService(conf, trace, logger, projection, dispatcher))
	identity := middleware.NewIdentity(logger, trace)

	r := gin.New()
	r.Use(middleware.NewRecovery(logger, trace, conf, logRepo).ErrorHandler())
	r.Use(middleware.NewResponse(logger, trace, conf, logRepo).FormatHandler())
	me := r.Group("/profile/me", identity.Handler())
	me.GET("", h.Me)
	me.GET("/discount", h.Discount)
	me.PUT("/insured", h.SetInsured)
	r.GET("/profile/invites/:key", h.Invite)
	r.GET("/profile/users", h.List)
	r.POST("/profile/users/batch", h.Batch)
	r.GET("/profile/users/:userID", h.Get)
	r.GET("/profile/users/:userID/openid", h.OpenID)
	r.PUT("/profile/users/:userID/tender-opened", h.SetTenderOpened)
	r.POST("/profile/refresh", h.Refresh)
	return r
}

func do(t *testing.T, r *gin.Engine, method, target, body string, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestMeRequiresIdentity(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{})

	w, env := do(t, r, http.MethodGet, "/profile/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, cErr.UNAUTHORIZED, env.Code)
	assert.NotEmpty(t, env.RequestID)

	w, _ = do(t, r, http.MethodGet, "/profile/me", "", map[string]string{core.HeaderUserID: "42"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsUserWithoutOpenID(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{})

	w, env := do(t, r, http.MethodGet, "/profile/me", "", map[string]string{core.HeaderUserID: uidA})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, env.RequestID)

	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "alice", user["name"])
	assert.NotContains(t, user, "openid")
}

func TestDiscount(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{})

	_, env := do(t, r, http.MethodGet, "/profile/me/discount", "", map[string]string{core.HeaderUserID: uidB})
	assert.JSONEq(t, `{"discount":false}`, string(env.Data))

	_, env = do(t, r, http.MethodGet, "/profile/me/discount?recommend=VIP", "", map[string]string{core.HeaderUserID: uidB})
	assert.JSONEq(t, `{"discount":true}`, string(env.Data))
}

func TestSetInsured(t *testing.T) {
	dispatcher := &fakeDispatcher{result: core.OK("P-1")}
	r := newTestEngine(dispatcher)

	w, env := do(t, r, http.MethodPut, "/profile/me/insured", `{"insured":"P-1"}`, map[string]string{core.HeaderUserID: uidA})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"insured":"P-1"}`, string(env.Data))
	assert.Equal(t, core.CommandSetInsured, dispatcher.cmd)
	assert.Equal(t, []any{uidA, "P-1"}, dispatcher.args)
}

func TestSetInsuredConflict(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{result: core.Fail(http.StatusConflict, "already bound")})

	w, env := do(t, r, http.MethodPut, "/profile/me/insured", `{"insured":"P-1"}`, map[string]string{core.HeaderUserID: uidA})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, cErr.BINDING_CONFLICT, env.Code)
	assert.Equal(t, "already bound", env.Description)
}

func TestSetInsuredValidatesBody(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	r := newTestEngine(dispatcher)

	w, env := do(t, r, http.MethodPut, "/profile/me/insured", `{}`, map[string]string{core.HeaderUserID: uidA})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, cErr.BAD_REQUEST_BODY, env.Code)
	assert.Empty(t, dispatcher.cmd)
}

func TestTenderOpenedTimeout(t *testing.T) {
	dispatcher := &fakeDispatcher{err: cErr.DispatchTimeout("no result")}
	r := newTestEngine(dispatcher)

	w, env := do(t, r, http.MethodPut, "/profile/users/"+uidB+"/tender-opened", `{"opened":false}`, nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, cErr.DISPATCH_TIMEOUT, env.Code)
	assert.Equal(t, []any{false, uidB}, dispatcher.args)
}

func TestTenderOpenedRequiresFlag(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{})

	w, _ := do(t, r, http.MethodPut, "/profile/users/"+uidB+"/tender-opened", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserValidatesUUID(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{})

	w, env := do(t, r, http.MethodGet, "/profile/users/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, cErr.BAD_REQUEST_PARAMS, env.Code)

	w, _ = do(t, r, http.MethodGet, "/profile/users/"+uidB, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/profile/users/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenID(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{})

	_, env := do(t, r, http.MethodGet, "/profile/users/"+uidA+"/openid", "", nil)
	assert.JSONEq(t, `{"openid":"wx-a"}`, string(env.Data))
}

func TestInvite(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{})

	w, env := do(t, r, http.MethodGet, "/profile/invites/inv-b", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, uidB, user["id"])

	w, _ = do(t, r, http.MethodGet, "/profile/invites/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndBatch(t *testing.T) {
	r := newTestEngine(&fakeDispatcher{})

	_, env := do(t, r, http.MethodGet, "/profile/users?start=0&limit=2", "", nil)
	var page struct {
		Total int64            `json:"total"`
		Users []map[string]any `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Users, 2)

	w, _ := do(t, r, http.MethodGet, "/profile/users?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = do(t, r, http.MethodPost, "/profile/users/batch", `{"user_ids":["`+uidA+`","`+uidB+`"]}`, nil)
	var byID map[string]map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &byID))
	assert.Equal(t, "alice", byID[uidA]["name"])
	assert.Equal(t, "bob", byID[uidB]["name"])

	w, _ = do(t, r, http.MethodPost, "/profile/users/batch", `{"user_ids":["x"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefresh(t *testing.T) {
	dispatcher := &fakeDispatcher{result: core.OK("success")}
	r := newTestEngine(dispatcher)

	w, _ := do(t, r, http.MethodPost, "/profile/refresh", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, core.CommandRefresh, dispatcher.cmd)
	assert.Empty(t, dispatcher.args)

	w, _ = do(t, r, http.MethodPost, "/profile/refresh", `{"uid":"`+uidB+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{uidB}, dispatcher.args)
}
