package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"profile/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWrapsUnknownErrors(t *testing.T) {
	appErr := From(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.HttpCode())
	assert.Equal(t, INTERNAL_ERROR, appErr.ErrorCode())
	assert.Equal(t, "boom", appErr.ErrorDesc())

	wrapped := fmt.Errorf("sync: %w", NotFound("uid"))
	assert.Equal(t, NOT_FOUND, From(wrapped).ErrorCode())
}

func TestErrorsIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("bind: %w", BindingConflict("already bound"))
	assert.ErrorIs(t, err, BindingConflict(""))
	assert.NotErrorIs(t, err, NotFound(""))
}

func TestDispatchTimeoutIsDistinctFromGatewayTimeout(t *testing.T) {
	timeout := DispatchTimeout("no result")
	assert.Equal(t, http.StatusGatewayTimeout, timeout.HttpCode())
	assert.NotErrorIs(t, timeout, GatewayTimeout(""))
}

func TestResultMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		code int
	}{
		{ValidateArgsErr("uid required"), http.StatusBadRequest},
		{NotFound("未找到對應用戶"), http.StatusNotFound},
		{BindingConflict("已在其他微信號上綁定"), http.StatusConflict},
		{StoreError("redis down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		result := ToResult(tc.err)
		assert.Equal(t, tc.code, result.Code)
		assert.Equal(t, tc.err.ErrorDesc(), result.Msg)
		assert.Nil(t, result.Data)

		back := FromResult(result)
		require.NotNil(t, back)
		assert.Equal(t, tc.code, back.HttpCode())
		assert.Equal(t, tc.err.ErrorDesc(), back.ErrorDesc())
	}
}

func TestFromResultSuccess(t *testing.T) {
	assert.Nil(t, FromResult(core.OK("success")))
	assert.Equal(t, INTERNAL_ERROR, FromResult(nil).ErrorCode())
}
