package error

import (
	"net/http"

	"profile/internal/core"
)

// ToResult 把錯誤編成 correlation 結果；業務錯誤與成功走同一種格式
func ToResult(err error) *core.Result {
	appErr := From(err)
	msg := appErr.ErrorDesc()
	if msg == "" {
		msg = appErr.Error()
	}
	return core.Fail(appErr.HttpCode(), msg)
}

// FromResult server 端把非 200 的結果還原成 *Error，成功時回傳 nil
func FromResult(result *core.Result) *Error {
	if result == nil {
		return InternalServer("empty result")
	}
	if result.Code == http.StatusOK {
		return nil
	}
	return MapHttpStatusToError(result.Code, result.Msg)
}
