package response

import (
	"net/http"
	"profile/internal/core"
	cErr "profile/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

type Response struct {
	RequestID   string `json:"requestID"`
	Code        int    `json:"code"`
	Data        any    `json:"data"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

func Success(c *gin.Context, data any) {
	message := "Request Success"
	if msg, ok := data.(gin.H); ok && msg["message"] != nil {
		if s, ok := msg["message"].(string); ok && s != "" {
			message = s
		}
		delete(msg, "message")
	}
	c.Set("data", data)
	c.Set("message", message)
	c.Abort()
}

// Result 把 processor 的結果轉成 HTTP 回應
func Result(c *gin.Context, result *core.Result) {
	if appErr := cErr.FromResult(result); appErr != nil {
		AbortWithError(c, appErr)
		return
	}
	Success(c, result.Data)
}

func AbortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, RequestID string, httpCode int, errorCode int, msg string, desc string) {
	c.JSON(httpCode, Response{
		RequestID:   RequestID,
		Code:        errorCode,
		Data:        nil,
		Message:     msg,
		Description: desc,
	})
	c.Abort()
}

func FailByErr(c *gin.Context, RequestID string, err error) {
	v := cErr.From(err)
	if v == nil {
		Fail(c, RequestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, "internal-server-error", "internal error")
		return
	}
	Fail(c, RequestID, v.HttpCode(), v.ErrorCode(), v.Error(), v.ErrorDesc())
}
