package peer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"profile/config"
	"profile/internal/bridge"
	"profile/internal/core"
	cErr "profile/internal/pkg/error"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Dispatcher 與 bridge.Dispatcher 相同的呼叫介面
type Dispatcher interface {
	DispatchTo(ctx context.Context, channel string, cmd core.CommandName, args ...any) (*core.Result, error)
}

// PersonClient 透過 command bridge 詢問 person 服務
type PersonClient struct {
	channel    string
	timeout    time.Duration
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewPersonClient(conf *config.Configuration, dispatcher Dispatcher, logger *zap.Logger) *PersonClient {
	channel := conf.Peer.PersonChannel
	if channel == "" {
		channel = "person"
	}
	return &PersonClient{channel: channel, timeout: conf.Peer.Timeout(), dispatcher: dispatcher, logger: logger}
}

// Verified person 不存在視為未驗證；其他失敗回傳 ExternalRequestError
func (c *PersonClient) Verified(ctx context.Context, personID string) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.dispatcher.DispatchTo(callCtx, c.channel, core.CommandGetPerson, personID)
	if err != nil {
		// 自己的期限到了才算 peer 逾時，呼叫端取消則原樣回傳
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			c.logger.Warn("peer: getPerson timed out", zap.String("person_id", personID), zap.Duration("timeout", c.timeout))
			return false, cErr.DispatchTimeout(fmt.Sprintf("getPerson: no answer within %s", c.timeout))
		}
		return false, err
	}
	switch result.Code {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, nil
	default:
		c.logger.Warn("peer: getPerson failed", zap.String("person_id", personID), zap.Int("code", result.Code), zap.String("msg", result.Msg))
		return false, cErr.ExternalRequestError("getPerson: " + result.Msg)
	}

	person, ok := result.Data.(map[string]any)
	if !ok {
		return false, nil
	}
	verified, _ := person["verified"].(bool)
	return verified, nil
}

var ProviderSet = wire.NewSet(
	NewPersonClient,
	wire.Bind(new(Dispatcher), new(*bridge.Dispatcher)),
)
