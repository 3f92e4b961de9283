package core

import (
	"errors"
	"fmt"

	"github.com/tinylib/msgp/msgp"
)

// CommandName processor 接受的指令
type CommandName string

const (
	CommandRefresh         CommandName = "refresh"
	CommandSetInsured      CommandName = "setInsured"
	CommandSetTenderOpened CommandName = "setTenderOpened"
	// 對端 person 服務
	CommandGetPerson CommandName = "getPerson"
)

var ErrMissingCorrelation = errors.New("envelope has no correlation id")

// Envelope 在頻道上傳遞的訊息，Args 最後一個元素是 correlation id
type Envelope struct {
	Cmd  string
	Args []any
}

// CorrelationID 取出最後一個參數，並回傳其餘參數
func (e *Envelope) CorrelationID() (string, []any, error) {
	if len(e.Args) == 0 {
		return "", nil, ErrMissingCorrelation
	}
	id, ok := e.Args[len(e.Args)-1].(string)
	if !ok || id == "" {
		return "", nil, ErrMissingCorrelation
	}
	return id, e.Args[:len(e.Args)-1], nil
}

// MarshalMsg implements msgp.Marshaler
func (e *Envelope) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.AppendMapHeader(b, 2)
	o = msgp.AppendString(o, "cmd")
	o = msgp.AppendString(o, e.Cmd)
	o = msgp.AppendString(o, "args")
	o = msgp.AppendArrayHeader(o, uint32(len(e.Args)))
	for i, arg := range e.Args {
		o, err = msgp.AppendIntf(o, arg)
		if err != nil {
			return nil, msgp.WrapError(err, "Args", i)
		}
	}
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (e *Envelope) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var sz uint32
	sz, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, err
	}
	*e = Envelope{}
	for ; sz > 0; sz-- {
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, err
		}
		switch string(field) {
		case "cmd":
			e.Cmd, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "Cmd")
			}
		case "args":
			var n uint32
			n, bts, err = msgp.ReadArrayHeaderBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "Args")
			}
			e.Args = make([]any, n)
			for i := range e.Args {
				e.Args[i], bts, err = msgp.ReadIntfBytes(bts)
				if err != nil {
					return nil, msgp.WrapError(err, "Args", i)
				}
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				return nil, err
			}
		}
	}
	return bts, nil
}

func (e *Envelope) String() string {
	return fmt.Sprintf("%s%v", e.Cmd, e.Args)
}
