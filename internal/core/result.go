package core

import (
	"net/http"

	"github.com/tinylib/msgp/msgp"
)

// Result 寫回 correlation key 的結果，Code 沿用 HTTP 語意
type Result struct {
	Code int
	Data any
	Msg  string
}

func OK(data any) *Result {
	return &Result{Code: http.StatusOK, Data: data}
}

func Fail(code int, msg string) *Result {
	return &Result{Code: code, Msg: msg}
}

func (r *Result) Succeeded() bool {
	return r != nil && r.Code == http.StatusOK
}

// MarshalMsg implements msgp.Marshaler
func (r *Result) MarshalMsg(b []byte) (o []byte, err error) {
	var n uint32 = 1
	if r.Data != nil {
		n++
	}
	if r.Msg != "" {
		n++
	}
	o = msgp.AppendMapHeader(b, n)
	o = msgp.AppendString(o, "code")
	o = msgp.AppendInt(o, r.Code)
	if r.Data != nil {
		o = msgp.AppendString(o, "data")
		o, err = msgp.AppendIntf(o, r.Data)
		if err != nil {
			return nil, msgp.WrapError(err, "Data")
		}
	}
	if r.Msg != "" {
		o = msgp.AppendString(o, "msg")
		o = msgp.AppendString(o, r.Msg)
	}
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (r *Result) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var sz uint32
	sz, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return nil, err
	}
	*r = Result{}
	for ; sz > 0; sz-- {
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, err
		}
		switch string(field) {
		case "code":
			r.Code, bts, err = msgp.ReadIntBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "Code")
			}
		case "data":
			r.Data, bts, err = msgp.ReadIntfBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "Data")
			}
		case "msg":
			r.Msg, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return nil, msgp.WrapError(err, "Msg")
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
