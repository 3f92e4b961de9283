package processor

import (
	"fmt"

	cErr "profile/internal/pkg/error"
	"profile/internal/pkg/request"
)

type RefreshArgs struct {
	UID string `validate:"omitempty,uuid"`
}

func (RefreshArgs) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"UID.uuid": "refresh: uid must be a uuid",
	}
}

type SetInsuredArgs struct {
	UID     string `validate:"required,uuid"`
	Insured string `validate:"required,max=64"`
}

func (SetInsuredArgs) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"UID.required":     "setInsured: uid is required",
		"UID.uuid":         "setInsured: uid must be a uuid",
		"Insured.required": "setInsured: insured is required",
		"Insured.max":      "setInsured: insured is too long",
	}
}

type SetTenderOpenedArgs struct {
	Opened bool
	UID    string `validate:"required,uuid"`
}

func (SetTenderOpenedArgs) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"UID.required": "setTenderOpened: uid is required",
		"UID.uuid":     "setTenderOpened: uid must be a uuid",
	}
}

// refresh([uid])
func parseRefresh(args []any) (RefreshArgs, error) {
	var a RefreshArgs
	if len(args) > 1 {
		return a, cErr.ValidateArgsErr(fmt.Sprintf("refresh: expected at most 1 argument, got %d", len(args)))
	}
	if len(args) == 1 && args[0] != nil {
		uid, ok := args[0].(string)
		if !ok {
			return a, cErr.ValidateArgsErr(fmt.Sprintf("refresh: uid must be a string, got %T", args[0]))
		}
		a.UID = uid
	}
	if appErr := request.Validate(a); appErr != nil {
		return a, appErr
	}
	return a, nil
}

// setInsured([uid, insured])
func parseSetInsured(args []any) (SetInsuredArgs, error) {
	var a SetInsuredArgs
	if len(args) != 2 {
		return a, cErr.ValidateArgsErr(fmt.Sprintf("setInsured: expected 2 arguments, got %d", len(args)))
	}
	uid, ok1 := args[0].(string)
	insured, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return a, cErr.ValidateArgsErr("setInsured: uid and insured must be strings")
	}
	a = SetInsuredArgs{UID: uid, Insured: insured}
	if appErr := request.Validate(a); appErr != nil {
		return a, appErr
	}
	return a, nil
}

// setTenderOpened([flag, uid])
func parseSetTenderOpened(args []any) (SetTenderOpenedArgs, error) {
	var a SetTenderOpenedArgs
	if len(args) != 2 {
		return a, cErr.ValidateArgsErr(fmt.Sprintf("setTenderOpened: expected 2 arguments, got %d", len(args)))
	}
	flag, ok1 := args[0].(bool)
	uid, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return a, cErr.ValidateArgsErr("setTenderOpened: expected (bool, string)")
	}
	a = SetTenderOpenedArgs{Opened: flag, UID: uid}
	if appErr := request.Validate(a); appErr != nil {
		return a, appErr
	}
	return a, nil
}
