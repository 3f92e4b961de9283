package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	cErr "profile/internal/pkg/error"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// 輸出格式化的 validator error（欄位 json 名/型別/規則列表）
func ValidationErrorResponse(obj any, err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Sprintf("Validation error: %s", err.Error())
	}
	var b strings.Builder
	b.WriteString("Validation error:\n")
	for _, fe := range errs {
		f, ok := structField(obj, fe.StructField())
		name, ftype, rules := fe.StructField(), "", []string(nil)
		if ok {
			name = tagName(f)
			ftype = f.Type.String()
			if tag := f.Tag.Get("binding"); tag != "" {
				rules = strings.Split(tag, ",")
			}
		}
		fmt.Fprintf(&b, " - Field \"%s\" (type: %s) failed the '%s' validation (rules: %v)\n", name, ftype, fe.Tag(), rules)
	}
	return b.String()
}

func structField(obj any, name string) (reflect.StructField, bool) {
	t := reflect.TypeOf(obj)
	if t == nil {
		return reflect.StructField{}, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	return t.FieldByName(name)
}

// json 或 form tag 的名稱
func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		if tag := f.Tag.Get(key); tag != "" && tag != "-" {
			return strings.Split(tag, ",")[0]
		}
	}
	return f.Name
}

// ParseUUID 檢查 path 參數是否為 uuid，回傳正規化後的字串
func ParseUUID(c *gin.Context, key string) (id string, cause error, responseErr error) {
	parsed, err := uuid.Parse(c.Param(key))
	if err != nil {
		return "", err, cErr.ValidatePathParamsErr("invalid " + key)
	}
	return parsed.String(), nil, nil
}

func BindAndValidate(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindJSON(req); err != nil {
		return err, cErr.ValidateErr(ValidationErrorResponse(req, err))
	}
	return nil, nil
}

func BindQuery(c *gin.Context, req any) (cause error, responseErr error) {
	if err := c.ShouldBindQuery(req); err != nil {
		return err, cErr.ValidatePathParamsErr(ValidationErrorResponse(req, err))
	}
	return nil, nil
}
