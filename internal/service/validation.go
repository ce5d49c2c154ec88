package service

import (
	"ai_academy_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误信息中使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// 可清空的 URL 字段：空字符串表示清除，其余按 url 规则校验
	v.RegisterValidation("url_or_blank", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || v.Var(value, "url") == nil
	})
	return v
}

// validateStruct 将 validator 的错误转换为 util.ValidationError
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &util.ValidationError{}
	for _, fe := range fieldErrs {
		// 去掉根结构体名，保留嵌套路径，例如 answers[0].answer_text
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		ve.Add(field, describe(fe))
	}
	return ve
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "url", "url_or_blank":
		return "enter a valid URL"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// notFound 将 gorm 的记录不存在错误转换为业务错误
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// duplicate 唯一索引冲突转换为字段校验错误
func duplicate(err error, field, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.NewValidationError(field, message)
	}
	return err
}

// requireExists 校验外键引用的记录存在
func requireExists(ctx context.Context, check func(context.Context, uint) (bool, error), id uint, field string) error {
	ok, err := check(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return util.NewValidationError(field, fmt.Sprintf("invalid pk %d - object does not exist", id))
	}
	return nil
}
