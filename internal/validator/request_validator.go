package validator

import (
	"github.com/go-playground/validator/v10"
)

// echoのe.Validatorに差すリクエストボディ検証。
type RequestValidator struct {
	validate *validator.Validate
}

func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
