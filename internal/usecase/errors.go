package usecase

import (
	"errors"
	"fmt"
)

// usecaseはHTTPステータスと安定したメッセージに寄せてエラーを返す。
// ストレージの内部事情はメッセージに漏らさない。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
