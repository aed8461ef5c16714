package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Виды ошибок сервисов. Транспорт сопоставляет их со статусами.
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal error")
)

var kinds = []error{ErrInvalidRequest, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict, ErrInternal}

// Error ошибка сервиса: вид, сообщение для клиента и исходная причина.
// errors.Is срабатывает и на вид, и на причину.
type Error struct {
	Kind    error
	Message string
	// NotFound имена, которые не удалось найти (создание беседы)
	NotFound []string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// KindOf возвращает вид ошибки, всё неизвестное считается ErrInternal
func KindOf(err error) error {
	kind, ok := lo.Find(kinds, func(kind error) bool { return errors.Is(err, kind) })
	if !ok {
		return ErrInternal
	}
	return kind
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func invalidRequest(message string, cause error) *Error {
	return newError(ErrInvalidRequest, message, cause)
}

func internalError(cause error) *Error {
	return newError(ErrInternal, "internal error", cause)
}

var validate = validator.New()

// validateInput проверяет теги validate и превращает ошибки в ErrInvalidRequest
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidRequest("invalid input", err)
	}
	problems := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
		if fe.Param() == "" {
			return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	})
	return invalidRequest(strings.Join(problems, "; "), err)
}
