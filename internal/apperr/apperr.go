// Package apperr типизированные ошибки операций над записями.
// Ядро выбирает только Kind, транспорт сам сопоставляет его со статусами.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind класс ошибки операции
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindInactiveUser Kind = "inactive_or_missing_user"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
	KindTimeout      Kind = "timeout"
)

// Sentinel-ошибки для errors.Is
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInactiveUser = errors.New("inactive or missing user")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
	ErrTimeout      = errors.New("operation timeout")
)

const internalMessage = "internal server error"

// Error ошибка операции с её классом.
// Message можно показывать клиенту, Err только логируется.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает с sentinel-ошибкой своего Kind
func (e *Error) Is(target error) bool {
	return kindSentinel(e.Kind) == target
}

func kindSentinel(k Kind) error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindInactiveUser:
		return ErrInactiveUser
	case KindConflict:
		return ErrConflict
	case KindTimeout:
		return ErrTimeout
	default:
		return ErrInternal
	}
}

func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NotFound(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Conflict(op, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Op: op, Message: fmt.Sprintf(format, args...)}
}

// InactiveUser пользователь не найден или не активен.
// Оба случая блокируют операцию одинаково, отличается только текст.
func InactiveUser(op string, userID int64, exists bool) *Error {
	msg := fmt.Sprintf("user %d not found", userID)
	if exists {
		msg = fmt.Sprintf("user %d is not active", userID)
	}
	return &Error{Kind: KindInactiveUser, Op: op, Message: msg}
}

// Internal скрывает ошибку хранилища за общим сообщением.
// Истёкший дедлайн в цепочке превращается в Timeout.
func Internal(op string, err error) *Error {
	if IsTimeout(err) {
		return &Error{Kind: KindTimeout, Op: op, Message: "operation timed out", Err: err}
	}
	return &Error{Kind: KindInternal, Op: op, Message: internalMessage, Err: err}
}

// IsTimeout проверяет истёк ли дедлайн
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// KindOf возвращает класс ошибки. Нетипизированные считаются internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if IsTimeout(err) {
		return KindTimeout
	}
	return KindInternal
}

// PublicMessage текст, который можно отдать клиенту
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if IsTimeout(err) {
		return "operation timed out"
	}
	return internalMessage
}

// Wrap пропускает типизированные ошибки, остальные превращает в Internal
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Internal(op, err)
}
