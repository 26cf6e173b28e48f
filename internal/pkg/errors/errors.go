package errors

import (
	"errors"
	"fmt"
)

// Kind - структурный тег категории ошибки. Коллабораторы помечают свои
// ошибки Kind'ом, и сообщение пользователю выбирается тотальной функцией
// по этому enum'у, а не по подстрокам текста ошибки.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindTimeout      Kind = "timeout"
	KindAuth         Kind = "auth"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindCollaborator Kind = "collaborator"
	KindInternal     Kind = "internal"
)

// AppError - прикладная ошибка с кодом, категорией и HTTP-статусом
type AppError struct {
	Kind       Kind                   `json:"kind"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	cause      error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает исходную ошибку коллаборатора
func (e *AppError) Unwrap() error {
	return e.cause
}

func New(kind Kind, code, message string, statusCode int) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails добавляет контекст ошибки
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// Wrap привязывает исходную ошибку, сохраняя код и категорию
func (e *AppError) Wrap(cause error) *AppError {
	clone := *e
	clone.cause = cause
	return &clone
}

// AsAppError извлекает *AppError из цепочки ошибок
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf возвращает категорию ошибки; для непомеченных ошибок
// делается fallback-эвристика по тексту (см. classify.go)
func KindOf(err error) Kind {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind
	}
	return classifyText(err)
}
