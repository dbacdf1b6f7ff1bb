package apperr

import (
	"errors"
	"net/http"
	"runtime/debug"
)

// Error 业务错误：携带 HTTP 状态码与可直接返回给客户端的 message。
// Err 为内部原因，仅用于日志，不出现在响应体中。
type Error struct {
	Status  int
	Message string
	Stack   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Internal 包装未预期错误，对外只暴露通用 message，并记录调用处堆栈。
func Internal(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
		Stack:   string(debug.Stack()),
		Err:     err,
	}
}

// From 提取 *Error；非业务错误一律按 Internal 处理。
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// StatusOf 返回错误对应的 HTTP 状态码。
func StatusOf(err error) int {
	return From(err).Status
}
