package types

import "net/http"

// Machine-readable cause codes carried alongside the HTTP status in error
// responses.
const (
	CODE_BAD_REQUEST  = "01400"
	CODE_UNAUTHORIZED = "01401"
	CODE_NOT_FOUND    = "01404"
	CODE_DUPLICATE    = "01409"
	CODE_SERVER_ERROR = "01500"
)

type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code string, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func BadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CODE_BAD_REQUEST, message)
}

func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, CODE_NOT_FOUND, message)
}

func ServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CODE_SERVER_ERROR, message)
}
