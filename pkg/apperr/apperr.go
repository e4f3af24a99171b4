// Package apperr carries business failures from services and middleware
// to the single translation point in the fiber error handler. Nothing
// below that boundary writes HTTP responses for errors.
package apperr

import "github.com/gofiber/fiber/v2"

type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string, data any) *Error {
	return &Error{Status: status, Message: message, Data: data}
}

func BadRequest(message string, data any) *Error {
	return New(fiber.StatusBadRequest, message, data)
}

func Unauthorized(message string) *Error {
	return New(fiber.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(fiber.StatusForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(fiber.StatusNotFound, message, nil)
}

func Internal(message string) *Error {
	return New(fiber.StatusInternalServerError, message, nil)
}
