// Package response содержит вспомогательные типы и функции для формирования
// JSON‑ответов HTTP‑обработчиков: тело ошибки, сообщения валидации и
// единую таблицу соответствия ошибок сервисов HTTP-статусам.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/writeitdown/internal/lib/errs"
)

// Тексты ответов, которые видит клиент.
const (
	MsgMissingCredentials  = "Missing nickname or password"
	MsgUserExists          = "User already exists"
	MsgUserNotFound        = "User not found"
	MsgPasswordNotSet      = "User password not set"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgUnauthenticated     = "unauthenticated"
	MsgEntryNotFound       = "Entry not found"
	MsgEntryFieldsRequired = "Title and content are required"
	MsgEntryDeleted        = "Entry deleted"
	MsgServerError         = "Server error"
	MsgRegisterError       = "Server error during registration"
	MsgLoginError          = "Server error during login"
	MsgTooManyRequests     = "Too many requests"
	MsgRouteNotFound       = "Route not found"
	MsgInvalidBody         = "Invalid request body"
)

// ErrorResponse: тело любого неуспешного ответа.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Message string `json:"message" example:"Invalid credentials"`
}

// MessageResponse: тело ответа, содержащее только сообщение.
type MessageResponse struct {
	Message string `json:"message" example:"Entry deleted"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Message: msg}
}

// Message возвращает MessageResponse с переданным сообщением.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(verrs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range verrs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{Message: strings.Join(errsMsgs, ", ")}
}

// Operation уточняет текст ответа для непредвиденных ошибок.
type Operation int

const (
	// OpGeneric: операции с записями.
	OpGeneric Operation = iota
	// OpRegister: регистрация.
	OpRegister
	// OpLogin: вход.
	OpLogin
)

// StatusFor возвращает HTTP-статус и сообщение для ошибки сервиса.
// Ошибки, которых нет в таблице, считаются непредвиденными (500).
func StatusFor(err error, op Operation) (int, string) {
	switch {
	case errors.Is(err, errs.ErrMissingFields):
		if op == OpGeneric {
			return http.StatusBadRequest, MsgEntryFieldsRequired
		}
		return http.StatusBadRequest, MsgMissingCredentials
	case errors.Is(err, errs.ErrDuplicateAccount):
		return http.StatusBadRequest, MsgUserExists
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusBadRequest, MsgUserNotFound
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusBadRequest, MsgInvalidCredentials
	case errors.Is(err, errs.ErrServerMisconfigured):
		return http.StatusInternalServerError, MsgPasswordNotSet
	case errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized, MsgUnauthenticated
	case errors.Is(err, errs.ErrEntryNotFound):
		return http.StatusNotFound, MsgEntryNotFound
	}

	switch op {
	case OpRegister:
		return http.StatusInternalServerError, MsgRegisterError
	case OpLogin:
		return http.StatusInternalServerError, MsgLoginError
	default:
		return http.StatusInternalServerError, MsgServerError
	}
}
