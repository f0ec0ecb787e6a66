package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/groudina/competitions/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.MapErrorToCode(err)

	switch code {
	case domain.CodeBadRequest:
		RespondWithError(w, r, http.StatusBadRequest, string(code), err.Error())
	case domain.CodeUserExists:
		RespondWithError(w, r, http.StatusConflict, string(code), "user already exists")
	case domain.CodeTeamExists:
		RespondWithError(w, r, http.StatusConflict, string(code), "team already exists")
	case domain.CodeTooManyTeams:
		RespondWithError(w, r, http.StatusConflict, string(code), "too many teams in competition")
	case domain.CodeTeamFull:
		RespondWithError(w, r, http.StatusConflict, string(code), "team is full")
	case domain.CodeNotFound:
		RespondWithError(w, r, http.StatusNotFound, string(code), "resource not found")
	case domain.CodeUnauthorized:
		RespondWithError(w, r, http.StatusUnauthorized, string(code), "unauthorized")
	case domain.CodeUnavailable:
		RespondWithError(w, r, http.StatusServiceUnavailable, string(code), "could not allocate a pin, try again")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, string(domain.CodeInternalError), "internal server error")
	}
}
