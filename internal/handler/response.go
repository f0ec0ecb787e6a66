package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

// ResponseMessage представляет ответ с текстовым сообщением
type ResponseMessage struct {
	Message string `json:"message"`
}

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// RespondWithMessage отправляет ответ вида {"message": "..."}
func RespondWithMessage(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	RespondWithJSON(w, r, statusCode, ResponseMessage{Message: message})
}
