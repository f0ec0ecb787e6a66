package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/groudina/competitions/internal/domain"
)

// Authenticator регистрирует пользователей и выдает токены
type Authenticator interface {
	SignUp(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)
	SignIn(ctx context.Context, login domain.LoginUser) (string, *domain.User, error)
}

// AuthHandler обрабатывает эндпоинты аутентификации
type AuthHandler struct {
	authService Authenticator
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SignInResponse представляет тело ответа на вход
type SignInResponse struct {
	Token string      `json:"token"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// SignUpRequest представляет тело запроса на регистрацию
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SignUpResponse представляет ответ на регистрацию
type SignUpResponse struct {
	User *domain.User `json:"user"`
}

// SignIn обрабатывает POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}

	token, user, err := h.authService.SignIn(r.Context(), req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, SignInResponse{
		Token: token,
		Email: user.Email,
		Role:  user.Role,
	})
}

// SignUp обрабатывает POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "role must be TEACHER or STUDENT")
		return
	}

	user, err := h.authService.SignUp(r.Context(), req.Email, req.Password, role)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, SignUpResponse{User: user})
}
