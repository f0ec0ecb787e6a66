package domain

import "errors"

// Доменные ошибки
var (
	// ErrValidation возвращается при некорректном теле запроса
	ErrValidation = errors.New("validation failed")

	// ErrUserExists возвращается при регистрации уже существующего e-mail
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrCompetitionNotFound возвращается когда соревнование не найдено
	ErrCompetitionNotFound = errors.New("competition not found")

	// ErrTeamExists возвращается когда имя команды уже занято в соревновании
	ErrTeamExists = errors.New("team already exists")

	// ErrCaptainInAnotherTeam возвращается когда капитан уже состоит в другой команде соревнования
	ErrCaptainInAnotherTeam = errors.New("captain is in another team already")

	// ErrIllegalGameState возвращается когда соревнование не принимает команды
	ErrIllegalGameState = errors.New("illegal game state")

	// ErrTooManyTeams возвращается когда в соревновании нет мест для новой команды
	ErrTooManyTeams = errors.New("too many teams in competition")

	// ErrPinExhausted возвращается когда не удалось подобрать свободный пин
	ErrPinExhausted = errors.New("could not allocate a free pin")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")

	// ErrTeamNotFound возвращается когда команды с таким именем нет в соревновании
	ErrTeamNotFound = errors.New("team not found")

	// ErrWrongTeamPassword возвращается при неверном пароле команды
	ErrWrongTeamPassword = errors.New("wrong team password")

	// ErrAlreadyInTeam возвращается когда студент уже состоит в команде соревнования
	ErrAlreadyInTeam = errors.New("student is in another team already")

	// ErrTeamFull возвращается когда в команде нет свободных мест
	ErrTeamFull = errors.New("team is full")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeBadRequest    ErrorCode = "BAD_REQUEST"
	CodeUserExists    ErrorCode = "USER_EXISTS"
	CodeTeamExists    ErrorCode = "TEAM_EXISTS"
	CodeTooManyTeams  ErrorCode = "TOO_MANY_TEAMS"
	CodeTeamFull      ErrorCode = "TEAM_FULL"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeForbidden     ErrorCode = "FORBIDDEN"
	CodeUnavailable   ErrorCode = "UNAVAILABLE"
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrCaptainInAnotherTeam), errors.Is(err, ErrIllegalGameState),
		errors.Is(err, ErrWrongTeamPassword), errors.Is(err, ErrAlreadyInTeam):
		return CodeBadRequest
	case errors.Is(err, ErrUserExists):
		return CodeUserExists
	case errors.Is(err, ErrTeamExists):
		return CodeTeamExists
	case errors.Is(err, ErrTooManyTeams):
		return CodeTooManyTeams
	case errors.Is(err, ErrTeamFull):
		return CodeTeamFull
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrCompetitionNotFound), errors.Is(err, ErrTeamNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	case errors.Is(err, ErrPinExhausted):
		return CodeUnavailable
	default:
		return CodeInternalError
	}
}
