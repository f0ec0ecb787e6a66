package domain

import "strings"

// Role представляет роль пользователя в системе
type Role string

// Возможные роли пользователей
const (
	RoleAdmin   Role = "ADMIN"   // Администратор
	RoleTeacher Role = "TEACHER" // Преподаватель, создает соревнования
	RoleStudent Role = "STUDENT" // Студент, участвует в командах
)

// ParseRole преобразует строку в роль (без учета регистра)
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTeacher:
		return RoleTeacher, true
	case RoleStudent:
		return RoleStudent, true
	default:
		return "", false
	}
}

// User представляет зарегистрированного пользователя
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}
