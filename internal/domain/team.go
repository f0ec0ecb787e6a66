package domain

import (
	"fmt"
	"strings"
	"time"
)

// Team представляет команду, зарегистрированную в соревновании
type Team struct {
	ID            int64      `json:"id"`
	CompetitionID int64      `json:"competition_id"`
	Number        int        `json:"number"` // Порядковый номер команды в соревновании, начиная с 1
	Name          string     `json:"name"`
	PasswordHash  string     `json:"-"`
	CaptainID     int64      `json:"captain_id"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// NewTeam представляет тело запроса на создание команды.
// Капитан не читается из тела: им всегда становится текущий пользователь.
type NewTeam struct {
	CompetitionPin string `json:"competition_pin"`
	TeamName       string `json:"team_name"`
	Password       string `json:"password"`
	CaptainEmail   string `json:"-"`
}

// Validate проверяет корректность запроса на создание команды
func (t *NewTeam) Validate() error {
	switch {
	case strings.TrimSpace(t.CompetitionPin) == "":
		return fmt.Errorf("%w: competition_pin is required", ErrValidation)
	case strings.TrimSpace(t.TeamName) == "":
		return fmt.Errorf("%w: team_name is required", ErrValidation)
	case t.Password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	case strings.TrimSpace(t.CaptainEmail) == "":
		return fmt.Errorf("%w: captain_email is required", ErrValidation)
	}
	return nil
}

// JoinTeamRequest представляет тело запроса на вступление в существующую команду
type JoinTeamRequest struct {
	CompetitionPin string `json:"competition_pin"`
	TeamName       string `json:"team_name"`
	Password       string `json:"password"`
	MemberEmail    string `json:"-"` // Заполняется из principal
}

// Validate проверяет корректность запроса на вступление в команду
func (j *JoinTeamRequest) Validate() error {
	switch {
	case strings.TrimSpace(j.CompetitionPin) == "":
		return fmt.Errorf("%w: competition_pin is required", ErrValidation)
	case strings.TrimSpace(j.TeamName) == "":
		return fmt.Errorf("%w: team_name is required", ErrValidation)
	case j.Password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	case strings.TrimSpace(j.MemberEmail) == "":
		return fmt.Errorf("%w: member email is required", ErrValidation)
	}
	return nil
}

// JoinTeamResponse представляет ответ на успешное вступление в команду
type JoinTeamResponse struct {
	CurrentTeamName string `json:"current_team_name"`
}
