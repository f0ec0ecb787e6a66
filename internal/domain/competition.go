package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CompetitionState представляет состояние соревнования
type CompetitionState string

// Возможные состояния соревнования
const (
	StateDraft        CompetitionState = "Draft"        // Черновик, не виден студентам
	StateRegistration CompetitionState = "Registration" // Идет регистрация команд
	StateInProcess    CompetitionState = "InProcess"    // Соревнование запущено
	StateEnded        CompetitionState = "Ended"        // Соревнование завершено
)

// wireStates сопоставляет значения из запроса с состояниями
var wireStates = map[string]CompetitionState{
	"draft":        StateDraft,
	"registration": StateRegistration,
	"in_process":   StateInProcess,
	"ended":        StateEnded,
}

// RegistrationWireName значение поля state в запросе, при котором выдается пин
const RegistrationWireName = "registration"

// ParseCompetitionState преобразует значение поля state из запроса в состояние
func ParseCompetitionState(s string) (CompetitionState, bool) {
	state, ok := wireStates[s]
	return state, ok
}

// Competition представляет сохраненное соревнование
type Competition struct {
	ID                        int64            `json:"id"`
	Owner                     *User            `json:"owner"`
	Pin                       string           `json:"pin,omitempty"` // Есть только в состоянии Registration
	State                     CompetitionState `json:"state"`
	Name                      string           `json:"name"`
	Instruction               string           `json:"instruction"`
	ExpensesFormula           ExpensesFormula  `json:"expenses_formula"`
	DemandFormula             DemandFormula    `json:"demand_formula"`
	MaxTeamsAmount            int              `json:"max_teams_amount"`
	MaxTeamSize               int              `json:"max_team_size"`
	RoundsCount               int              `json:"rounds_count"`
	RoundLengthInSeconds      int              `json:"round_length_in_seconds"`
	TeamLossUpperbound        int              `json:"team_loss_upperbound"`
	AutoRoundEnding           bool             `json:"auto_round_ending"`
	ShowPrevRoundResults      bool             `json:"show_prev_round_results"`
	ShowStudentsResultsTable  bool             `json:"show_students_results_table"`
	ShowOtherTeamsMembers     bool             `json:"show_other_teams_members"`
	EndRoundBeforeAllAnswered bool             `json:"end_round_before_all_answered"`
	CreatedAt                 *time.Time       `json:"created_at,omitempty"`
}

// IsOpenForRegistration возвращает true если к соревнованию можно присоединиться
func (c *Competition) IsOpenForRegistration() bool {
	return c.State == StateRegistration
}

// NewCompetition представляет тело запроса на создание соревнования
type NewCompetition struct {
	State                     string `json:"state"`
	Name                      string `json:"name"`
	Instruction               string `json:"instruction"`
	ExpensesFormula           string `json:"expenses_formula"`
	DemandFormula             string `json:"demand_formula"`
	MaxTeamsAmount            int    `json:"max_teams_amount"`
	MaxTeamSize               int    `json:"max_team_size"`
	RoundsCount               int    `json:"rounds_count"`
	RoundLengthInSeconds      int    `json:"round_length_in_seconds"`
	TeamLossUpperbound        int    `json:"team_loss_upperbound"`
	AutoRoundEnding           bool   `json:"auto_round_ending"`
	ShowPrevRoundResults      bool   `json:"show_prev_round_results"`
	ShowStudentsResultsTable  bool   `json:"show_students_results_table"`
	ShowOtherTeamsMembers     bool   `json:"show_other_teams_members"`
	EndRoundBeforeAllAnswered bool   `json:"end_round_before_all_answered"`
}

// Validate проверяет корректность запроса на создание соревнования
func (c *NewCompetition) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, ok := ParseCompetitionState(c.State); !ok {
		return fmt.Errorf("%w: unknown state %q", ErrValidation, c.State)
	}
	if _, err := ParseExpensesFormula(c.ExpensesFormula); err != nil {
		return err
	}
	if _, err := ParseDemandFormula(c.DemandFormula); err != nil {
		return err
	}

	positive := []struct {
		name  string
		value int
	}{
		{"max_teams_amount", c.MaxTeamsAmount},
		{"max_team_size", c.MaxTeamSize},
		{"rounds_count", c.RoundsCount},
		{"round_length_in_seconds", c.RoundLengthInSeconds},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrValidation, p.name)
		}
	}
	if c.TeamLossUpperbound < 0 {
		return fmt.Errorf("%w: team_loss_upperbound must not be negative", ErrValidation)
	}

	return nil
}

// ExpensesFormula коэффициенты квадратичной функции расходов: a*x^2 + b*x + c
type ExpensesFormula struct {
	XSquareCoefficient float64 `json:"x_square"`
	XCoefficient       float64 `json:"x"`
	FreeCoefficient    float64 `json:"free"`
}

// String возвращает формулу в формате хранения "a;b;c"
func (f ExpensesFormula) String() string {
	return joinCoefficients(f.XSquareCoefficient, f.XCoefficient, f.FreeCoefficient)
}

// DemandFormula коэффициенты линейной функции спроса: a*x + b
type DemandFormula struct {
	XCoefficient    float64 `json:"x"`
	FreeCoefficient float64 `json:"free"`
}

// String возвращает формулу в формате хранения "a;b"
func (f DemandFormula) String() string {
	return joinCoefficients(f.XCoefficient, f.FreeCoefficient)
}

// ParseExpensesFormula разбирает строку "a;b;c"
func ParseExpensesFormula(s string) (ExpensesFormula, error) {
	k, err := splitCoefficients(s, 3)
	if err != nil {
		return ExpensesFormula{}, fmt.Errorf("%w: expenses_formula: %v", ErrValidation, err)
	}
	return ExpensesFormula{XSquareCoefficient: k[0], XCoefficient: k[1], FreeCoefficient: k[2]}, nil
}

// ParseDemandFormula разбирает строку "a;b"
func ParseDemandFormula(s string) (DemandFormula, error) {
	k, err := splitCoefficients(s, 2)
	if err != nil {
		return DemandFormula{}, fmt.Errorf("%w: demand_formula: %v", ErrValidation, err)
	}
	return DemandFormula{XCoefficient: k[0], FreeCoefficient: k[1]}, nil
}

func splitCoefficients(s string, want int) ([]float64, error) {
	parts := strings.Split(s, ";")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d coefficients, got %d", want, len(parts))
	}

	result := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("coefficient %d is not a number", i+1)
		}
		result[i] = v
	}
	return result, nil
}

func joinCoefficients(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ";")
}

// GamePinCheckRequest представляет тело запроса на проверку пина
type GamePinCheckRequest struct {
	Pin string `json:"pin"`
}

// GamePinCheckResponse представляет ответ на проверку пина
type GamePinCheckResponse struct {
	Valid bool `json:"valid"`
}
