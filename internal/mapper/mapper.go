// Package mapper converts request payloads into persistence entities.
package mapper

import (
	"errors"
	"fmt"

	"github.com/groudina/competitions/internal/domain"
)

// Well-known parameter keys understood by CompetitionMapper.
const (
	ParamOwner = "owner"
	ParamPin   = "pin"
)

// ErrMissingParam is returned when a required parameter was not supplied.
var ErrMissingParam = errors.New("missing mapping parameter")

// Param is a single key/value pair passed alongside the source object.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of extra values for a mapping.
type Params []Param

// With returns a copy of p with the pair appended.
func (p Params) With(key string, value any) Params {
	out := make(Params, len(p), len(p)+1)
	copy(out, p)
	return append(out, Param{Key: key, Value: value})
}

// Get returns the last value stored under key.
func (p Params) Get(key string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return nil, false
}

// EntitiesMapper maps a request object plus extra params into an entity.
type EntitiesMapper[From, To any] interface {
	Map(from From, params Params) (To, error)
}

// CompetitionMapper builds a domain.Competition from a domain.NewCompetition.
// It requires an "owner" param (*domain.User) and accepts an optional "pin" (string).
type CompetitionMapper struct{}

// NewCompetitionMapper creates a CompetitionMapper
func NewCompetitionMapper() *CompetitionMapper {
	return &CompetitionMapper{}
}

var _ EntitiesMapper[*domain.NewCompetition, *domain.Competition] = (*CompetitionMapper)(nil)

// Map converts the request into an entity ready to be saved
func (m *CompetitionMapper) Map(from *domain.NewCompetition, params Params) (*domain.Competition, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}

	rawOwner, ok := params.Get(ParamOwner)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParam, ParamOwner)
	}
	owner, ok := rawOwner.(*domain.User)
	if !ok || owner == nil {
		return nil, fmt.Errorf("param %s has unexpected type %T", ParamOwner, rawOwner)
	}

	var pin string
	if rawPin, ok := params.Get(ParamPin); ok {
		if pin, ok = rawPin.(string); !ok {
			return nil, fmt.Errorf("param %s has unexpected type %T", ParamPin, rawPin)
		}
	}

	state, _ := domain.ParseCompetitionState(from.State)
	expenses, _ := domain.ParseExpensesFormula(from.ExpensesFormula)
	demand, _ := domain.ParseDemandFormula(from.DemandFormula)

	return &domain.Competition{
		Owner:                     owner,
		Pin:                       pin,
		State:                     state,
		Name:                      from.Name,
		Instruction:               from.Instruction,
		ExpensesFormula:           expenses,
		DemandFormula:             demand,
		MaxTeamsAmount:            from.MaxTeamsAmount,
		MaxTeamSize:               from.MaxTeamSize,
		RoundsCount:               from.RoundsCount,
		RoundLengthInSeconds:      from.RoundLengthInSeconds,
		TeamLossUpperbound:        from.TeamLossUpperbound,
		AutoRoundEnding:           from.AutoRoundEnding,
		ShowPrevRoundResults:      from.ShowPrevRoundResults,
		ShowStudentsResultsTable:  from.ShowStudentsResultsTable,
		ShowOtherTeamsMembers:     from.ShowOtherTeamsMembers,
		EndRoundBeforeAllAnswered: from.EndRoundBeforeAllAnswered,
	}, nil
}
