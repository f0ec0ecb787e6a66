package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/groudina/competitions/internal/domain"
)

// uniqueViolation код ошибки PostgreSQL при нарушении уникальности
const uniqueViolation = "23505"

// CompetitionRepository реализует repository.CompetitionRepository для PostgreSQL
type CompetitionRepository struct {
	db *pgxpool.Pool
}

// NewCompetitionRepository создает новый экземпляр CompetitionRepository
func NewCompetitionRepository(db *pgxpool.Pool) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

// Save сохраняет новое соревнование
func (r *CompetitionRepository) Save(ctx context.Context, c *domain.Competition) error {
	if c.Owner == nil {
		return errors.New("competition owner is required")
	}

	query := `
		INSERT INTO competitions (
			owner_id, pin, state, name, instruction, expenses_formula, demand_formula,
			max_teams_amount, max_team_size, rounds_count, round_length_in_seconds,
			team_loss_upperbound, auto_round_ending, show_prev_round_results,
			show_students_results_table, show_other_teams_members, end_round_before_all_answered
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at
	`

	var pin *string
	if c.Pin != "" {
		pin = &c.Pin
	}

	err := r.db.QueryRow(ctx, query,
		c.Owner.ID,
		pin,
		c.State,
		c.Name,
		c.Instruction,
		c.ExpensesFormula.String(),
		c.DemandFormula.String(),
		c.MaxTeamsAmount,
		c.MaxTeamSize,
		c.RoundsCount,
		c.RoundLengthInSeconds,
		c.TeamLossUpperbound,
		c.AutoRoundEnding,
		c.ShowPrevRoundResults,
		c.ShowStudentsResultsTable,
		c.ShowOtherTeamsMembers,
		c.EndRoundBeforeAllAnswered,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Пин заняли между генерацией и сохранением
			return domain.ErrPinExhausted
		}
		return err
	}

	return nil
}

// GetByPin получает соревнование по пину вместе с владельцем
func (r *CompetitionRepository) GetByPin(ctx context.Context, pin string) (*domain.Competition, error) {
	query := `
		SELECT c.id, c.pin, c.state, c.name, c.instruction, c.expenses_formula, c.demand_formula,
		       c.max_teams_amount, c.max_team_size, c.rounds_count, c.round_length_in_seconds,
		       c.team_loss_upperbound, c.auto_round_ending, c.show_prev_round_results,
		       c.show_students_results_table, c.show_other_teams_members,
		       c.end_round_before_all_answered, c.created_at,
		       u.id, u.email, u.role
		FROM competitions c
		INNER JOIN users u ON u.id = c.owner_id
		WHERE c.pin = $1
	`

	var (
		c        domain.Competition
		owner    domain.User
		pinValue *string
		expenses string
		demand   string
	)
	err := r.db.QueryRow(ctx, query, pin).Scan(
		&c.ID,
		&pinValue,
		&c.State,
		&c.Name,
		&c.Instruction,
		&expenses,
		&demand,
		&c.MaxTeamsAmount,
		&c.MaxTeamSize,
		&c.RoundsCount,
		&c.RoundLengthInSeconds,
		&c.TeamLossUpperbound,
		&c.AutoRoundEnding,
		&c.ShowPrevRoundResults,
		&c.ShowStudentsResultsTable,
		&c.ShowOtherTeamsMembers,
		&c.EndRoundBeforeAllAnswered,
		&c.CreatedAt,
		&owner.ID,
		&owner.Email,
		&owner.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompetitionNotFound
		}
		return nil, err
	}

	if pinValue != nil {
		c.Pin = *pinValue
	}
	if c.ExpensesFormula, err = domain.ParseExpensesFormula(expenses); err != nil {
		return nil, fmt.Errorf("competition %d: %w", c.ID, err)
	}
	if c.DemandFormula, err = domain.ParseDemandFormula(demand); err != nil {
		return nil, fmt.Errorf("competition %d: %w", c.ID, err)
	}
	c.Owner = &owner

	return &c, nil
}

// PinExists проверяет, занят ли пин
func (r *CompetitionRepository) PinExists(ctx context.Context, pin string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM competitions WHERE pin = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, pin).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
