package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/groudina/competitions/internal/domain"
)

// Имена ограничений уникальности из миграции
const (
	constraintTeamName   = "teams_competition_name_key"
	constraintTeamMember = "team_members_competition_user_key"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create создает команду и запись о капитане в одной транзакции
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team, maxTeams int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	// Блокируем соревнование, чтобы номера команд выдавались последовательно
	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM competitions WHERE id = $1 FOR UPDATE`, team.CompetitionID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCompetitionNotFound
		}
		return err
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM teams WHERE competition_id = $1`, team.CompetitionID).Scan(&count); err != nil {
		return err
	}
	if count >= maxTeams {
		return domain.ErrTooManyTeams
	}

	insertTeam := `
		INSERT INTO teams (competition_id, team_number, name, password, captain_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	number := count + 1
	err = tx.QueryRow(ctx, insertTeam,
		team.CompetitionID, number, team.Name, team.PasswordHash, team.CaptainID,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return mapTeamConstraint(err)
	}

	insertMember := `
		INSERT INTO team_members (team_id, competition_id, user_id, is_captain)
		VALUES ($1, $2, $3, true)
	`
	if _, err := tx.Exec(ctx, insertMember, team.ID, team.CompetitionID, team.CaptainID); err != nil {
		return mapTeamConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	team.Number = number
	return nil
}

// GetByName получает команду соревнования по имени
func (r *TeamRepository) GetByName(ctx context.Context, competitionID int64, name string) (*domain.Team, error) {
	query := `
		SELECT id, competition_id, team_number, name, password, captain_id, created_at
		FROM teams
		WHERE competition_id = $1 AND name = $2
	`

	var team domain.Team
	err := r.db.QueryRow(ctx, query, competitionID, name).Scan(
		&team.ID,
		&team.CompetitionID,
		&team.Number,
		&team.Name,
		&team.PasswordHash,
		&team.CaptainID,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// AddMember добавляет участника в команду под блокировкой соревнования
func (r *TeamRepository) AddMember(ctx context.Context, team *domain.Team, userID int64, maxTeamSize int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore error as it will fail if transaction was committed
	}()

	// Та же блокировка, что и при создании команды
	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM competitions WHERE id = $1 FOR UPDATE`, team.CompetitionID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCompetitionNotFound
		}
		return err
	}

	var member bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM team_members WHERE competition_id = $1 AND user_id = $2)`,
		team.CompetitionID, userID,
	).Scan(&member)
	if err != nil {
		return err
	}
	if member {
		return domain.ErrAlreadyInTeam
	}

	var size int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM team_members WHERE team_id = $1`, team.ID).Scan(&size); err != nil {
		return err
	}
	if size >= maxTeamSize {
		return domain.ErrTeamFull
	}

	insertMember := `
		INSERT INTO team_members (team_id, competition_id, user_id, is_captain)
		VALUES ($1, $2, $3, false)
	`
	if _, err := tx.Exec(ctx, insertMember, team.ID, team.CompetitionID, userID); err != nil {
		if isConstraint(err, constraintTeamMember) {
			return domain.ErrAlreadyInTeam
		}
		return err
	}

	return tx.Commit(ctx)
}

// NameTaken проверяет, занято ли имя команды в соревновании
func (r *TeamRepository) NameTaken(ctx context.Context, competitionID int64, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE competition_id = $1 AND name = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, competitionID, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// IsMember проверяет, состоит ли пользователь в команде соревнования
func (r *TeamRepository) IsMember(ctx context.Context, competitionID, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM team_members WHERE competition_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, competitionID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// mapTeamConstraint преобразует нарушения уникальности при создании команды в доменные ошибки
func mapTeamConstraint(err error) error {
	switch {
	case isConstraint(err, constraintTeamName):
		return domain.ErrTeamExists
	case isConstraint(err, constraintTeamMember):
		return domain.ErrCaptainInAnotherTeam
	default:
		return err
	}
}

// isConstraint проверяет, что err это нарушение уникальности ограничения name
func isConstraint(err error, name string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == name
}
