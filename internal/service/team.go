package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/groudina/competitions/internal/domain"
	"github.com/groudina/competitions/internal/repository"
)

// TeamJoinService handles the rules for registering and joining teams in a competition
type TeamJoinService struct {
	competitionRepo repository.CompetitionRepository
	teamRepo        repository.TeamRepository
	userRepo        repository.UserRepository
	bcryptCost      int
	logger          *slog.Logger
}

// NewTeamJoinService creates a new TeamJoinService
func NewTeamJoinService(
	competitionRepo repository.CompetitionRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	logger *slog.Logger,
) *TeamJoinService {
	return &TeamJoinService{
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		userRepo:        userRepo,
		bcryptCost:      bcrypt.DefaultCost,
		logger:          logger,
	}
}

// AddTeamToCompetition creates a team captained by the requesting student.
// It returns domain.ErrIllegalGameState if the competition is not in registration
// and domain.ErrCaptainInAnotherTeam if the captain already belongs to a team there.
func (s *TeamJoinService) AddTeamToCompetition(ctx context.Context, newTeam *domain.NewTeam) (*domain.Team, error) {
	if err := newTeam.Validate(); err != nil {
		return nil, err
	}

	competition, err := s.competitionRepo.GetByPin(ctx, strings.TrimSpace(newTeam.CompetitionPin))
	if err != nil {
		return nil, err
	}

	if !competition.IsOpenForRegistration() {
		return nil, domain.ErrIllegalGameState
	}

	captain, err := s.userRepo.GetByEmail(ctx, newTeam.CaptainEmail)
	if err != nil {
		return nil, err
	}

	// Check if captain already plays in this competition
	member, err := s.teamRepo.IsMember(ctx, competition.ID, captain.ID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, domain.ErrCaptainInAnotherTeam
	}

	name := strings.TrimSpace(newTeam.TeamName)
	taken, err := s.teamRepo.NameTaken(ctx, competition.ID, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrTeamExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newTeam.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash team password: %w", err)
	}

	team := &domain.Team{
		CompetitionID: competition.ID,
		Name:          name,
		PasswordHash:  string(hash),
		CaptainID:     captain.ID,
	}

	// Team limit and uniqueness are enforced again inside the transaction
	if err := s.teamRepo.Create(ctx, team, competition.MaxTeamsAmount); err != nil {
		return nil, err
	}

	s.logger.Info("Team created",
		"competition_id", competition.ID,
		"team_id", team.ID,
		"team_number", team.Number,
		"captain_id", captain.ID,
	)
	return team, nil
}

// JoinTeam adds the requesting student to an existing team after checking the team password.
// It returns domain.ErrWrongTeamPassword on a password mismatch, domain.ErrAlreadyInTeam if the
// student already plays in the competition and domain.ErrTeamFull once MaxTeamSize is reached.
func (s *TeamJoinService) JoinTeam(ctx context.Context, req *domain.JoinTeamRequest) (*domain.Team, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	competition, err := s.competitionRepo.GetByPin(ctx, strings.TrimSpace(req.CompetitionPin))
	if err != nil {
		return nil, err
	}

	if !competition.IsOpenForRegistration() {
		return nil, domain.ErrIllegalGameState
	}

	student, err := s.userRepo.GetByEmail(ctx, req.MemberEmail)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByName(ctx, competition.ID, strings.TrimSpace(req.TeamName))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Wrong team password", "team_id", team.ID, "user_id", student.ID)
		return nil, domain.ErrWrongTeamPassword
	}

	// Membership and team size are checked again under the competition lock
	if err := s.teamRepo.AddMember(ctx, team, student.ID, competition.MaxTeamSize); err != nil {
		return nil, err
	}

	s.logger.Info("Student joined team",
		"competition_id", competition.ID,
		"team_id", team.ID,
		"user_id", student.ID,
	)
	return team, nil
}
