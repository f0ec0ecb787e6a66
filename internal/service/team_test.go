package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/groudina/competitions/internal/domain"
)

// memoryStore is an in-memory implementation of the user, competition and team repositories
type memoryStore struct {
	users        map[string]*domain.User
	competitions map[string]*domain.Competition
	teams        []*domain.Team
	members      []membership
	nextID       int64
}

type membership struct {
	competitionID int64
	teamID        int64
	userID        int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        map[string]*domain.User{},
		competitions: map[string]*domain.Competition{},
	}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) Create(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.Email]; ok {
		return domain.ErrUserExists
	}
	user.ID = m.id()
	m.users[user.Email] = user
	return nil
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryStore) addCompetition(pin string, state domain.CompetitionState, maxTeams int) *domain.Competition {
	c := &domain.Competition{ID: m.id(), Pin: pin, State: state, MaxTeamsAmount: maxTeams, MaxTeamSize: 3}
	m.competitions[pin] = c
	return c
}

func (m *memoryStore) addUser(email string, role domain.Role) *domain.User {
	u := &domain.User{ID: m.id(), Email: email, Role: role}
	m.users[email] = u
	return u
}

// competitionRepo and teamRepo adapt memoryStore to the remaining interfaces
type competitionRepo struct{ *memoryStore }

func (r competitionRepo) Save(_ context.Context, c *domain.Competition) error {
	c.ID = r.id()
	r.competitions[c.Pin] = c
	return nil
}

func (r competitionRepo) GetByPin(_ context.Context, pin string) (*domain.Competition, error) {
	c, ok := r.competitions[pin]
	if !ok {
		return nil, domain.ErrCompetitionNotFound
	}
	return c, nil
}

func (r competitionRepo) PinExists(_ context.Context, pin string) (bool, error) {
	_, ok := r.competitions[pin]
	return ok, nil
}

type teamRepo struct{ *memoryStore }

func (r teamRepo) Create(_ context.Context, team *domain.Team, maxTeams int) error {
	count := 0
	for _, t := range r.teams {
		if t.CompetitionID == team.CompetitionID {
			count++
		}
	}
	if count >= maxTeams {
		return domain.ErrTooManyTeams
	}
	team.ID = r.id()
	team.Number = count + 1
	r.teams = append(r.teams, team)
	r.members = append(r.members, membership{team.CompetitionID, team.ID, team.CaptainID})
	return nil
}

func (r teamRepo) GetByName(_ context.Context, competitionID int64, name string) (*domain.Team, error) {
	for _, t := range r.teams {
		if t.CompetitionID == competitionID && t.Name == name {
			return t, nil
		}
	}
	return nil, domain.ErrTeamNotFound
}

func (r teamRepo) AddMember(ctx context.Context, team *domain.Team, userID int64, maxTeamSize int) error {
	if member, _ := r.IsMember(ctx, team.CompetitionID, userID); member {
		return domain.ErrAlreadyInTeam
	}
	size := 0
	for _, m := range r.members {
		if m.teamID == team.ID {
			size++
		}
	}
	if size >= maxTeamSize {
		return domain.ErrTeamFull
	}
	r.members = append(r.members, membership{team.CompetitionID, team.ID, userID})
	return nil
}

func (r teamRepo) NameTaken(_ context.Context, competitionID int64, name string) (bool, error) {
	for _, t := range r.teams {
		if t.CompetitionID == competitionID && t.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r teamRepo) IsMember(_ context.Context, competitionID, userID int64) (bool, error) {
	for _, t := range r.teams {
		if t.CompetitionID == competitionID && t.CaptainID == userID {
			return true, nil
		}
	}
	for _, m := range r.members {
		if m.competitionID == competitionID && m.userID == userID {
			return true, nil
		}
	}
	return false, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTeamJoinService(store *memoryStore) *TeamJoinService {
	svc := NewTeamJoinService(competitionRepo{store}, teamRepo{store}, store, discardLogger())
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func TestAddTeamToCompetition_Success(t *testing.T) {
	store := newMemoryStore()
	competition := store.addCompetition("123456", domain.StateRegistration, 5)
	captain := store.addUser("s@example.com", domain.RoleStudent)

	team, err := newTeamJoinService(store).AddTeamToCompetition(context.Background(), &domain.NewTeam{
		CompetitionPin: "123456",
		TeamName:       " Wolves ",
		Password:       "secret",
		CaptainEmail:   "s@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, competition.ID, team.CompetitionID)
	assert.Equal(t, captain.ID, team.CaptainID)
	assert.Equal(t, "Wolves", team.Name)
	assert.Equal(t, 1, team.Number)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(team.PasswordHash), []byte("secret")))
}

func TestAddTeamToCompetition_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(store *memoryStore)
		request domain.NewTeam
		wantErr error
	}{
		{
			name:    "unknown pin",
			setup:   func(store *memoryStore) { store.addUser("s@example.com", domain.RoleStudent) },
			request: domain.NewTeam{CompetitionPin: "000000", TeamName: "A", Password: "p", CaptainEmail: "s@example.com"},
			wantErr: domain.ErrCompetitionNotFound,
		},
		{
			name: "competition already started",
			setup: func(store *memoryStore) {
				store.addCompetition("123456", domain.StateInProcess, 5)
				store.addUser("s@example.com", domain.RoleStudent)
			},
			request: domain.NewTeam{CompetitionPin: "123456", TeamName: "A", Password: "p", CaptainEmail: "s@example.com"},
			wantErr: domain.ErrIllegalGameState,
		},
		{
			name: "draft competition",
			setup: func(store *memoryStore) {
				store.addCompetition("123456", domain.StateDraft, 5)
				store.addUser("s@example.com", domain.RoleStudent)
			},
			request: domain.NewTeam{CompetitionPin: "123456", TeamName: "A", Password: "p", CaptainEmail: "s@example.com"},
			wantErr: domain.ErrIllegalGameState,
		},
		{
			name:    "unknown captain",
			setup:   func(store *memoryStore) { store.addCompetition("123456", domain.StateRegistration, 5) },
			request: domain.NewTeam{CompetitionPin: "123456", TeamName: "A", Password: "p", CaptainEmail: "ghost@example.com"},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "captain already has a team",
			setup: func(store *memoryStore) {
				c := store.addCompetition("123456", domain.StateRegistration, 5)
				u := store.addUser("s@example.com", domain.RoleStudent)
				store.teams = append(store.teams, &domain.Team{CompetitionID: c.ID, Name: "First", CaptainID: u.ID})
			},
			request: domain.NewTeam{CompetitionPin: "123456", TeamName: "Second", Password: "p", CaptainEmail: "s@example.com"},
			wantErr: domain.ErrCaptainInAnotherTeam,
		},
		{
			name: "team name taken",
			setup: func(store *memoryStore) {
				c := store.addCompetition("123456", domain.StateRegistration, 5)
				other := store.addUser("other@example.com", domain.RoleStudent)
				store.addUser("s@example.com", domain.RoleStudent)
				store.teams = append(store.teams, &domain.Team{CompetitionID: c.ID, Name: "Wolves", CaptainID: other.ID})
			},
			request: domain.NewTeam{CompetitionPin: "123456", TeamName: "Wolves", Password: "p", CaptainEmail: "s@example.com"},
			wantErr: domain.ErrTeamExists,
		},
		{
			name: "competition is full",
			setup: func(store *memoryStore) {
				c := store.addCompetition("123456", domain.StateRegistration, 1)
				other := store.addUser("other@example.com", domain.RoleStudent)
				store.addUser("s@example.com", domain.RoleStudent)
				store.teams = append(store.teams, &domain.Team{CompetitionID: c.ID, Name: "Bears", CaptainID: other.ID})
			},
			request: domain.NewTeam{CompetitionPin: "123456", TeamName: "Wolves", Password: "p", CaptainEmail: "s@example.com"},
			wantErr: domain.ErrTooManyTeams,
		},
		{
			name:    "missing password",
			setup:   func(store *memoryStore) {},
			request: domain.NewTeam{CompetitionPin: "123456", TeamName: "Wolves", CaptainEmail: "s@example.com"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			tt.setup(store)

			req := tt.request
			_, err := newTeamJoinService(store).AddTeamToCompetition(context.Background(), &req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

// registerTeam creates "Wolves" with password "secret" captained by captain@example.com
func registerTeam(t *testing.T, store *memoryStore, svc *TeamJoinService) *domain.Team {
	t.Helper()
	store.addUser("captain@example.com", domain.RoleStudent)

	team, err := svc.AddTeamToCompetition(context.Background(), &domain.NewTeam{
		CompetitionPin: "123456",
		TeamName:       "Wolves",
		Password:       "secret",
		CaptainEmail:   "captain@example.com",
	})
	require.NoError(t, err)
	return team
}

func TestJoinTeam_Success(t *testing.T) {
	store := newMemoryStore()
	store.addCompetition("123456", domain.StateRegistration, 5)
	svc := newTeamJoinService(store)
	team := registerTeam(t, store, svc)
	student := store.addUser("s@example.com", domain.RoleStudent)

	joined, err := svc.JoinTeam(context.Background(), &domain.JoinTeamRequest{
		CompetitionPin: " 123456 ",
		TeamName:       "Wolves",
		Password:       "secret",
		MemberEmail:    "s@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, team.ID, joined.ID)
	member, err := teamRepo{store}.IsMember(context.Background(), team.CompetitionID, student.ID)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestJoinTeam_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(store *memoryStore, competition *domain.Competition)
		request domain.JoinTeamRequest
		wantErr error
	}{
		{
			name:    "wrong password",
			setup:   func(store *memoryStore, _ *domain.Competition) { store.addUser("s@example.com", domain.RoleStudent) },
			request: domain.JoinTeamRequest{CompetitionPin: "123456", TeamName: "Wolves", Password: "guess", MemberEmail: "s@example.com"},
			wantErr: domain.ErrWrongTeamPassword,
		},
		{
			name:    "unknown team",
			setup:   func(store *memoryStore, _ *domain.Competition) { store.addUser("s@example.com", domain.RoleStudent) },
			request: domain.JoinTeamRequest{CompetitionPin: "123456", TeamName: "Foxes", Password: "secret", MemberEmail: "s@example.com"},
			wantErr: domain.ErrTeamNotFound,
		},
		{
			name:    "captain joins own team again",
			setup:   func(*memoryStore, *domain.Competition) {},
			request: domain.JoinTeamRequest{CompetitionPin: "123456", TeamName: "Wolves", Password: "secret", MemberEmail: "captain@example.com"},
			wantErr: domain.ErrAlreadyInTeam,
		},
		{
			name: "team is full",
			setup: func(store *memoryStore, competition *domain.Competition) {
				competition.MaxTeamSize = 1
				store.addUser("s@example.com", domain.RoleStudent)
			},
			request: domain.JoinTeamRequest{CompetitionPin: "123456", TeamName: "Wolves", Password: "secret", MemberEmail: "s@example.com"},
			wantErr: domain.ErrTeamFull,
		},
		{
			name: "registration closed",
			setup: func(store *memoryStore, competition *domain.Competition) {
				competition.State = domain.StateInProcess
				store.addUser("s@example.com", domain.RoleStudent)
			},
			request: domain.JoinTeamRequest{CompetitionPin: "123456", TeamName: "Wolves", Password: "secret", MemberEmail: "s@example.com"},
			wantErr: domain.ErrIllegalGameState,
		},
		{
			name:    "missing password",
			setup:   func(*memoryStore, *domain.Competition) {},
			request: domain.JoinTeamRequest{CompetitionPin: "123456", TeamName: "Wolves", MemberEmail: "s@example.com"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			competition := store.addCompetition("123456", domain.StateRegistration, 5)
			svc := newTeamJoinService(store)
			registerTeam(t, store, svc)
			tt.setup(store, competition)

			req := tt.request
			_, err := svc.JoinTeam(context.Background(), &req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
