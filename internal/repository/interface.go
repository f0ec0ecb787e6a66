package repository

import (
	"context"

	"github.com/groudina/competitions/internal/domain"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// Create создает нового пользователя и заполняет его ID
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail получает пользователя по e-mail
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CompetitionRepository определяет методы для работы с данными соревнований
type CompetitionRepository interface {
	// Save сохраняет новое соревнование и заполняет его ID
	Save(ctx context.Context, competition *domain.Competition) error

	// GetByPin получает соревнование по пину
	GetByPin(ctx context.Context, pin string) (*domain.Competition, error)

	// PinExists проверяет, занят ли пин каким-либо соревнованием
	PinExists(ctx context.Context, pin string) (bool, error)
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// Create создает команду вместе с записью о капитане и назначает ей номер.
	// Возвращает domain.ErrTooManyTeams если в соревновании уже maxTeams команд.
	Create(ctx context.Context, team *domain.Team, maxTeams int) error

	// GetByName получает команду соревнования по имени
	GetByName(ctx context.Context, competitionID int64, name string) (*domain.Team, error)

	// AddMember добавляет участника в команду.
	// Возвращает domain.ErrTeamFull если в команде уже maxTeamSize участников
	// и domain.ErrAlreadyInTeam если участник уже состоит в команде соревнования.
	AddMember(ctx context.Context, team *domain.Team, userID int64, maxTeamSize int) error

	// NameTaken проверяет, занято ли имя команды в соревновании
	NameTaken(ctx context.Context, competitionID int64, name string) (bool, error)

	// IsMember проверяет, состоит ли пользователь в какой-либо команде соревнования
	IsMember(ctx context.Context, competitionID, userID int64) (bool, error)
}
