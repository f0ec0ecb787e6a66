package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/groudina/competitions/internal/domain"
	"github.com/groudina/competitions/internal/mapper"
	"github.com/groudina/competitions/internal/middleware"
	"github.com/groudina/competitions/internal/pin"
)

// Сообщения ответов эндпоинтов соревнований
const (
	MsgCompetitionCreated   = "Competition Created Successfully"
	MsgTeamCreated          = "Team created successfully"
	MsgCaptainInAnotherTeam = "Captain is in another team already"
	MsgIllegalGameState     = "Illegal game state"
	MsgWrongTeamPassword    = "Wrong team password"
	MsgAlreadyInTeam        = "Student is in another team already"
)

// UserFinder ищет пользователя по e-mail
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CompetitionStore сохраняет и ищет соревнования
type CompetitionStore interface {
	Save(ctx context.Context, competition *domain.Competition) error
	GetByPin(ctx context.Context, pin string) (*domain.Competition, error)
}

// CompetitionMapper строит сохраняемое соревнование из запроса
type CompetitionMapper = mapper.EntitiesMapper[*domain.NewCompetition, *domain.Competition]

// TeamJoiner регистрирует команды и участников в соревновании
type TeamJoiner interface {
	AddTeamToCompetition(ctx context.Context, newTeam *domain.NewTeam) (*domain.Team, error)
	JoinTeam(ctx context.Context, req *domain.JoinTeamRequest) (*domain.Team, error)
}

// CompetitionHandler обрабатывает эндпоинты соревнований
type CompetitionHandler struct {
	users        UserFinder
	competitions CompetitionStore
	mapper       CompetitionMapper
	pins         pin.Generator
	teamJoin     TeamJoiner
	logger       *slog.Logger
}

// NewCompetitionHandler создает новый CompetitionHandler
func NewCompetitionHandler(
	users UserFinder,
	competitions CompetitionStore,
	competitionMapper CompetitionMapper,
	pins pin.Generator,
	teamJoin TeamJoiner,
	logger *slog.Logger,
) *CompetitionHandler {
	return &CompetitionHandler{
		users:        users,
		competitions: competitions,
		mapper:       competitionMapper,
		pins:         pins,
		teamJoin:     teamJoin,
		logger:       logger,
	}
}

// Create обрабатывает POST /api/competitions/create
func (h *CompetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.NewCompetition
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		HandleError(w, r, err)
		return
	}

	ctx := r.Context()
	email := middleware.GetEmailFromContext(ctx)

	// Владелец соревнования - текущий пользователь
	owner, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		h.logger.Warn("Competition owner lookup failed", "email", email, "error", err)
		HandleError(w, r, err)
		return
	}

	params := mapper.Params{}.With(mapper.ParamOwner, owner)

	// Пин выдается только соревнованиям, открытым для регистрации
	if req.State == domain.RegistrationWireName {
		code, err := h.pins.Generate(ctx)
		if err != nil {
			h.logger.Error("Failed to generate pin", "error", err)
			HandleError(w, r, err)
			return
		}
		params = params.With(mapper.ParamPin, code)
	}

	competition, err := h.mapper.Map(&req, params)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if err := h.competitions.Save(ctx, competition); err != nil {
		h.logger.Error("Failed to save competition", "owner_id", owner.ID, "error", err)
		HandleError(w, r, err)
		return
	}

	h.logger.Info("Competition created",
		"competition_id", competition.ID,
		"owner_id", owner.ID,
		"state", competition.State,
	)
	RespondWithMessage(w, r, http.StatusOK, MsgCompetitionCreated)
}

// CreateTeam обрабатывает POST /api/competitions/create_team
func (h *CompetitionHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req domain.NewTeam
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}

	// Капитаном всегда становится текущий пользователь
	req.CaptainEmail = middleware.GetEmailFromContext(r.Context())

	if err := req.Validate(); err != nil {
		HandleError(w, r, err)
		return
	}

	_, err := h.teamJoin.AddTeamToCompetition(r.Context(), &req)
	switch {
	case err == nil:
		RespondWithMessage(w, r, http.StatusOK, MsgTeamCreated)
	case errors.Is(err, domain.ErrCaptainInAnotherTeam):
		RespondWithMessage(w, r, http.StatusBadRequest, MsgCaptainInAnotherTeam)
	case errors.Is(err, domain.ErrIllegalGameState):
		RespondWithMessage(w, r, http.StatusBadRequest, MsgIllegalGameState)
	default:
		HandleError(w, r, err)
	}
}

// JoinTeam обрабатывает POST /api/competitions/join_team
func (h *CompetitionHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	var req domain.JoinTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}
	req.MemberEmail = middleware.GetEmailFromContext(r.Context())

	if err := req.Validate(); err != nil {
		HandleError(w, r, err)
		return
	}

	team, err := h.teamJoin.JoinTeam(r.Context(), &req)
	switch {
	case err == nil:
		RespondWithJSON(w, r, http.StatusOK, domain.JoinTeamResponse{CurrentTeamName: team.Name})
	case errors.Is(err, domain.ErrIllegalGameState):
		RespondWithMessage(w, r, http.StatusBadRequest, MsgIllegalGameState)
	case errors.Is(err, domain.ErrWrongTeamPassword):
		RespondWithMessage(w, r, http.StatusBadRequest, MsgWrongTeamPassword)
	case errors.Is(err, domain.ErrAlreadyInTeam):
		RespondWithMessage(w, r, http.StatusBadRequest, MsgAlreadyInTeam)
	default:
		HandleError(w, r, err)
	}
}

// CheckPin обрабатывает POST /api/competitions/check_pin
func (h *CompetitionHandler) CheckPin(w http.ResponseWriter, r *http.Request) {
	var req domain.GamePinCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), "invalid request body")
		return
	}

	competition, err := h.competitions.GetByPin(r.Context(), strings.TrimSpace(req.Pin))
	if err != nil {
		if errors.Is(err, domain.ErrCompetitionNotFound) {
			RespondWithJSON(w, r, http.StatusOK, domain.GamePinCheckResponse{Valid: false})
			return
		}
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, domain.GamePinCheckResponse{
		Valid: competition.State == domain.StateRegistration,
	})
}
