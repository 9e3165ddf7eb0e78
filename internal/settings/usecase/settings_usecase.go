package usecase

import (
	"regexp"
	"time"

	authdomain "triago-backend/internal/auth/domain"
	authrepo "triago-backend/internal/auth/repository"
	settingsdomain "triago-backend/internal/settings/domain"
	settingsdto "triago-backend/internal/settings/dto"
	"triago-backend/internal/settings/repository"
)

// SettingsUsecase defines the interface for settings use cases
type SettingsUsecase interface {
	// GetAutoReply returns the user's settings, creating the default row on
	// first access.
	GetAutoReply(userID string) (*settingsdto.AutoReplyResponse, error)
	UpdateAutoReply(userID string, req *settingsdto.UpdateAutoReplyRequest) (*settingsdto.AutoReplyResponse, error)
	ToggleAutoReply(userID string) (*settingsdto.ToggleResponse, error)
	Connections(userID string) (*settingsdto.ConnectionsResponse, error)
	Templates() []settingsdto.Template
}

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// settingsUsecase implements SettingsUsecase interface
type settingsUsecase struct {
	settingsRepo repository.SettingsRepository
	connRepo     authrepo.ConnectionRepository
	now          func() time.Time
}

// NewSettingsUsecase creates a new instance of settingsUsecase
func NewSettingsUsecase(settingsRepo repository.SettingsRepository, connRepo authrepo.ConnectionRepository) SettingsUsecase {
	return &settingsUsecase{
		settingsRepo: settingsRepo,
		connRepo:     connRepo,
		now:          time.Now,
	}
}

// getOrInit keeps the default-value policy in application code instead of a
// database-level upsert.
func (u *settingsUsecase) getOrInit(userID string) (*settingsdomain.AutoReplySettings, error) {
	settings, err := u.settingsRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = settingsdomain.Defaults(userID)
		if err := u.settingsRepo.Create(settings); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

func (u *settingsUsecase) GetAutoReply(userID string) (*settingsdto.AutoReplyResponse, error) {
	settings, err := u.getOrInit(userID)
	if err != nil {
		return nil, err
	}
	return toResponse(settings), nil
}

func (u *settingsUsecase) UpdateAutoReply(userID string, req *settingsdto.UpdateAutoReplyRequest) (*settingsdto.AutoReplyResponse, error) {
	settings, err := u.getOrInit(userID)
	if err != nil {
		return nil, err
	}

	startTime := settings.StartTime
	endTime := settings.EndTime
	if req.StartTime != nil {
		if !timePattern.MatchString(*req.StartTime) {
			return nil, settingsdomain.ErrInvalidSchedule
		}
		startTime = *req.StartTime
	}
	if req.EndTime != nil {
		if !timePattern.MatchString(*req.EndTime) {
			return nil, settingsdomain.ErrInvalidSchedule
		}
		endTime = *req.EndTime
	}
	if startTime >= endTime {
		return nil, settingsdomain.ErrInvalidSchedule
	}

	settings.StartTime = startTime
	settings.EndTime = endTime
	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.Message != nil {
		settings.Message = *req.Message
	}
	if req.ActiveDays != nil {
		settings.ActiveDays = *req.ActiveDays
	}

	if err := u.settingsRepo.Update(settings); err != nil {
		return nil, err
	}
	return toResponse(settings), nil
}

func (u *settingsUsecase) ToggleAutoReply(userID string) (*settingsdto.ToggleResponse, error) {
	settings, err := u.getOrInit(userID)
	if err != nil {
		return nil, err
	}

	settings.Enabled = !settings.Enabled
	if err := u.settingsRepo.Update(settings); err != nil {
		return nil, err
	}

	message := "Resposta automática desativada"
	if settings.Enabled {
		message = "Resposta automática ativada"
	}
	return &settingsdto.ToggleResponse{Enabled: settings.Enabled, Message: message}, nil
}

func (u *settingsUsecase) Connections(userID string) (*settingsdto.ConnectionsResponse, error) {
	conns, err := u.connRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	infos := make([]settingsdto.ConnectionInfo, 0, len(conns))
	connected := make(map[string]bool, len(conns))
	for _, conn := range conns {
		connected[string(conn.Provider)] = true
		infos = append(infos, settingsdto.ConnectionInfo{
			ID:          conn.ID,
			Provider:    string(conn.Provider),
			Connected:   true,
			ConnectedAt: conn.CreatedAt,
			IsExpired:   conn.Expired(now),
		})
	}

	availability := make([]settingsdto.ProviderAvailability, 0, len(authdomain.AllProviders))
	for _, provider := range authdomain.AllProviders {
		availability = append(availability, settingsdto.ProviderAvailability{
			Provider:  string(provider),
			Connected: connected[string(provider)],
		})
	}

	return &settingsdto.ConnectionsResponse{
		Connections:        infos,
		AvailableProviders: availability,
	}, nil
}

func (u *settingsUsecase) Templates() []settingsdto.Template {
	return []settingsdto.Template{
		{ID: "default", Name: "Padrão", Message: settingsdomain.DefaultMessage},
		{ID: "meeting", Name: "Em reunião", Message: "Olá! Estou em uma reunião no momento. Assim que possível, entrarei em contato. Obrigado!"},
		{ID: "lunch", Name: "Horário de almoço", Message: "Estou no horário de almoço (12h às 14h). Retorno assim que voltar. Obrigado pela compreensão!"},
		{ID: "vacation", Name: "Férias", Message: "Estou em período de férias até [DATA]. Para assuntos urgentes, entre em contato com [CONTATO]. Obrigado!"},
		{ID: "medical", Name: "Médico - Em consulta", Message: "Estou em atendimento no momento. Analisarei sua mensagem assim que possível. Em caso de urgência, procure o pronto-socorro mais próximo."},
		{ID: "lawyer", Name: "Advogado - Em audiência", Message: "Estou em audiência no momento. Retornarei seu contato assim que possível. Obrigado pela compreensão."},
	}
}

func toResponse(settings *settingsdomain.AutoReplySettings) *settingsdto.AutoReplyResponse {
	return &settingsdto.AutoReplyResponse{
		Enabled:          settings.Enabled,
		Message:          settings.Message,
		StartTime:        settings.StartTime,
		EndTime:          settings.EndTime,
		ActiveDays:       settings.ActiveDays,
		ActiveDaysLabels: settings.Labels(),
	}
}
