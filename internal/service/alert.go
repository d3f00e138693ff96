package service

import (
	"context"
	"time"

	"contentpilot/internal/dto"
	"contentpilot/internal/repository"
	"contentpilot/pkg/logger"
)

// AlertService exposes the read side of the operator alert feed.
type AlertService interface {
	ListAlerts(ctx context.Context, unresolvedOnly bool, limit, offset int) ([]dto.AlertListResponse, error)
}

type alertService struct {
	log       *logger.Logger
	alertRepo repository.AdminAlertRepository
}

func NewAlertService(log *logger.Logger, alertRepo repository.AdminAlertRepository) AlertService {
	return &alertService{log: log, alertRepo: alertRepo}
}

func (s *alertService) ListAlerts(ctx context.Context, unresolvedOnly bool, limit, offset int) ([]dto.AlertListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	alerts, err := s.alertRepo.Get(ctx, &repository.GetAlertParam{
		UnresolvedOnly: unresolvedOnly,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list alerts", logger.ErrorField(err))
		return nil, err
	}

	resp := make([]dto.AlertListResponse, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, dto.AlertListResponse{
			ID:           a.ID,
			AlertType:    a.AlertType,
			Severity:     a.Severity,
			Title:        a.Title,
			Message:      a.Message,
			ResourceType: string(a.ResourceType),
			ResourceID:   a.ResourceID,
			IsRead:       a.IsRead,
			IsResolved:   a.IsResolved,
			CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}
