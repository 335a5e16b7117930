package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/service"
)

// ModerationQueue операции очереди модерации, которые вызывают обработчики.
type ModerationQueue interface {
	CreateReport(ctx context.Context, actor service.Actor, input service.CreateReportInput) (*models.Report, error)
	ListReports(ctx context.Context, actor service.Actor, query service.ReportQuery, limit, offset int) ([]models.Report, error)
	GetReport(ctx context.Context, actor service.Actor, id uuid.UUID) (*models.Report, error)
	UpdateReportStatus(ctx context.Context, actor service.Actor, id uuid.UUID, input service.StatusUpdateInput) (*models.Report, error)

	CreateEnforcementAction(ctx context.Context, actor service.Actor, input service.CreateEnforcementActionInput) (*models.EnforcementAction, error)
	ListEnforcementActions(ctx context.Context, actor service.Actor, query service.EnforcementQuery, limit, offset int) ([]models.EnforcementAction, error)

	CreateAppeal(ctx context.Context, actor service.Actor, input service.CreateAppealInput) (*models.Appeal, error)
	ListAppeals(ctx context.Context, actor service.Actor, query service.AppealQuery, limit, offset int) ([]models.Appeal, error)
	UpdateAppealStatus(ctx context.Context, actor service.Actor, id uuid.UUID, input service.StatusUpdateInput) (*models.Appeal, error)

	ListAutoFlags(ctx context.Context, actor service.Actor, query service.AutoFlagQuery, limit, offset int) ([]models.AutoFlag, error)
	UpdateAutoFlagStatus(ctx context.Context, actor service.Actor, id uuid.UUID, input service.StatusUpdateInput) (*models.AutoFlag, error)
	PromoteAutoFlag(ctx context.Context, actor service.Actor, flagID uuid.UUID, input service.PromoteAutoFlagInput) (*models.Report, error)
}

var _ ModerationQueue = (*service.ModerationService)(nil)
