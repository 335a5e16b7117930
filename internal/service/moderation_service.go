package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/karuteens/moderation/internal/logger"
	"github.com/karuteens/moderation/internal/metrics"
	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/pkg/apperror"
	"github.com/karuteens/moderation/internal/repository"
	"github.com/karuteens/moderation/internal/repository/common"
)

// ReportStore хранилище жалоб.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, filter repository.ReportFilter, limit, offset int) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Report, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

// AppealStore хранилище апелляций.
type AppealStore interface {
	Create(ctx context.Context, appeal *models.Appeal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Appeal, error)
	List(ctx context.Context, filter repository.AppealFilter, limit, offset int) ([]models.Appeal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Appeal, error)
}

// EnforcementStore хранилище санкций, только на добавление.
type EnforcementStore interface {
	Create(ctx context.Context, action *models.EnforcementAction, durationSeconds *float64) error
	List(ctx context.Context, filter repository.EnforcementActionFilter, limit, offset int) ([]models.EnforcementAction, error)
}

// AutoFlagStore хранилище автофлагов для модераторов.
type AutoFlagStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AutoFlag, error)
	List(ctx context.Context, filter repository.AutoFlagFilter, limit, offset int) ([]models.AutoFlag, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.AutoFlag, error)
	PromoteToReport(ctx context.Context, flagID uuid.UUID, report *models.Report) (*models.AutoFlag, error)
}

// CreateReportInput данные новой жалобы.
type CreateReportInput struct {
	ReportType  string `json:"report_type" validate:"required,oneof=user content technical"`
	TargetID    string `json:"target_id" validate:"required,max=255"`
	Reason      string `json:"reason" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=5000"`
}

// StatusUpdateInput смена статуса жалобы, апелляции или флага.
type StatusUpdateInput struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// PromoteAutoFlagInput перевод автофлага в жалобу.
type PromoteAutoFlagInput struct {
	Reason      string `json:"reason" validate:"max=255"`
	Description string `json:"description" validate:"max=5000"`
}

// CreateEnforcementActionInput решение модератора.
// Duration в формате time.ParseDuration ("72h"), пустая строка означает бессрочно.
type CreateEnforcementActionInput struct {
	ReportID    *uuid.UUID `json:"report_id"`
	ActionType  string     `json:"action_type" validate:"required,oneof=warn suspend ban delete_content hide_content reset_password"`
	TargetType  string     `json:"target_type" validate:"required,oneof=user content comment"`
	TargetID    string     `json:"target_id" validate:"required,max=255"`
	Reason      string     `json:"reason" validate:"required,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Duration    string     `json:"duration"`
}

// CreateAppealInput оспаривание жалобы.
type CreateAppealInput struct {
	ReportID    uuid.UUID `json:"report_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required,max=255"`
	Description string    `json:"description" validate:"required,max=5000"`
}

// ReportQuery фильтр очереди жалоб. Пустой Status означает pending, "all" отключает фильтр.
type ReportQuery struct {
	Status     string
	ReportType string
}

// AutoFlagQuery фильтр автофлагов, статус по умолчанию pending.
type AutoFlagQuery struct {
	Status   string
	FlagType string
}

// AppealQuery фильтр апелляций. Пустой Status или "all" отключает фильтр.
type AppealQuery struct {
	Status string
}

// EnforcementQuery фильтр истории санкций.
type EnforcementQuery struct {
	ActionType string
	TargetType string
	TargetID   string
}

// ModerationService очередь модерации: жалобы, санкции, апелляции и автофлаги.
// Каждая успешная запись сопровождается ровно одной записью журнала.
type ModerationService struct {
	policy  AuthorizationPolicy
	reports ReportStore
	appeals AppealStore
	actions EnforcementStore
	flags   AutoFlagStore
	logs    LogSink
}

func NewModerationService(
	policy AuthorizationPolicy,
	reports ReportStore,
	appeals AppealStore,
	actions EnforcementStore,
	flags AutoFlagStore,
	logs LogSink,
) *ModerationService {
	return &ModerationService{
		policy:  policy,
		reports: reports,
		appeals: appeals,
		actions: actions,
		flags:   flags,
		logs:    logs,
	}
}

func (s *ModerationService) requireUser(actor Actor) error {
	if !actor.Authenticated() {
		return apperror.ErrUnauthorized
	}
	return nil
}

// requireAdmin не раскрывает причину отказа.
func (s *ModerationService) requireAdmin(actor Actor) error {
	if err := s.requireUser(actor); err != nil {
		return err
	}
	if !s.policy.IsAdmin(actor.Identity) {
		return apperror.ErrForbidden
	}
	return nil
}

// IsAdmin сообщает, является ли инициатор модератором.
func (s *ModerationService) IsAdmin(actor Actor) bool {
	return actor.Authenticated() && s.policy.IsAdmin(actor.Identity)
}

// CreateReport создаёт жалобу от имени пользователя.
func (s *ModerationService) CreateReport(ctx context.Context, actor Actor, input CreateReportInput) (*models.Report, error) {
	if err := s.requireUser(actor); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	report := &models.Report{
		ReporterID:  actor.UserID,
		ReportType:  input.ReportType,
		TargetID:    input.TargetID,
		Reason:      input.Reason,
		Description: input.Description,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperror.Persistence(err, "не удалось создать жалобу")
	}

	s.audit(ctx, actor, models.LogActionCreateReport, models.LogTargetReport, report.ID.String(), report.Reason, nil)
	return report, nil
}

func (s *ModerationService) ListReports(ctx context.Context, actor Actor, query ReportQuery, limit, offset int) ([]models.Report, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	status, err := statusFilter(query.Status, models.ReportStatusPending, models.ValidReportStatuses)
	if err != nil {
		return nil, err
	}
	if query.ReportType != "" && !isOneOf(query.ReportType, models.ReportTypeUser, models.ReportTypeContent, models.ReportTypeTechnical) {
		return nil, apperror.Validation("неизвестный тип жалобы")
	}

	reports, err := s.reports.List(ctx, repository.ReportFilter{Status: status, ReportType: query.ReportType}, limit, offset)
	if err != nil {
		return nil, apperror.Persistence(err, "не удалось получить жалобы")
	}
	return reports, nil
}

// GetReport доступна модератору и автору жалобы.
func (s *ModerationService) GetReport(ctx context.Context, actor Actor, id uuid.UUID) (*models.Report, error) {
	if err := s.requireUser(actor); err != nil {
		return nil, err
	}

	report, err := s.getReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.ReporterID != actor.UserID && !s.policy.IsAdmin(actor.Identity) {
		return nil, apperror.ErrForbidden
	}
	return report, nil
}

func (s *ModerationService) UpdateReportStatus(ctx context.Context, actor Actor, id uuid.UUID, input StatusUpdateInput) (*models.Report, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, ok := models.ValidReportStatuses[input.Status]; !ok {
		return nil, apperror.Validation("неизвестный статус жалобы")
	}

	current, err := s.getReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionReport(current.Status, input.Status) {
		return nil, transitionError(current.Status, input.Status)
	}

	updated, err := s.reports.UpdateStatus(ctx, id, current.Status, input.Status)
	if err != nil {
		return nil, s.updateError(err, "не удалось обновить жалобу")
	}

	s.audit(ctx, actor, models.LogActionUpdateReportStatus, models.LogTargetReport, id.String(),
		transitionReason(current.Status, updated.Status), input.Notes)
	return updated, nil
}

// PromoteAutoFlag превращает автофлаг в жалобу типа content и помечает флаг просмотренным.
func (s *ModerationService) PromoteAutoFlag(ctx context.Context, actor Actor, flagID uuid.UUID, input PromoteAutoFlagInput) (*models.Report, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	flag, err := s.getAutoFlag(ctx, flagID)
	if err != nil {
		return nil, err
	}
	if flag.Status != models.AutoFlagStatusPending {
		return nil, transitionError(flag.Status, models.AutoFlagStatusReviewed)
	}

	reason := input.Reason
	if reason == "" {
		reason = fmt.Sprintf("автофлаг: %s", flag.FlagType)
	}
	description := input.Description
	if description == "" {
		description = fmt.Sprintf("%s %s, уверенность %s", flag.ContentType, flag.ContentID, flag.ConfidenceScore.StringFixed(2))
	}

	report := &models.Report{
		ReporterID:  actor.UserID,
		ReportType:  models.ReportTypeContent,
		TargetID:    flag.ContentID,
		Reason:      reason,
		Description: description,
	}
	if _, err := s.flags.PromoteToReport(ctx, flagID, report); err != nil {
		return nil, s.updateError(err, "не удалось создать жалобу по флагу")
	}

	note := fmt.Sprintf("report %s", report.ID)
	s.audit(ctx, actor, models.LogActionPromoteAutoFlag, models.LogTargetAutoFlag, flagID.String(), reason, &note)
	return report, nil
}

// CreateEnforcementAction записывает решение модератора. Сами последствия
// (блокировка, удаление контента) выполняют внешние системы.
// Если указана жалоба, она переводится в resolved отдельным атомарным UPDATE;
// сбой этого шага логируется и не отменяет санкцию.
func (s *ModerationService) CreateEnforcementAction(ctx context.Context, actor Actor, input CreateEnforcementActionInput) (*models.EnforcementAction, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	durationSeconds, err := parseActionDuration(input.Duration)
	if err != nil {
		return nil, err
	}

	if input.ReportID != nil {
		if _, err := s.getReport(ctx, *input.ReportID); err != nil {
			return nil, err
		}
	}

	action := &models.EnforcementAction{
		ReportID:    input.ReportID,
		ModeratorID: actor.UserID,
		ActionType:  input.ActionType,
		TargetType:  input.TargetType,
		TargetID:    input.TargetID,
		Reason:      input.Reason,
		Description: input.Description,
	}
	if err := s.actions.Create(ctx, action, durationSeconds); err != nil {
		return nil, apperror.Persistence(err, "не удалось сохранить санкцию")
	}

	if input.ReportID != nil {
		if err := s.reports.SetStatus(ctx, *input.ReportID, models.ReportStatusResolved); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"action_id": action.ID,
				"report_id": *input.ReportID,
			}).Error("санкция сохранена, но жалоба не закрыта")
		}
	}

	s.audit(ctx, actor, action.ActionType, action.TargetType, action.TargetID, action.Reason, action.Description)
	return action, nil
}

func (s *ModerationService) ListEnforcementActions(ctx context.Context, actor Actor, query EnforcementQuery, limit, offset int) ([]models.EnforcementAction, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	actions, err := s.actions.List(ctx, repository.EnforcementActionFilter{
		ActionType: query.ActionType,
		TargetType: query.TargetType,
		TargetID:   query.TargetID,
	}, limit, offset)
	if err != nil {
		return nil, apperror.Persistence(err, "не удалось получить санкции")
	}
	return actions, nil
}

// CreateAppeal доступна любому пользователю и переводит жалобу в appealed независимо от её статуса.
func (s *ModerationService) CreateAppeal(ctx context.Context, actor Actor, input CreateAppealInput) (*models.Appeal, error) {
	if err := s.requireUser(actor); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.getReport(ctx, input.ReportID); err != nil {
		return nil, err
	}

	appeal := &models.Appeal{
		ReportID:    input.ReportID,
		UserID:      actor.UserID,
		Reason:      input.Reason,
		Description: input.Description,
	}
	if err := s.appeals.Create(ctx, appeal); err != nil {
		return nil, apperror.Persistence(err, "не удалось создать апелляцию")
	}

	if err := s.reports.SetStatus(ctx, input.ReportID, models.ReportStatusAppealed); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"appeal_id": appeal.ID,
			"report_id": input.ReportID,
		}).Error("апелляция сохранена, но статус жалобы не обновлён")
	}

	s.audit(ctx, actor, models.LogActionCreateAppeal, models.LogTargetReport, input.ReportID.String(), appeal.Reason, &appeal.Description)
	return appeal, nil
}

// ListAppeals: модератор видит все апелляции, остальные только свои.
func (s *ModerationService) ListAppeals(ctx context.Context, actor Actor, query AppealQuery, limit, offset int) ([]models.Appeal, error) {
	if err := s.requireUser(actor); err != nil {
		return nil, err
	}

	status, err := statusFilter(query.Status, "", models.ValidAppealStatuses)
	if err != nil {
		return nil, err
	}

	filter := repository.AppealFilter{Status: status}
	if !s.policy.IsAdmin(actor.Identity) {
		userID := actor.UserID
		filter.UserID = &userID
	}

	appeals, err := s.appeals.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, apperror.Persistence(err, "не удалось получить апелляции")
	}
	return appeals, nil
}

// UpdateAppealStatus меняет статус апелляции. Одобрение не отменяет санкции
// и не трогает жалобу: модератор меняет её статус отдельно.
func (s *ModerationService) UpdateAppealStatus(ctx context.Context, actor Actor, id uuid.UUID, input StatusUpdateInput) (*models.Appeal, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, ok := models.ValidAppealStatuses[input.Status]; !ok {
		return nil, apperror.Validation("неизвестный статус апелляции")
	}

	current, err := s.appeals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppealNotFound) {
			return nil, apperror.ErrAppealNotFound
		}
		return nil, apperror.Persistence(err, "не удалось получить апелляцию")
	}
	if !models.CanTransitionAppeal(current.Status, input.Status) {
		return nil, transitionError(current.Status, input.Status)
	}

	updated, err := s.appeals.UpdateStatus(ctx, id, current.Status, input.Status)
	if err != nil {
		return nil, s.updateError(err, "не удалось обновить апелляцию")
	}

	s.audit(ctx, actor, models.LogActionUpdateAppeal, models.LogTargetAppeal, id.String(),
		transitionReason(current.Status, updated.Status), input.Notes)
	return updated, nil
}

func (s *ModerationService) ListAutoFlags(ctx context.Context, actor Actor, query AutoFlagQuery, limit, offset int) ([]models.AutoFlag, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	status, err := statusFilter(query.Status, models.AutoFlagStatusPending, models.ValidAutoFlagStatuses)
	if err != nil {
		return nil, err
	}
	if query.FlagType != "" {
		if _, ok := models.ValidFlagTypes[query.FlagType]; !ok {
			return nil, apperror.Validation("неизвестный тип флага")
		}
	}

	flags, err := s.flags.List(ctx, repository.AutoFlagFilter{Status: status, FlagType: query.FlagType}, limit, offset)
	if err != nil {
		return nil, apperror.Persistence(err, "не удалось получить флаги")
	}
	return flags, nil
}

func (s *ModerationService) UpdateAutoFlagStatus(ctx context.Context, actor Actor, id uuid.UUID, input StatusUpdateInput) (*models.AutoFlag, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, ok := models.ValidAutoFlagStatuses[input.Status]; !ok {
		return nil, apperror.Validation("неизвестный статус флага")
	}

	current, err := s.getAutoFlag(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionAutoFlag(current.Status, input.Status) {
		return nil, transitionError(current.Status, input.Status)
	}

	updated, err := s.flags.UpdateStatus(ctx, id, current.Status, input.Status)
	if err != nil {
		return nil, s.updateError(err, "не удалось обновить флаг")
	}

	s.audit(ctx, actor, models.LogActionUpdateAutoFlag, models.LogTargetAutoFlag, id.String(),
		transitionReason(current.Status, updated.Status), input.Notes)
	return updated, nil
}

func (s *ModerationService) getReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, apperror.ErrReportNotFound
		}
		return nil, apperror.Persistence(err, "не удалось получить жалобу")
	}
	return report, nil
}

func (s *ModerationService) getAutoFlag(ctx context.Context, id uuid.UUID) (*models.AutoFlag, error) {
	flag, err := s.flags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAutoFlagNotFound) {
			return nil, apperror.ErrAutoFlagNotFound
		}
		return nil, apperror.Persistence(err, "не удалось получить флаг")
	}
	return flag, nil
}

// updateError превращает конфликт compare-and-set в ошибку валидации.
func (s *ModerationService) updateError(err error, message string) error {
	if errors.Is(err, common.ErrStatusConflict) {
		return apperror.Validation("статус изменён другим модератором, обновите данные")
	}
	return apperror.Persistence(err, message)
}

// audit добавляет запись в журнал. Запись уже выполнена, поэтому сбой журнала только логируется.
func (s *ModerationService) audit(ctx context.Context, actor Actor, action, targetType, targetID, reason string, description *string) {
	moderatorID := actor.UserID
	entry := &models.ModerationLog{
		ModeratorID: &moderatorID,
		ActionType:  action,
		TargetType:  targetType,
		TargetID:    targetID,
		Reason:      reason,
		Description: description,
		IPAddress:   optional(actor.IPAddress),
		UserAgent:   optional(actor.UserAgent),
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"action":    action,
			"target_id": targetID,
		}).Error("не удалось записать журнал модерации")
		return
	}
	metrics.QueueWrites.WithLabelValues(action).Inc()
}

// statusFilter: пусто означает def, "all" отключает фильтр.
func statusFilter(status, def string, valid map[string]struct{}) (string, error) {
	switch status {
	case "":
		return def, nil
	case models.StatusFilterAll:
		return "", nil
	}
	if _, ok := valid[status]; !ok {
		return "", apperror.Validation("неизвестный статус")
	}
	return status, nil
}

func transitionError(from, to string) error {
	return apperror.Validation(fmt.Sprintf("недопустимый переход статуса: %s → %s", from, to))
}

func transitionReason(from, to string) string {
	return fmt.Sprintf("status: %s → %s", from, to)
}

// parseActionDuration возвращает длительность санкции в секундах или nil для бессрочной.
func parseActionDuration(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return nil, apperror.Validation("duration: ожидается положительная длительность, например 72h")
	}
	seconds := d.Seconds()
	return &seconds, nil
}

func isOneOf(value string, options ...string) bool {
	for _, o := range options {
		if value == o {
			return true
		}
	}
	return false
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
