package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"github.com/karuteens/moderation/internal/logger"
	"github.com/karuteens/moderation/internal/metrics"
	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/pkg/apperror"
)

// FlagStore сохраняет автофлаги.
type FlagStore interface {
	Create(ctx context.Context, flag *models.AutoFlag) error
}

// LogSink журнал аудита, только на запись.
type LogSink interface {
	Append(ctx context.Context, entry *models.ModerationLog) error
}

// FlagNotifier получает каждый созданный автофлаг (лента модераторов).
type FlagNotifier interface {
	NotifyAutoFlag(flag *models.AutoFlag)
}

// SubmitFlagInput данные нового автофлага.
type SubmitFlagInput struct {
	ContentType     string  `json:"content_type" validate:"required,oneof=profile post comment media"`
	ContentID       string  `json:"content_id" validate:"required,max=255"`
	FlagType        string  `json:"flag_type" validate:"required,oneof=toxicity hate_speech spam nudity copyright"`
	ConfidenceScore float64 `json:"confidence_score" validate:"gte=0,lte=1"`
	Details         any     `json:"details"`
}

// FlagService создаёт автофлаги по результатам сканирования.
type FlagService struct {
	store    FlagStore
	logs     LogSink
	notifier FlagNotifier
}

// NewFlagService создаёт сервис. notifier может быть nil.
func NewFlagService(store FlagStore, logs LogSink, notifier FlagNotifier) *FlagService {
	return &FlagService{store: store, logs: logs, notifier: notifier}
}

// SubmitFlag всегда создаёт новую запись со статусом pending.
// Повторные флаги по тому же контенту не схлопываются.
// Запись журнала системная, без модератора: так флаги создаёт сканер.
func (s *FlagService) SubmitFlag(ctx context.Context, input SubmitFlagInput) (*models.AutoFlag, error) {
	return s.submit(ctx, nil, input)
}

// SubmitFlagAs то же, что SubmitFlag, но в журнал попадает отправитель с IP и User-Agent.
func (s *FlagService) SubmitFlagAs(ctx context.Context, actor Actor, input SubmitFlagInput) (*models.AutoFlag, error) {
	if !actor.Authenticated() {
		return nil, apperror.ErrUnauthorized
	}
	return s.submit(ctx, &actor, input)
}

func (s *FlagService) submit(ctx context.Context, actor *Actor, input SubmitFlagInput) (*models.AutoFlag, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	details := types.JSONText("{}")
	if input.Details != nil {
		raw, err := json.Marshal(input.Details)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "details: некорректный JSON")
		}
		details = raw
	}

	flag := &models.AutoFlag{
		ContentType:     input.ContentType,
		ContentID:       input.ContentID,
		FlagType:        input.FlagType,
		ConfidenceScore: decimal.NewFromFloat(input.ConfidenceScore).Round(2),
		Details:         details,
	}
	if err := s.store.Create(ctx, flag); err != nil {
		return nil, apperror.Persistence(err, "не удалось сохранить флаг")
	}
	metrics.FlagsSubmitted.WithLabelValues(flag.FlagType).Inc()

	entry := &models.ModerationLog{
		ActionType: models.LogActionCreateAutoFlag,
		TargetType: models.LogTargetAutoFlag,
		TargetID:   flag.ID.String(),
		Reason:     fmt.Sprintf("автоматическое обнаружение: %s", flag.FlagType),
	}
	if actor != nil {
		submitterID := actor.UserID
		entry.ModeratorID = &submitterID
		entry.Reason = fmt.Sprintf("флаг отправлен вручную: %s", flag.FlagType)
		entry.IPAddress = optional(actor.IPAddress)
		entry.UserAgent = optional(actor.UserAgent)
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		logger.Log.WithError(err).WithField("flag_id", flag.ID).Warn("не удалось записать системный журнал")
	}

	if s.notifier != nil {
		s.notifier.NotifyAutoFlag(flag)
	}

	return flag, nil
}
