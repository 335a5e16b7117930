package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/repository/common"
)

// EnforcementActionFilter фильтр истории санкций.
type EnforcementActionFilter struct {
	ActionType string
	TargetType string
	TargetID   string
}

// EnforcementActionRepository только добавляет записи. Санкции не редактируются.
type EnforcementActionRepository struct {
	db *sqlx.DB
}

func NewEnforcementActionRepository(db *sqlx.DB) *EnforcementActionRepository {
	return &EnforcementActionRepository{db: db}
}

// Create сохраняет санкцию. durationSeconds переводится в interval на стороне БД.
func (r *EnforcementActionRepository) Create(ctx context.Context, action *models.EnforcementAction, durationSeconds *float64) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO enforcement_actions (report_id, moderator_id, action_type, target_type, target_id, reason, description, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::double precision * INTERVAL '1 second')
		RETURNING id, duration::text, created_at
	`, action.ReportID, action.ModeratorID, action.ActionType, action.TargetType, action.TargetID,
		action.Reason, action.Description, durationSeconds).
		Scan(&action.ID, &action.Duration, &action.CreatedAt)
}

func (r *EnforcementActionRepository) List(ctx context.Context, filter EnforcementActionFilter, limit, offset int) ([]models.EnforcementAction, error) {
	f := &common.Filter{}
	f.EqIfSet("action_type", filter.ActionType).
		EqIfSet("target_type", filter.TargetType).
		EqIfSet("target_id", filter.TargetID)
	query, args := f.Page(`SELECT id, report_id, moderator_id, action_type, target_type, target_id,
		reason, description, duration::text AS duration, created_at FROM enforcement_actions`,
		"created_at DESC", limit, offset)

	actions := []models.EnforcementAction{}
	if err := r.db.SelectContext(ctx, &actions, query, args...); err != nil {
		return nil, fmt.Errorf("list enforcement actions: %w", err)
	}
	return actions, nil
}
