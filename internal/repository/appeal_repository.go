package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/repository/common"
)

var ErrAppealNotFound = errors.New("appeal not found")

// AppealFilter фильтр апелляций. UserID ограничивает выборку апелляциями одного пользователя.
type AppealFilter struct {
	Status string
	UserID *uuid.UUID
}

type AppealRepository struct {
	db *sqlx.DB
}

func NewAppealRepository(db *sqlx.DB) *AppealRepository {
	return &AppealRepository{db: db}
}

func (r *AppealRepository) Create(ctx context.Context, appeal *models.Appeal) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO appeals (report_id, user_id, reason, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at
	`, appeal.ReportID, appeal.UserID, appeal.Reason, appeal.Description).
		Scan(&appeal.ID, &appeal.Status, &appeal.CreatedAt, &appeal.UpdatedAt)
}

func (r *AppealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Appeal, error) {
	return common.GetByID[models.Appeal](ctx, r.db, "appeals", id, ErrAppealNotFound)
}

func (r *AppealRepository) List(ctx context.Context, filter AppealFilter, limit, offset int) ([]models.Appeal, error) {
	f := &common.Filter{}
	f.EqIfSet("status", filter.Status)
	if filter.UserID != nil {
		f.Eq("user_id", *filter.UserID)
	}
	query, args := f.Page("SELECT * FROM appeals", "created_at DESC", limit, offset)

	appeals := []models.Appeal{}
	if err := r.db.SelectContext(ctx, &appeals, query, args...); err != nil {
		return nil, fmt.Errorf("list appeals: %w", err)
	}
	return appeals, nil
}

func (r *AppealRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Appeal, error) {
	var appeal models.Appeal
	err := r.db.GetContext(ctx, &appeal, `
		UPDATE appeals SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	`, id, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update appeal status: %w", err)
	}
	return &appeal, nil
}
