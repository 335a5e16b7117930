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

var ErrAutoFlagNotFound = errors.New("auto flag not found")

// AutoFlagFilter фильтр списка автофлагов. Пустые поля не фильтруют.
type AutoFlagFilter struct {
	Status   string
	FlagType string
}

// AutoFlagRepository хранит автофлаги. Строки никогда не удаляются.
type AutoFlagRepository struct {
	db *sqlx.DB
}

func NewAutoFlagRepository(db *sqlx.DB) *AutoFlagRepository {
	return &AutoFlagRepository{db: db}
}

// Create всегда вставляет новую строку со статусом pending, без дедупликации.
func (r *AutoFlagRepository) Create(ctx context.Context, flag *models.AutoFlag) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO auto_flags (content_type, content_id, flag_type, confidence_score, details, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, status, created_at, updated_at
	`, flag.ContentType, flag.ContentID, flag.FlagType, flag.ConfidenceScore, flag.Details).
		Scan(&flag.ID, &flag.Status, &flag.CreatedAt, &flag.UpdatedAt)
}

func (r *AutoFlagRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AutoFlag, error) {
	return common.GetByID[models.AutoFlag](ctx, r.db, "auto_flags", id, ErrAutoFlagNotFound)
}

func (r *AutoFlagRepository) List(ctx context.Context, filter AutoFlagFilter, limit, offset int) ([]models.AutoFlag, error) {
	f := &common.Filter{}
	f.EqIfSet("status", filter.Status).EqIfSet("flag_type", filter.FlagType)
	query, args := f.Page("SELECT * FROM auto_flags", "created_at DESC", limit, offset)

	flags := []models.AutoFlag{}
	if err := r.db.SelectContext(ctx, &flags, query, args...); err != nil {
		return nil, fmt.Errorf("list auto flags: %w", err)
	}
	return flags, nil
}

// UpdateStatus переводит флаг из from в to одним оператором.
// Если статус успели изменить, возвращает common.ErrStatusConflict.
func (r *AutoFlagRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.AutoFlag, error) {
	var flag models.AutoFlag
	err := r.db.GetContext(ctx, &flag, `
		UPDATE auto_flags SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	`, id, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update auto flag status: %w", err)
	}
	return &flag, nil
}

// PromoteToReport в одной транзакции создаёт жалобу по флагу и помечает флаг просмотренным.
func (r *AutoFlagRepository) PromoteToReport(ctx context.Context, flagID uuid.UUID, report *models.Report) (*models.AutoFlag, error) {
	var flag models.AutoFlag
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &flag, `
			UPDATE auto_flags SET status = 'reviewed', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING *
		`, flagID)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrStatusConflict
		}
		if err != nil {
			return err
		}
		return insertReport(ctx, tx, report)
	})
	if err != nil {
		return nil, err
	}
	return &flag, nil
}
