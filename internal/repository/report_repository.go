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

var ErrReportNotFound = errors.New("report not found")

// ReportFilter фильтр очереди жалоб.
type ReportFilter struct {
	Status     string
	ReportType string
}

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return insertReport(ctx, r.db, report)
}

func insertReport(ctx context.Context, q sqlx.QueryerContext, report *models.Report) error {
	return q.QueryRowxContext(ctx, `
		INSERT INTO reports (reporter_id, report_type, target_id, reason, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`, report.ReporterID, report.ReportType, report.TargetID, report.Reason, report.Description).
		Scan(&report.ID, &report.Status, &report.CreatedAt, &report.UpdatedAt)
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return common.GetByID[models.Report](ctx, r.db, "reports", id, ErrReportNotFound)
}

func (r *ReportRepository) List(ctx context.Context, filter ReportFilter, limit, offset int) ([]models.Report, error) {
	f := &common.Filter{}
	f.EqIfSet("status", filter.Status).EqIfSet("report_type", filter.ReportType)
	query, args := f.Page("SELECT * FROM reports", "created_at DESC", limit, offset)

	reports := []models.Report{}
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus переводит жалобу из from в to, защищая от потерянного обновления.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Report, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report, `
		UPDATE reports SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	`, id, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update report status: %w", err)
	}
	return &report, nil
}

// SetStatus безусловно выставляет статус одним атомарным UPDATE.
// Используется санкциями (resolved) и апелляциями (appealed).
func (r *ReportRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("set report status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrReportNotFound
	}
	return nil
}
