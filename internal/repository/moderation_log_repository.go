package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/karuteens/moderation/internal/models"
)

// ModerationLogRepository журнал аудита, только на добавление.
type ModerationLogRepository struct {
	db *sqlx.DB
}

func NewModerationLogRepository(db *sqlx.DB) *ModerationLogRepository {
	return &ModerationLogRepository{db: db}
}

func (r *ModerationLogRepository) Append(ctx context.Context, entry *models.ModerationLog) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO moderation_logs (moderator_id, action_type, target_type, target_id, reason, description, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, entry.ModeratorID, entry.ActionType, entry.TargetType, entry.TargetID, entry.Reason,
		entry.Description, entry.IPAddress, entry.UserAgent).
		Scan(&entry.ID, &entry.CreatedAt)
}
