package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// AutoFlag подозрение, созданное автоматическим сканером и ожидающее модератора.
type AutoFlag struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	ContentType     string          `db:"content_type" json:"content_type"`
	ContentID       string          `db:"content_id" json:"content_id"`
	FlagType        string          `db:"flag_type" json:"flag_type"`
	ConfidenceScore decimal.Decimal `db:"confidence_score" json:"confidence_score"`
	Details         types.JSONText  `db:"details" json:"details,omitempty"`
	Status          string          `db:"status" json:"status"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Report жалоба пользователя (или системы) на пользователя или контент.
type Report struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ReporterID  uuid.UUID `db:"reporter_id" json:"reporter_id"`
	ReportType  string    `db:"report_type" json:"report_type"`
	TargetID    string    `db:"target_id" json:"target_id"`
	Reason      string    `db:"reason" json:"reason"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EnforcementAction неизменяемая запись о решении модератора.
type EnforcementAction struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ReportID    *uuid.UUID `db:"report_id" json:"report_id,omitempty"`
	ModeratorID uuid.UUID  `db:"moderator_id" json:"moderator_id"`
	ActionType  string     `db:"action_type" json:"action_type"`
	TargetType  string     `db:"target_type" json:"target_type"`
	TargetID    string     `db:"target_id" json:"target_id"`
	Reason      string     `db:"reason" json:"reason"`
	Description *string    `db:"description" json:"description,omitempty"`
	// Duration хранится как postgres interval в текстовом виде (например "72:00:00").
	Duration  *string   `db:"duration" json:"duration,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Appeal оспаривание итогов жалобы.
type Appeal struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ReportID    uuid.UUID `db:"report_id" json:"report_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Reason      string    `db:"reason" json:"reason"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ModerationLog запись журнала аудита. ModeratorID пуст для системных действий.
type ModerationLog struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ModeratorID *uuid.UUID `db:"moderator_id" json:"moderator_id,omitempty"`
	ActionType  string     `db:"action_type" json:"action_type"`
	TargetType  string     `db:"target_type" json:"target_type"`
	TargetID    string     `db:"target_id" json:"target_id"`
	Reason      string     `db:"reason" json:"reason"`
	Description *string    `db:"description" json:"description,omitempty"`
	IPAddress   *string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent   *string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
