package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionFieldValue holds either a committed value (Reviewed=true) or an AI
// suggestion awaiting review (Reviewed=false, Confidence set). One row per
// (session, field) pair.
type SessionFieldValue struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_session_field,unique" json:"session_id"`
	Session    *Session   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	FieldID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_session_field,unique" json:"field_id"`
	Field      *Field     `gorm:"constraint:OnDelete:CASCADE;foreignKey:FieldID;references:ID" json:"field,omitempty"`
	Value      *string    `gorm:"column:value" json:"value"`
	SourceID   *uuid.UUID `gorm:"type:uuid;column:source_id" json:"source_id,omitempty"`
	Confidence *float64   `gorm:"column:confidence" json:"confidence,omitempty"`
	Reviewed   bool       `gorm:"column:reviewed;not null;default:false" json:"reviewed"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (SessionFieldValue) TableName() string { return "session_field_value" }
