package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusArchived   = "archived"
)

// Session captures values against exactly one blueprint version row. The
// binding is permanent: publishing a newer version never repoints it.
type Session struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	Company           *Company       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	BlueprintID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"blueprint_id"`
	Blueprint         *Blueprint     `gorm:"foreignKey:BlueprintID;references:ID" json:"blueprint,omitempty"`
	Name              string         `gorm:"column:name;not null" json:"name"`
	Status            string         `gorm:"column:status;not null" json:"status"`
	CompletionPercent int            `gorm:"column:completion_percent;not null;default:0" json:"completion_percent"`
	Metadata          datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedBy         uuid.UUID      `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "session" }
