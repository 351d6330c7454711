package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	BlueprintStatusDraft     = "draft"
	BlueprintStatusPublished = "published"
	BlueprintStatusArchived  = "archived"
)

// Blueprint is one version row of a schema. Each publish of an already
// published blueprint creates a fresh row with version+1 and archives this
// one; there is no separate lineage id.
type Blueprint struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Company     *Company  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Version     int       `gorm:"column:version;not null" json:"version"`
	Status      string    `gorm:"column:status;not null" json:"status"`
	Sections    []Section `gorm:"foreignKey:BlueprintID;references:ID" json:"sections,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Blueprint) TableName() string { return "blueprint" }
