package types

import (
	"time"

	"github.com/google/uuid"
)

type Section struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BlueprintID uuid.UUID  `gorm:"type:uuid;not null;index" json:"blueprint_id"`
	Blueprint   *Blueprint `gorm:"constraint:OnDelete:CASCADE;foreignKey:BlueprintID;references:ID" json:"blueprint,omitempty"`
	OrderIndex  int        `gorm:"column:order_index;not null" json:"order_index"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Fields      []Field    `gorm:"foreignKey:SectionID;references:ID" json:"fields,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Section) TableName() string { return "section" }
