package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	FieldTypeShortText = "short_text"
	FieldTypeLongText  = "long_text"
	FieldTypeToggle    = "toggle"
)

// Field.Key is the token referenced from prompt templates downstream. It is
// intentionally not unique within a blueprint; duplicate keys resolve
// last-write-wins at substitution time.
type Field struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	Section     *Section  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	Key         string    `gorm:"column:key;not null" json:"key"`
	Type        string    `gorm:"column:type;not null" json:"type"`
	Label       string    `gorm:"column:label;not null" json:"label"`
	HelpText    string    `gorm:"column:help_text" json:"help_text,omitempty"`
	Placeholder string    `gorm:"column:placeholder" json:"placeholder,omitempty"`
	Required    bool      `gorm:"column:required;not null" json:"required"`
	Span        int       `gorm:"column:span;not null;default:1" json:"span"`
	OrderIndex  int       `gorm:"column:order_index;not null" json:"order_index"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Field) TableName() string { return "field" }
