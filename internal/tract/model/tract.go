package model

import (
	"time"

	"github.com/google/uuid"
)

// TractMetrics is the single row kept per census tract. Counts are always
// written wholesale; there is no partial-field patch and no history.
type TractMetrics struct {
	ID             uuid.UUID `gorm:"type:text;primaryKey" json:"-"`
	TractID        string    `gorm:"uniqueIndex;not null" json:"tract_id"`
	DiscipleMakers int       `json:"disciple_makers"`
	SimpleChurches int       `json:"simple_churches"`
	LegacyChurches int       `json:"legacy_churches"`
	UpdatedAt      time.Time `json:"updated_at"`
	UpdatedBy      string    `json:"updated_by"`
}
