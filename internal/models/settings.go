package models

import (
	"time"

	"gorm.io/gorm"
)

// Settings is the single-row configuration blob (company identity, logo,
// bank details...). Data holds a JSON object merged on every update.
type Settings struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Data             string    `gorm:"type:text;not null;default:'{}'" json:"-"`
	DateModification time.Time `gorm:"autoUpdateTime" json:"dateModification"`
}

func (s *Settings) BeforeCreate(_ *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}
