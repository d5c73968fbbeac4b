package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID               string `gorm:"primaryKey;size:36" json:"id"`
	Email            string `gorm:"not null;uniqueIndex" json:"email"`
	Password         string `gorm:"not null" json:"-"` // bcrypt hash
	Nom              string `gorm:"not null" json:"nom"`
	Telephone        string `json:"telephone"`
	Role             string `gorm:"not null;default:'user'" json:"role"` // user, admin
	Actif            bool   `gorm:"not null;default:true" json:"actif"`
	DateCreation     time.Time `gorm:"autoCreateTime" json:"dateCreation"`
	DateModification time.Time `gorm:"autoUpdateTime" json:"dateModification"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	u.ID = newID(u.ID)
	return nil
}
