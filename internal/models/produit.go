package models

import (
	"time"

	"gorm.io/gorm"
)

type Produit struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Nom         string  `gorm:"not null;uniqueIndex" json:"nom"`
	Description string  `json:"description"`
	Prix        float64 `gorm:"not null" json:"prix"`
	Categorie   string  `json:"categorie"`
	Actif       bool    `gorm:"not null;default:true" json:"actif"`

	DateCreation     time.Time `gorm:"autoCreateTime" json:"dateCreation"`
	DateModification time.Time `gorm:"autoUpdateTime" json:"dateModification"`
}

func (p *Produit) BeforeCreate(_ *gorm.DB) error {
	p.ID = newID(p.ID)
	return nil
}
