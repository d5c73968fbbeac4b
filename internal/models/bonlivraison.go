package models

import (
	"time"

	"gorm.io/gorm"
)

// BonLivraison statuses.
const (
	BonPrepare  = "prepare"
	BonExpediee = "expediee"
	BonLivree   = "livree"
)

// BonStatuts lists the accepted delivery note statuses.
var BonStatuts = []string{BonPrepare, BonExpediee, BonLivree}

// BonLivraison carries line quantities and prices but never stores
// financial totals.
type BonLivraison struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Numero        string    `gorm:"not null;uniqueIndex" json:"numero"`
	ClientID      string    `gorm:"size:36;not null;index" json:"clientId"`
	ClientNom     string    `gorm:"not null" json:"clientNom"`
	DateCreation  time.Time `gorm:"autoCreateTime" json:"dateCreation"`
	DateLivraison time.Time `json:"dateLivraison"`
	Statut        string    `gorm:"not null;default:'prepare'" json:"statut"`
	Notes         string    `json:"notes,omitempty"`

	Client *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Lignes []LigneDocument `gorm:"foreignKey:BonLivraisonID;constraint:OnDelete:CASCADE" json:"lignes"`

	DateModification time.Time `gorm:"autoUpdateTime" json:"dateModification"`
}

func (BonLivraison) TableName() string { return "bons_livraison" }

func (b *BonLivraison) BeforeCreate(_ *gorm.DB) error {
	b.ID = newID(b.ID)
	return nil
}
