package models

import (
	"time"

	"gorm.io/gorm"
)

// Facture statuses.
const (
	FactureBrouillon = "brouillon"
	FactureEnvoyee   = "envoyee"
	FacturePayee     = "payee"
	FactureEnRetard  = "en_retard"
	FactureAnnulee   = "annulee"
)

// FactureStatuts lists the accepted invoice statuses.
var FactureStatuts = []string{
	FactureBrouillon, FactureEnvoyee, FacturePayee, FactureEnRetard, FactureAnnulee,
}

type Facture struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Numero       string    `gorm:"not null;uniqueIndex" json:"numero"`
	ClientID     string    `gorm:"size:36;not null;index" json:"clientId"`
	ClientNom    string    `gorm:"not null" json:"clientNom"` // snapshot at creation
	DateCreation time.Time `gorm:"autoCreateTime" json:"dateCreation"`
	DateEcheance time.Time `json:"dateEcheance"`
	Statut       string    `gorm:"not null;default:'brouillon'" json:"statut"`

	SousTotal    float64 `gorm:"not null" json:"sousTotal"`
	RemiseTotale float64 `gorm:"not null;default:0" json:"remiseTotale"` // percent 0-100
	AppliquerTVA bool    `gorm:"not null;default:true" json:"appliquerTVA"`
	TVA          float64 `gorm:"not null" json:"tva"`
	Total        float64 `gorm:"not null" json:"total"`
	Notes        string  `json:"notes,omitempty"`

	Client    *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Lignes    []LigneDocument `gorm:"foreignKey:FactureID;constraint:OnDelete:CASCADE" json:"lignes"`
	Paiements []Paiement      `gorm:"foreignKey:FactureID;constraint:OnDelete:CASCADE" json:"paiements,omitempty"`

	DateModification time.Time `gorm:"autoUpdateTime" json:"dateModification"`
}

func (f *Facture) BeforeCreate(_ *gorm.DB) error {
	f.ID = newID(f.ID)
	return nil
}
