package models

import (
	"time"

	"gorm.io/gorm"
)

// Devis statuses.
const (
	DevisBrouillon = "brouillon"
	DevisEnvoye    = "envoye"
	DevisAccepte   = "accepte"
	DevisRefuse    = "refuse"
	DevisExpire    = "expire"
)

// DevisStatuts lists the accepted quote statuses.
var DevisStatuts = []string{DevisBrouillon, DevisEnvoye, DevisAccepte, DevisRefuse, DevisExpire}

type Devis struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Numero         string    `gorm:"not null;uniqueIndex" json:"numero"`
	ClientID       string    `gorm:"size:36;not null;index" json:"clientId"`
	ClientNom      string    `gorm:"not null" json:"clientNom"`
	DateCreation   time.Time `gorm:"autoCreateTime" json:"dateCreation"`
	DateExpiration time.Time `json:"dateExpiration"`
	Statut         string    `gorm:"not null;default:'brouillon'" json:"statut"`

	SousTotal    float64 `gorm:"not null" json:"sousTotal"`
	RemiseTotale float64 `gorm:"not null;default:0" json:"remiseTotale"`
	AppliquerTVA bool    `gorm:"not null;default:true" json:"appliquerTVA"`
	TVA          float64 `gorm:"not null" json:"tva"`
	Total        float64 `gorm:"not null" json:"total"`

	ConditionsReglement string `json:"conditionsReglement,omitempty"`
	Notes               string `json:"notes,omitempty"`

	Client *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Lignes []LigneDocument `gorm:"foreignKey:DevisID;constraint:OnDelete:CASCADE" json:"lignes"`

	DateModification time.Time `gorm:"autoUpdateTime" json:"dateModification"`
}

func (d *Devis) BeforeCreate(_ *gorm.DB) error {
	d.ID = newID(d.ID)
	return nil
}
