package models

import (
	"time"

	"gorm.io/gorm"
)

// Client entity. TotalFacture is an aggregate maintained by the invoice
// lifecycle (sum of the client's invoice totals), not by payments.
type Client struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	Code         string  `gorm:"size:12;uniqueIndex" json:"code"` // CLT-00001
	Nom          string  `gorm:"not null;index" json:"nom"`
	Email        string  `gorm:"not null;uniqueIndex" json:"email"`
	Telephone    string  `gorm:"not null" json:"telephone"`
	Adresse      string  `gorm:"not null" json:"adresse"`
	Ville        string  `gorm:"not null" json:"ville"`
	CodePostal   string  `gorm:"not null" json:"codePostal"`
	Pays         string  `gorm:"not null" json:"pays"`
	MF           string  `json:"mf"` // matricule fiscale
	TotalFacture float64 `gorm:"not null;default:0" json:"totalFacture"`

	Factures      []Facture      `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"factures,omitempty"`
	Devis         []Devis        `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"devis,omitempty"`
	BonsLivraison []BonLivraison `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"bonsLivraison,omitempty"`

	DateCreation     time.Time `gorm:"autoCreateTime" json:"dateCreation"`
	DateModification time.Time `gorm:"autoUpdateTime" json:"dateModification"`
}

func (c *Client) BeforeCreate(_ *gorm.DB) error {
	c.ID = newID(c.ID)
	return nil
}
