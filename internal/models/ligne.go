package models

import "gorm.io/gorm"

// LigneDocument is one row of a facture, devis, or bon de livraison.
// Exactly one of the three parent keys is set. ProduitNom and
// ProduitDescription are snapshots taken at write time so later product
// edits do not alter issued documents.
type LigneDocument struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	FactureID      *string `gorm:"size:36;index" json:"factureId,omitempty"`
	DevisID        *string `gorm:"size:36;index" json:"devisId,omitempty"`
	BonLivraisonID *string `gorm:"size:36;index" json:"bonLivraisonId,omitempty"`

	ProduitID          string  `gorm:"size:36;not null" json:"produitId"`
	ProduitNom         string  `gorm:"not null" json:"produitNom"`
	ProduitDescription string  `json:"produitDescription,omitempty"`
	Quantite           int     `gorm:"not null" json:"quantite"`
	PrixUnitaire       float64 `gorm:"not null" json:"prixUnitaire"`
	Remise             float64 `gorm:"not null;default:0" json:"remise"` // percent 0-100
	Total              float64 `gorm:"not null" json:"total"`           // stored, not recomputed on read
}

func (LigneDocument) TableName() string { return "lignes_document" }

func (l *LigneDocument) BeforeCreate(_ *gorm.DB) error {
	l.ID = newID(l.ID)
	return nil
}
