package models

import (
	"time"

	"gorm.io/gorm"
)

// Paiement methods and statuses.
const (
	PaiementEspeces  = "especes"
	PaiementCarte    = "carte"
	PaiementVirement = "virement"
	PaiementCheque   = "cheque"
	PaiementPaypal   = "paypal"
	PaiementStripe   = "stripe"

	PaiementEnAttente = "en_attente"
	PaiementConfirme  = "confirme"
	PaiementRefuse    = "refuse"
)

// PaiementMethodes lists the accepted payment methods.
var PaiementMethodes = []string{
	PaiementEspeces, PaiementCarte, PaiementVirement,
	PaiementCheque, PaiementPaypal, PaiementStripe,
}

// PaiementStatuts lists the accepted payment statuses.
var PaiementStatuts = []string{PaiementEnAttente, PaiementConfirme, PaiementRefuse}

// Paiement is a transaction applied against one facture. No invariant ties
// the sum of payments to the invoice total; overpayment is not prevented.
type Paiement struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	FactureID    string    `gorm:"size:36;not null;index" json:"factureId"`
	Montant      float64   `gorm:"not null" json:"montant"`
	DatePaiement time.Time `gorm:"not null" json:"datePaiement"`
	Methode      string    `gorm:"not null;default:'virement'" json:"methode"`
	Reference    string    `json:"reference,omitempty"`
	Statut       string    `gorm:"not null;default:'en_attente'" json:"statut"`
	Notes        string    `json:"notes,omitempty"`

	Facture *Facture `gorm:"foreignKey:FactureID" json:"facture,omitempty"`

	DateModification time.Time `gorm:"autoUpdateTime" json:"dateModification"`
}

func (p *Paiement) BeforeCreate(_ *gorm.DB) error {
	p.ID = newID(p.ID)
	return nil
}
