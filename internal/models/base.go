package models

import "github.com/google/uuid"

// newID is assigned in the BeforeCreate hooks so callers can also provide
// an explicit id (fixtures, imports).
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// All returns every entity in migration order.
func All() []any {
	return []any{
		&User{}, &Client{}, &Produit{},
		&Facture{}, &Devis{}, &BonLivraison{},
		&LigneDocument{}, &Paiement{}, &Settings{},
	}
}
