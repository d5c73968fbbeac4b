package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/models"
)

// ErrProduitNotFound flags a line referencing an unknown product.
var ErrProduitNotFound = errors.New("produit non trouvé")

// LigneInput is the request shape of one document row.
type LigneInput struct {
	ProduitID    string  `json:"produitId"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire float64 `json:"prixUnitaire"`
	Remise       float64 `json:"remise"` // percent 0-100, optional
}

// ResolveLignes loads each referenced product, snapshots its name and
// description onto the row, and stores the computed row total. The
// snapshot is intentional: later product edits must not alter issued
// documents.
func ResolveLignes(db *gorm.DB, inputs []LigneInput) ([]models.LigneDocument, error) {
	lignes := make([]models.LigneDocument, 0, len(inputs))
	for _, in := range inputs {
		var produit models.Produit
		if err := db.First(&produit, "id = ?", in.ProduitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProduitNotFound, in.ProduitID)
			}
			return nil, err
		}
		lignes = append(lignes, models.LigneDocument{
			ProduitID:          produit.ID,
			ProduitNom:         produit.Nom,
			ProduitDescription: produit.Description,
			Quantite:           in.Quantite,
			PrixUnitaire:       in.PrixUnitaire,
			Remise:             in.Remise,
			Total:              LigneTotal(Ligne{Quantite: in.Quantite, PrixUnitaire: in.PrixUnitaire, Remise: in.Remise}),
		})
	}
	return lignes, nil
}

// TotauxFromInputs runs the totals engine over raw line inputs.
func TotauxFromInputs(inputs []LigneInput, remiseTotale float64, appliquerTVA bool) Totaux {
	lignes := make([]Ligne, 0, len(inputs))
	for _, in := range inputs {
		lignes = append(lignes, Ligne{Quantite: in.Quantite, PrixUnitaire: in.PrixUnitaire, Remise: in.Remise})
	}
	return ComputeTotaux(lignes, remiseTotale, appliquerTVA)
}
