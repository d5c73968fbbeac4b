package services

// TauxTVA is the fixed VAT rate applied to every taxed document.
// An older rendering template labeled the rate 20%; 19% is canonical and
// the renderer derives its label from this constant.
const TauxTVA = 0.19

// Ligne is the totals-engine view of one document row.
type Ligne struct {
	Quantite     int
	PrixUnitaire float64
	Remise       float64 // percent 0-100, per-line discount
}

// Totaux is the full monetary breakdown of a document.
type Totaux struct {
	SousTotal            float64
	RemiseMontant        float64
	SousTotalApresRemise float64
	TVA                  float64
	Total                float64
}

// LigneTotal computes one row's total after its own discount. No rounding
// is applied; display formatting rounds.
func LigneTotal(l Ligne) float64 {
	return float64(l.Quantite) * l.PrixUnitaire * (1 - l.Remise/100)
}

// ComputeTotaux derives a document's totals from its rows, the global
// discount percentage and the tax flag. It is pure: identical inputs yield
// identical outputs on both the creation and edit paths, and an empty line
// list yields all zeroes. Inputs are not clamped; feeding values outside
// their documented ranges is a caller error.
func ComputeTotaux(lignes []Ligne, remiseTotale float64, appliquerTVA bool) Totaux {
	var t Totaux
	for _, l := range lignes {
		t.SousTotal += LigneTotal(l)
	}
	t.RemiseMontant = t.SousTotal * remiseTotale / 100
	t.SousTotalApresRemise = t.SousTotal - t.RemiseMontant
	if appliquerTVA {
		t.TVA = t.SousTotalApresRemise * TauxTVA
	}
	t.Total = t.SousTotalApresRemise + t.TVA
	return t
}
