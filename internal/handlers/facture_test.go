package handlers

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/pdf"
	"github.com/ngbilling/ngbilling/internal/services"
)

func factureRouter(db *gorm.DB) chi.Router {
	h := NewFactureHandler(db, services.NewNumeroService(db), pdf.NewRenderer(services.NewSettingsStore(db)))
	r := chi.NewRouter()
	r.Get("/factures", h.List)
	r.Post("/factures", h.Create)
	r.Get("/factures/statut/{statut}", h.ListByStatut)
	r.Get("/factures/{id}", h.Get)
	r.Put("/factures/{id}", h.Update)
	r.Delete("/factures/{id}", h.Delete)
	r.Get("/factures/{id}/pdf", h.Download)
	return r
}

func TestFactureCreateComputesTotals(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "fact@exemple.tn")
	p1 := seedProduit(t, db, "Maintenance serveur", 90)
	p2 := seedProduit(t, db, "Licence annuelle", 50)
	r := factureRouter(db)

	body := fmt.Sprintf(`{"clientId":%q,"lignes":[
		{"produitId":%q,"quantite":2,"prixUnitaire":90,"remise":10},
		{"produitId":%q,"quantite":1,"prixUnitaire":50}
	],"remiseTotale":0,"appliquerTVA":true}`, c.ID, p1.ID, p2.ID)
	rec := doJSON(t, r, http.MethodPost, "/factures", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}
	facture := dataMap(t, decodeEnvelope(t, rec))

	// 2*90*0.9 + 50 = 212 ; TVA 19% ; total 252.28
	if got := facture["sousTotal"].(float64); math.Abs(got-212) > 1e-9 {
		t.Fatalf("sousTotal: expected 212, got %v", got)
	}
	if got := facture["tva"].(float64); math.Abs(got-40.28) > 1e-9 {
		t.Fatalf("tva: expected 40.28, got %v", got)
	}
	if got := facture["total"].(float64); math.Abs(got-252.28) > 1e-9 {
		t.Fatalf("total: expected 252.28, got %v", got)
	}
	if facture["clientNom"] != c.Nom {
		t.Fatalf("expected client name snapshot, got %v", facture["clientNom"])
	}
	numero, _ := facture["numero"].(string)
	wantPrefix := fmt.Sprintf("F-%d-", time.Now().Year())
	if len(numero) != len(wantPrefix)+4 || numero[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("unexpected numero %q", numero)
	}

	// aggregate refresh happens inside the create transaction
	var client models.Client
	if err := db.First(&client, "id = ?", c.ID).Error; err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if math.Abs(client.TotalFacture-252.28) > 1e-9 {
		t.Fatalf("client aggregate: expected 252.28, got %v", client.TotalFacture)
	}
}

func TestFactureCreateWithoutTVA(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "sans-tva@exemple.tn")
	p := seedProduit(t, db, "Produit", 100)
	r := factureRouter(db)

	body := fmt.Sprintf(`{"clientId":%q,"lignes":[{"produitId":%q,"quantite":1,"prixUnitaire":100}],"appliquerTVA":false}`, c.ID, p.ID)
	facture := dataMap(t, decodeEnvelope(t, doJSON(t, r, http.MethodPost, "/factures", body)))
	if facture["tva"].(float64) != 0 {
		t.Fatalf("expected zero TVA, got %v", facture["tva"])
	}
	if facture["total"].(float64) != 100 {
		t.Fatalf("expected total 100, got %v", facture["total"])
	}
}

func TestFactureCreateCollidingNumero(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "num@exemple.tn")
	p := seedProduit(t, db, "Produit", 10)
	taken := fmt.Sprintf("F-%d-1234", time.Now().Year())
	f := models.Facture{Numero: taken, ClientID: c.ID, ClientNom: c.Nom}
	if err := db.Create(&f).Error; err != nil {
		t.Fatalf("seed facture: %v", err)
	}
	r := factureRouter(db)

	body := fmt.Sprintf(`{"clientId":%q,"numero":%q,"lignes":[{"produitId":%q,"quantite":1,"prixUnitaire":10}]}`, c.ID, taken, p.ID)
	rec := doJSON(t, r, http.MethodPost, "/factures", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}
	facture := dataMap(t, decodeEnvelope(t, rec))
	if facture["numero"] == taken {
		t.Fatalf("expected a replacement numero, got the taken one")
	}
}

func TestFactureCreateUnknownProduit(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "inconnu@exemple.tn")
	r := factureRouter(db)

	body := fmt.Sprintf(`{"clientId":%q,"lignes":[{"produitId":"absent","quantite":1,"prixUnitaire":10}]}`, c.ID)
	rec := doJSON(t, r, http.MethodPost, "/factures", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestFactureCreateUnknownClient(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduit(t, db, "Produit", 10)
	r := factureRouter(db)

	body := fmt.Sprintf(`{"clientId":"absent","lignes":[{"produitId":%q,"quantite":1,"prixUnitaire":10}]}`, p.ID)
	rec := doJSON(t, r, http.MethodPost, "/factures", body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestFactureUpdateRecomputesAndRefreshesAggregate(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "maj@exemple.tn")
	p := seedProduit(t, db, "Produit", 100)
	r := factureRouter(db)

	body := fmt.Sprintf(`{"clientId":%q,"lignes":[{"produitId":%q,"quantite":1,"prixUnitaire":100}],"appliquerTVA":false}`, c.ID, p.ID)
	created := dataMap(t, decodeEnvelope(t, doJSON(t, r, http.MethodPost, "/factures", body)))
	id := created["id"].(string)
	numero := created["numero"].(string)

	update := fmt.Sprintf(`{"clientId":%q,"lignes":[{"produitId":%q,"quantite":3,"prixUnitaire":100}],"appliquerTVA":false,"statut":"envoyee"}`, c.ID, p.ID)
	rec := doJSON(t, r, http.MethodPut, "/factures/"+id, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	updated := dataMap(t, decodeEnvelope(t, rec))
	if updated["total"].(float64) != 300 {
		t.Fatalf("expected recomputed total 300, got %v", updated["total"])
	}
	if updated["numero"] != numero {
		t.Fatalf("numero must not change on update")
	}
	if updated["statut"] != "envoyee" {
		t.Fatalf("expected statut envoyee, got %v", updated["statut"])
	}

	// old rows replaced, not accumulated
	var ligneCount int64
	if err := db.Model(&models.LigneDocument{}).Where("facture_id = ?", id).Count(&ligneCount).Error; err != nil {
		t.Fatalf("count lignes: %v", err)
	}
	if ligneCount != 1 {
		t.Fatalf("expected 1 ligne after replace, got %d", ligneCount)
	}

	var client models.Client
	if err := db.First(&client, "id = ?", c.ID).Error; err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if client.TotalFacture != 300 {
		t.Fatalf("expected aggregate 300, got %v", client.TotalFacture)
	}
}

func TestFactureDeleteCascadesAndRefreshesAggregate(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "supp@exemple.tn")
	p := seedProduit(t, db, "Produit", 100)
	r := factureRouter(db)

	body := fmt.Sprintf(`{"clientId":%q,"lignes":[{"produitId":%q,"quantite":1,"prixUnitaire":100}],"appliquerTVA":false}`, c.ID, p.ID)
	created := dataMap(t, decodeEnvelope(t, doJSON(t, r, http.MethodPost, "/factures", body)))
	id := created["id"].(string)

	paiement := models.Paiement{FactureID: id, Montant: 40, Methode: models.PaiementCheque, Statut: models.PaiementConfirme}
	if err := db.Create(&paiement).Error; err != nil {
		t.Fatalf("seed paiement: %v", err)
	}

	rec := doJSON(t, r, http.MethodDelete, "/factures/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}

	var lignes, paiements int64
	db.Model(&models.LigneDocument{}).Where("facture_id = ?", id).Count(&lignes)
	db.Model(&models.Paiement{}).Where("facture_id = ?", id).Count(&paiements)
	if lignes != 0 || paiements != 0 {
		t.Fatalf("expected orphan rows removed, lignes=%d paiements=%d", lignes, paiements)
	}

	var client models.Client
	if err := db.First(&client, "id = ?", c.ID).Error; err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if client.TotalFacture != 0 {
		t.Fatalf("expected aggregate reset, got %v", client.TotalFacture)
	}
}

func TestFactureListByStatut(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "statut@exemple.tn")
	for i, statut := range []string{models.FactureBrouillon, models.FacturePayee, models.FacturePayee} {
		f := models.Facture{Numero: fmt.Sprintf("F-2026-1%03d", i), ClientID: c.ID, ClientNom: c.Nom, Statut: statut}
		if err := db.Create(&f).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	r := factureRouter(db)

	rec := doJSON(t, r, http.MethodGet, "/factures/statut/payee", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	items, _ := decodeEnvelope(t, rec).Data.([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 paid invoices, got %d", len(items))
	}

	rec = doJSON(t, r, http.MethodGet, "/factures/statut/inexistant", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown statut, got %d", rec.Code)
	}
}

func TestFactureDownloadPDF(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "pdf@exemple.tn")
	p := seedProduit(t, db, "Produit", 100)
	r := factureRouter(db)

	body := fmt.Sprintf(`{"clientId":%q,"lignes":[{"produitId":%q,"quantite":1,"prixUnitaire":100}]}`, c.ID, p.ID)
	created := dataMap(t, decodeEnvelope(t, doJSON(t, r, http.MethodPost, "/factures", body)))
	id := created["id"].(string)

	rec := doJSON(t, r, http.MethodGet, "/factures/"+id+"/pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	numero := created["numero"].(string)
	want := fmt.Sprintf("attachment; filename=%q", "facture-"+numero+".pdf")
	if cd := rec.Header().Get("Content-Disposition"); cd != want {
		t.Fatalf("expected %s, got %s", want, cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected PDF payload")
	}
}
