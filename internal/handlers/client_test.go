package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ngbilling/ngbilling/internal/models"
)

func clientRouter(h *ClientHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/clients", h.List)
	r.Post("/clients", h.Create)
	r.Get("/clients/{id}", h.Get)
	r.Put("/clients/{id}", h.Update)
	r.Delete("/clients/{id}", h.Delete)
	return r
}

func TestClientCreateAssignsSequentialCodes(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(NewClientHandler(db))

	body := `{"nom":"Client Un","email":"un@exemple.tn","telephone":"1","adresse":"a","ville":"Tunis","codePostal":"1000"}`
	rec := doJSON(t, r, http.MethodPost, "/clients", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope")
	}
	first := dataMap(t, env)
	if first["code"] != "CLT-00001" {
		t.Fatalf("expected CLT-00001, got %v", first["code"])
	}
	if first["pays"] != "Tunisie" {
		t.Fatalf("expected default pays, got %v", first["pays"])
	}

	body2 := `{"nom":"Client Deux","email":"deux@exemple.tn","telephone":"1","adresse":"a","ville":"Sfax","codePostal":"3000"}`
	rec2 := doJSON(t, r, http.MethodPost, "/clients", body2)
	second := dataMap(t, decodeEnvelope(t, rec2))
	if second["code"] != "CLT-00002" {
		t.Fatalf("expected CLT-00002, got %v", second["code"])
	}
}

func TestClientCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(NewClientHandler(db))

	rec := doJSON(t, r, http.MethodPost, "/clients", `{"nom":"","email":"pas-un-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatalf("expected failure envelope")
	}
}

func TestClientEmailConflict(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db, "CLT-00001", "pris@exemple.tn")
	r := clientRouter(NewClientHandler(db))

	body := `{"nom":"Autre","email":"pris@exemple.tn","telephone":"1","adresse":"a","ville":"Tunis","codePostal":"1000"}`
	rec := doJSON(t, r, http.MethodPost, "/clients", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestClientGetNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := clientRouter(NewClientHandler(db))

	rec := doJSON(t, r, http.MethodGet, "/clients/inconnu", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestClientUpdate(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "avant@exemple.tn")
	r := clientRouter(NewClientHandler(db))

	body := `{"nom":"Nouveau Nom","email":"apres@exemple.tn","telephone":"2","adresse":"b","ville":"Sousse","codePostal":"4000","mf":"1234567/A/M/000"}`
	rec := doJSON(t, r, http.MethodPut, "/clients/"+c.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}

	var got models.Client
	if err := db.First(&got, "id = ?", c.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Nom != "Nouveau Nom" || got.Email != "apres@exemple.tn" || got.MF != "1234567/A/M/000" {
		t.Fatalf("update not persisted: %+v", got)
	}
	if got.Code != "CLT-00001" {
		t.Fatalf("code must never change, got %s", got.Code)
	}
}

func TestClientDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	c := seedClient(t, db, "CLT-00001", "cascade@exemple.tn")
	r := clientRouter(NewClientHandler(db))

	f := models.Facture{Numero: "F-2026-1000", ClientID: c.ID, ClientNom: c.Nom, Total: 100,
		Lignes: []models.LigneDocument{{ProduitID: "p", ProduitNom: "Produit", Quantite: 1, PrixUnitaire: 100, Total: 100}}}
	if err := db.Create(&f).Error; err != nil {
		t.Fatalf("seed facture: %v", err)
	}
	p := models.Paiement{FactureID: f.ID, Montant: 50, Methode: models.PaiementVirement, Statut: models.PaiementConfirme}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed paiement: %v", err)
	}
	d := models.Devis{Numero: "D-2026-1000", ClientID: c.ID, ClientNom: c.Nom,
		Lignes: []models.LigneDocument{{ProduitID: "p", ProduitNom: "Produit", Quantite: 2, PrixUnitaire: 10, Total: 20}}}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed devis: %v", err)
	}

	rec := doJSON(t, r, http.MethodDelete, "/clients/"+c.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rec.Code, rec.Body.String())
	}

	for table, model := range map[string]any{
		"clients":         &models.Client{},
		"factures":        &models.Facture{},
		"devis":           &models.Devis{},
		"paiements":       &models.Paiement{},
		"lignes_document": &models.LigneDocument{},
	} {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected %s emptied, got %d rows", table, count)
		}
	}
}

func TestClientListSearch(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db, "CLT-00001", "alpha@exemple.tn")
	c2 := seedClient(t, db, "CLT-00002", "beta@exemple.tn")
	c2.Nom = "Bureau Distinct"
	if err := db.Save(&c2).Error; err != nil {
		t.Fatalf("rename: %v", err)
	}
	r := clientRouter(NewClientHandler(db))

	rec := doJSON(t, r, http.MethodGet, "/clients?q=distinct", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	items, ok := env.Data.([]any)
	if !ok {
		t.Fatalf("expected list, got %T", env.Data)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 match, got %d", len(items))
	}
}

