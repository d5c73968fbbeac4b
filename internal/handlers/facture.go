package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/pdf"
	"github.com/ngbilling/ngbilling/internal/services"
	"github.com/ngbilling/ngbilling/internal/validation"
)

type FactureHandler struct {
	DB      *gorm.DB
	Numeros *services.NumeroService
	PDF     *pdf.Renderer
}

func NewFactureHandler(db *gorm.DB, numeros *services.NumeroService, renderer *pdf.Renderer) *FactureHandler {
	return &FactureHandler{DB: db, Numeros: numeros, PDF: renderer}
}

type factureInput struct {
	ClientID     string                `json:"clientId"`
	Numero       string                `json:"numero"`
	DateEcheance string                `json:"dateEcheance"`
	Statut       string                `json:"statut"`
	Lignes       []services.LigneInput `json:"lignes"`
	RemiseTotale float64               `json:"remiseTotale"`
	AppliquerTVA *bool                 `json:"appliquerTVA"`
	Notes        string                `json:"notes"`
}

func validateLignes(lignes []services.LigneInput, v validation.Violations) {
	if len(lignes) == 0 {
		v["lignes"] = "required"
		return
	}
	for i, l := range lignes {
		field := func(name string) string { return fmt.Sprintf("lignes[%d].%s", i, name) }
		validation.Required(field("produitId"), l.ProduitID, v)
		validation.PositiveInt(field("quantite"), l.Quantite, v)
		validation.NonNegativeFloat(field("prixUnitaire"), l.PrixUnitaire, v)
		validation.Percent(field("remise"), l.Remise, v)
	}
}

func (in *factureInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("clientId", in.ClientID, v)
	validateLignes(in.Lignes, v)
	validation.Percent("remiseTotale", in.RemiseTotale, v)
	if in.Statut != "" {
		validation.OneOf("statut", in.Statut, models.FactureStatuts, v)
	}
	if in.DateEcheance != "" {
		if _, ok := parseDate(in.DateEcheance); !ok {
			v["dateEcheance"] = "invalid"
		}
	}
	return v
}

func (h *FactureHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Preload("Lignes").Order("date_creation desc")
	if statut := r.URL.Query().Get("statut"); statut != "" {
		dbq = dbq.Where("statut = ?", statut)
	}
	var factures []models.Facture
	if err := dbq.Find(&factures).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "facture_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, factures)
}

func (h *FactureHandler) ListByStatut(w http.ResponseWriter, r *http.Request) {
	statut := chi.URLParam(r, "statut")
	v := validation.Violations{}
	validation.OneOf("statut", statut, models.FactureStatuts, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}
	var factures []models.Facture
	if err := h.DB.Preload("Lignes").Where("statut = ?", statut).Order("date_creation desc").Find(&factures).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "facture_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, factures)
}

func (h *FactureHandler) Get(w http.ResponseWriter, r *http.Request) {
	var facture models.Facture
	err := h.DB.Preload("Lignes").Preload("Paiements").Preload("Client").
		First(&facture, "id = ?", chi.URLParam(r, "id")).Error
	if err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "facture_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, &facture)
}

// Create builds an invoice from resolved lines, assigns its numero and
// refreshes the client aggregate, all in one transaction.
func (h *FactureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input factureInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	var client models.Client
	if err := h.DB.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "client_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	numero, err := h.Numeros.AssignFacture(input.Numero)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "numero_assign_failed"), nil)
		return
	}
	lignes, err := services.ResolveLignes(h.DB, input.Lignes)
	if err != nil {
		if errors.Is(err, services.ErrProduitNotFound) {
			httpx.Error(w, http.StatusBadRequest, t(r, "produit_not_found"), map[string]string{"lignes": err.Error()})
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "facture_create_failed"), nil)
		return
	}

	appliquerTVA := true
	if input.AppliquerTVA != nil {
		appliquerTVA = *input.AppliquerTVA
	}
	totaux := services.TotauxFromInputs(input.Lignes, input.RemiseTotale, appliquerTVA)

	statut := input.Statut
	if statut == "" {
		statut = models.FactureBrouillon
	}
	echeance, ok := parseDate(input.DateEcheance)
	if !ok {
		echeance = time.Now().AddDate(0, 1, 0)
	}

	facture := models.Facture{
		Numero:       numero,
		ClientID:     client.ID,
		ClientNom:    client.Nom,
		DateEcheance: echeance,
		Statut:       statut,
		SousTotal:    totaux.SousTotal,
		RemiseTotale: input.RemiseTotale,
		AppliquerTVA: appliquerTVA,
		TVA:          totaux.TVA,
		Total:        totaux.Total,
		Notes:        input.Notes,
		Lignes:       lignes,
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&facture).Error; err != nil {
			return err
		}
		return services.UpdateClientTotalFacture(tx, client.ID)
	})
	if err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "facture_create_failed"), map[string]string{"numero": "taken"})
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "facture_create_failed"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, t(r, "facture_created"), &facture)
}

// Update replaces the invoice's lines and recomputes its totals. The
// numero is immutable once assigned.
func (h *FactureHandler) Update(w http.ResponseWriter, r *http.Request) {
	var facture models.Facture
	if err := h.DB.First(&facture, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "facture_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	var input factureInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	oldClientID := facture.ClientID
	var client models.Client
	if err := h.DB.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "client_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	lignes, err := services.ResolveLignes(h.DB, input.Lignes)
	if err != nil {
		if errors.Is(err, services.ErrProduitNotFound) {
			httpx.Error(w, http.StatusBadRequest, t(r, "produit_not_found"), map[string]string{"lignes": err.Error()})
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	appliquerTVA := true
	if input.AppliquerTVA != nil {
		appliquerTVA = *input.AppliquerTVA
	}
	totaux := services.TotauxFromInputs(input.Lignes, input.RemiseTotale, appliquerTVA)

	facture.ClientID = client.ID
	facture.ClientNom = client.Nom
	facture.SousTotal = totaux.SousTotal
	facture.RemiseTotale = input.RemiseTotale
	facture.AppliquerTVA = appliquerTVA
	facture.TVA = totaux.TVA
	facture.Total = totaux.Total
	facture.Notes = input.Notes
	if input.Statut != "" {
		facture.Statut = input.Statut
	}
	if echeance, ok := parseDate(input.DateEcheance); ok {
		facture.DateEcheance = echeance
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("facture_id = ?", facture.ID).Delete(&models.LigneDocument{}).Error; err != nil {
			return err
		}
		for i := range lignes {
			lignes[i].FactureID = &facture.ID
		}
		if len(lignes) > 0 {
			if err := tx.Create(&lignes).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit("Lignes", "Paiements", "Client").Save(&facture).Error; err != nil {
			return err
		}
		if err := services.UpdateClientTotalFacture(tx, facture.ClientID); err != nil {
			return err
		}
		if oldClientID != facture.ClientID {
			return services.UpdateClientTotalFacture(tx, oldClientID)
		}
		return nil
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	facture.Lignes = lignes
	httpx.JSON(w, http.StatusOK, t(r, "facture_updated"), &facture)
}

func (h *FactureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var facture models.Facture
	if err := h.DB.First(&facture, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "facture_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("facture_id = ?", facture.ID).Delete(&models.LigneDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("facture_id = ?", facture.ID).Delete(&models.Paiement{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&facture).Error; err != nil {
			return err
		}
		return services.UpdateClientTotalFacture(tx, facture.ClientID)
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "facture_deleted"), nil)
}

// Download streams the invoice PDF.
func (h *FactureHandler) Download(w http.ResponseWriter, r *http.Request) {
	var facture models.Facture
	err := h.DB.Preload("Lignes").Preload("Client").
		First(&facture, "id = ?", chi.URLParam(r, "id")).Error
	if err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "facture_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	out, err := h.PDF.Facture(&facture, facture.Client)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "pdf_generation_failed"), nil)
		return
	}
	servePDF(w, "facture", facture.Numero, out)
}

// servePDF writes a PDF attachment named {type}-{numero}.pdf.
func servePDF(w http.ResponseWriter, docType, numero string, out []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", docType+"-"+numero+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
