package handlers

import (
	"errors"
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

type DevisHandler struct {
	DB      *gorm.DB
	Numeros *services.NumeroService
	PDF     *pdf.Renderer
}

func NewDevisHandler(db *gorm.DB, numeros *services.NumeroService, renderer *pdf.Renderer) *DevisHandler {
	return &DevisHandler{DB: db, Numeros: numeros, PDF: renderer}
}

type devisInput struct {
	ClientID            string                `json:"clientId"`
	Numero              string                `json:"numero"`
	DateExpiration      string                `json:"dateExpiration"`
	Statut              string                `json:"statut"`
	Lignes              []services.LigneInput `json:"lignes"`
	RemiseTotale        float64               `json:"remiseTotale"`
	AppliquerTVA        *bool                 `json:"appliquerTVA"`
	ConditionsReglement string                `json:"conditionsReglement"`
	Notes               string                `json:"notes"`
}

func (in *devisInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("clientId", in.ClientID, v)
	validateLignes(in.Lignes, v)
	validation.Percent("remiseTotale", in.RemiseTotale, v)
	if in.Statut != "" {
		validation.OneOf("statut", in.Statut, models.DevisStatuts, v)
	}
	if in.DateExpiration != "" {
		if _, ok := parseDate(in.DateExpiration); !ok {
			v["dateExpiration"] = "invalid"
		}
	}
	return v
}

func (h *DevisHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Preload("Lignes").Order("date_creation desc")
	if statut := r.URL.Query().Get("statut"); statut != "" {
		dbq = dbq.Where("statut = ?", statut)
	}
	var devis []models.Devis
	if err := dbq.Find(&devis).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "devis_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, devis)
}

func (h *DevisHandler) Get(w http.ResponseWriter, r *http.Request) {
	var devis models.Devis
	err := h.DB.Preload("Lignes").Preload("Client").First(&devis, "id = ?", chi.URLParam(r, "id")).Error
	if err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "devis_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, &devis)
}

func (h *DevisHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input devisInput
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

	numero, err := h.Numeros.AssignDevis(input.Numero)
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
		httpx.Error(w, http.StatusInternalServerError, t(r, "devis_create_failed"), nil)
		return
	}

	appliquerTVA := true
	if input.AppliquerTVA != nil {
		appliquerTVA = *input.AppliquerTVA
	}
	totaux := services.TotauxFromInputs(input.Lignes, input.RemiseTotale, appliquerTVA)

	statut := input.Statut
	if statut == "" {
		statut = models.DevisBrouillon
	}
	expiration, ok := parseDate(input.DateExpiration)
	if !ok {
		expiration = time.Now().AddDate(0, 1, 0)
	}

	devis := models.Devis{
		Numero:              numero,
		ClientID:            client.ID,
		ClientNom:           client.Nom,
		DateExpiration:      expiration,
		Statut:              statut,
		SousTotal:           totaux.SousTotal,
		RemiseTotale:        input.RemiseTotale,
		AppliquerTVA:        appliquerTVA,
		TVA:                 totaux.TVA,
		Total:               totaux.Total,
		ConditionsReglement: input.ConditionsReglement,
		Notes:               input.Notes,
		Lignes:              lignes,
	}
	if err := h.DB.Create(&devis).Error; err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "devis_create_failed"), map[string]string{"numero": "taken"})
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "devis_create_failed"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, t(r, "devis_created"), &devis)
}

func (h *DevisHandler) Update(w http.ResponseWriter, r *http.Request) {
	var devis models.Devis
	if err := h.DB.First(&devis, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "devis_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	var input devisInput
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

	devis.ClientID = client.ID
	devis.ClientNom = client.Nom
	devis.SousTotal = totaux.SousTotal
	devis.RemiseTotale = input.RemiseTotale
	devis.AppliquerTVA = appliquerTVA
	devis.TVA = totaux.TVA
	devis.Total = totaux.Total
	devis.ConditionsReglement = input.ConditionsReglement
	devis.Notes = input.Notes
	if input.Statut != "" {
		devis.Statut = input.Statut
	}
	if expiration, ok := parseDate(input.DateExpiration); ok {
		devis.DateExpiration = expiration
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("devis_id = ?", devis.ID).Delete(&models.LigneDocument{}).Error; err != nil {
			return err
		}
		for i := range lignes {
			lignes[i].DevisID = &devis.ID
		}
		if len(lignes) > 0 {
			if err := tx.Create(&lignes).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Lignes", "Client").Save(&devis).Error
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	devis.Lignes = lignes
	httpx.JSON(w, http.StatusOK, t(r, "devis_updated"), &devis)
}

func (h *DevisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var devis models.Devis
	if err := h.DB.First(&devis, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "devis_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("devis_id = ?", devis.ID).Delete(&models.LigneDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&devis).Error
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "devis_deleted"), nil)
}

func (h *DevisHandler) Download(w http.ResponseWriter, r *http.Request) {
	var devis models.Devis
	err := h.DB.Preload("Lignes").Preload("Client").First(&devis, "id = ?", chi.URLParam(r, "id")).Error
	if err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "devis_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	out, err := h.PDF.Devis(&devis, devis.Client)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "pdf_generation_failed"), nil)
		return
	}
	servePDF(w, "devis", devis.Numero, out)
}
