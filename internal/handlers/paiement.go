package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/validation"
)

// PaiementHandler manages payments against invoices. Payments never touch
// the client invoice aggregate and overpayment is not rejected.
type PaiementHandler struct {
	DB *gorm.DB
}

func NewPaiementHandler(db *gorm.DB) *PaiementHandler { return &PaiementHandler{DB: db} }

type paiementInput struct {
	FactureID    string   `json:"factureId"`
	Montant      *float64 `json:"montant"`
	DatePaiement string   `json:"datePaiement"`
	Methode      string   `json:"methode"`
	Reference    string   `json:"reference"`
	Statut       string   `json:"statut"`
	Notes        string   `json:"notes"`
}

func (in *paiementInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("factureId", in.FactureID, v)
	if in.Montant == nil {
		v["montant"] = "required"
	} else {
		validation.PositiveFloat("montant", *in.Montant, v)
	}
	if in.Methode != "" {
		validation.OneOf("methode", in.Methode, models.PaiementMethodes, v)
	}
	if in.Statut != "" {
		validation.OneOf("statut", in.Statut, models.PaiementStatuts, v)
	}
	if in.DatePaiement != "" {
		if _, ok := parseDate(in.DatePaiement); !ok {
			v["datePaiement"] = "invalid"
		}
	}
	return v
}

func (h *PaiementHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Order("date_paiement desc")
	if statut := r.URL.Query().Get("statut"); statut != "" {
		dbq = dbq.Where("statut = ?", statut)
	}
	var paiements []models.Paiement
	if err := dbq.Find(&paiements).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "paiement_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, paiements)
}

func (h *PaiementHandler) ListByStatut(w http.ResponseWriter, r *http.Request) {
	statut := chi.URLParam(r, "statut")
	v := validation.Violations{}
	validation.OneOf("statut", statut, models.PaiementStatuts, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}
	var paiements []models.Paiement
	if err := h.DB.Where("statut = ?", statut).Order("date_paiement desc").Find(&paiements).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "paiement_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, paiements)
}

// ListByFacture returns the payments of one invoice, checking the invoice
// exists so an unknown id is a 404 rather than an empty list.
func (h *PaiementHandler) ListByFacture(w http.ResponseWriter, r *http.Request) {
	factureID := chi.URLParam(r, "factureId")
	var count int64
	if err := h.DB.Model(&models.Facture{}).Where("id = ?", factureID).Count(&count).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	if count == 0 {
		httpx.Error(w, http.StatusNotFound, t(r, "facture_not_found"), nil)
		return
	}
	var paiements []models.Paiement
	if err := h.DB.Where("facture_id = ?", factureID).Order("date_paiement desc").Find(&paiements).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "paiement_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, paiements)
}

func (h *PaiementHandler) Get(w http.ResponseWriter, r *http.Request) {
	var paiement models.Paiement
	if err := h.DB.First(&paiement, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "paiement_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, &paiement)
}

func (h *PaiementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input paiementInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	var count int64
	if err := h.DB.Model(&models.Facture{}).Where("id = ?", input.FactureID).Count(&count).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	if count == 0 {
		httpx.Error(w, http.StatusNotFound, t(r, "facture_not_found"), nil)
		return
	}

	methode := input.Methode
	if methode == "" {
		methode = models.PaiementVirement
	}
	statut := input.Statut
	if statut == "" {
		statut = models.PaiementEnAttente
	}
	date, ok := parseDate(input.DatePaiement)
	if !ok {
		date = time.Now()
	}

	paiement := models.Paiement{
		FactureID:    input.FactureID,
		Montant:      *input.Montant,
		DatePaiement: date,
		Methode:      methode,
		Reference:    input.Reference,
		Statut:       statut,
		Notes:        input.Notes,
	}
	if err := h.DB.Create(&paiement).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, t(r, "paiement_created"), &paiement)
}

func (h *PaiementHandler) Update(w http.ResponseWriter, r *http.Request) {
	var paiement models.Paiement
	if err := h.DB.First(&paiement, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "paiement_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	var input paiementInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.FactureID == "" {
		input.FactureID = paiement.FactureID
	}
	if v := input.validate(); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	if input.FactureID != paiement.FactureID {
		var count int64
		if err := h.DB.Model(&models.Facture{}).Where("id = ?", input.FactureID).Count(&count).Error; err != nil {
			httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
			return
		}
		if count == 0 {
			httpx.Error(w, http.StatusNotFound, t(r, "facture_not_found"), nil)
			return
		}
	}

	paiement.FactureID = input.FactureID
	paiement.Montant = *input.Montant
	paiement.Reference = input.Reference
	paiement.Notes = input.Notes
	if input.Methode != "" {
		paiement.Methode = input.Methode
	}
	if input.Statut != "" {
		paiement.Statut = input.Statut
	}
	if date, ok := parseDate(input.DatePaiement); ok {
		paiement.DatePaiement = date
	}

	if err := h.DB.Omit("Facture").Save(&paiement).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "paiement_updated"), &paiement)
}

func (h *PaiementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var paiement models.Paiement
	if err := h.DB.First(&paiement, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "paiement_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	if err := h.DB.Delete(&paiement).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "paiement_deleted"), nil)
}
