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

// BonLivraisonHandler manages delivery notes. They carry lines but no
// financial totals, so the totals engine is never invoked here.
type BonLivraisonHandler struct {
	DB      *gorm.DB
	Numeros *services.NumeroService
	PDF     *pdf.Renderer
}

func NewBonLivraisonHandler(db *gorm.DB, numeros *services.NumeroService, renderer *pdf.Renderer) *BonLivraisonHandler {
	return &BonLivraisonHandler{DB: db, Numeros: numeros, PDF: renderer}
}

type bonInput struct {
	ClientID      string                `json:"clientId"`
	Numero        string                `json:"numero"`
	DateLivraison string                `json:"dateLivraison"`
	Statut        string                `json:"statut"`
	Lignes        []services.LigneInput `json:"lignes"`
	Notes         string                `json:"notes"`
}

func (in *bonInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("clientId", in.ClientID, v)
	validateLignes(in.Lignes, v)
	if in.Statut != "" {
		validation.OneOf("statut", in.Statut, models.BonStatuts, v)
	}
	if in.DateLivraison != "" {
		if _, ok := parseDate(in.DateLivraison); !ok {
			v["dateLivraison"] = "invalid"
		}
	}
	return v
}

func (h *BonLivraisonHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Preload("Lignes").Order("date_creation desc")
	if statut := r.URL.Query().Get("statut"); statut != "" {
		dbq = dbq.Where("statut = ?", statut)
	}
	var bons []models.BonLivraison
	if err := dbq.Find(&bons).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "bon_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, bons)
}

func (h *BonLivraisonHandler) Get(w http.ResponseWriter, r *http.Request) {
	var bon models.BonLivraison
	err := h.DB.Preload("Lignes").Preload("Client").First(&bon, "id = ?", chi.URLParam(r, "id")).Error
	if err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "bon_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, &bon)
}

func (h *BonLivraisonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input bonInput
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

	numero, err := h.Numeros.AssignBon(input.Numero)
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
		httpx.Error(w, http.StatusInternalServerError, t(r, "bon_create_failed"), nil)
		return
	}

	statut := input.Statut
	if statut == "" {
		statut = models.BonPrepare
	}
	livraison, ok := parseDate(input.DateLivraison)
	if !ok {
		livraison = time.Now()
	}

	bon := models.BonLivraison{
		Numero:        numero,
		ClientID:      client.ID,
		ClientNom:     client.Nom,
		DateLivraison: livraison,
		Statut:        statut,
		Notes:         input.Notes,
		Lignes:        lignes,
	}
	if err := h.DB.Create(&bon).Error; err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "bon_create_failed"), map[string]string{"numero": "taken"})
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "bon_create_failed"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, t(r, "bon_created"), &bon)
}

func (h *BonLivraisonHandler) Update(w http.ResponseWriter, r *http.Request) {
	var bon models.BonLivraison
	if err := h.DB.First(&bon, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "bon_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	var input bonInput
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

	bon.ClientID = client.ID
	bon.ClientNom = client.Nom
	bon.Notes = input.Notes
	if input.Statut != "" {
		bon.Statut = input.Statut
	}
	if livraison, ok := parseDate(input.DateLivraison); ok {
		bon.DateLivraison = livraison
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bon_livraison_id = ?", bon.ID).Delete(&models.LigneDocument{}).Error; err != nil {
			return err
		}
		for i := range lignes {
			lignes[i].BonLivraisonID = &bon.ID
		}
		if len(lignes) > 0 {
			if err := tx.Create(&lignes).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Lignes", "Client").Save(&bon).Error
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	bon.Lignes = lignes
	httpx.JSON(w, http.StatusOK, t(r, "bon_updated"), &bon)
}

func (h *BonLivraisonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var bon models.BonLivraison
	if err := h.DB.First(&bon, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "bon_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bon_livraison_id = ?", bon.ID).Delete(&models.LigneDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&bon).Error
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "bon_deleted"), nil)
}

func (h *BonLivraisonHandler) Download(w http.ResponseWriter, r *http.Request) {
	var bon models.BonLivraison
	err := h.DB.Preload("Lignes").Preload("Client").First(&bon, "id = ?", chi.URLParam(r, "id")).Error
	if err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "bon_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	out, err := h.PDF.BonLivraison(&bon, bon.Client)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "pdf_generation_failed"), nil)
		return
	}
	servePDF(w, "bon-livraison", bon.Numero, out)
}
