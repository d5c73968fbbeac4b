package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/validation"
)

type ProduitHandler struct {
	DB *gorm.DB
}

func NewProduitHandler(db *gorm.DB) *ProduitHandler { return &ProduitHandler{DB: db} }

type produitInput struct {
	Nom         string   `json:"nom"`
	Description string   `json:"description"`
	Prix        *float64 `json:"prix"`
	Categorie   string   `json:"categorie"`
	Actif       *bool    `json:"actif"`
}

func (in *produitInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nom", in.Nom, v)
	if in.Prix == nil {
		v["prix"] = "required"
	} else {
		validation.NonNegativeFloat("prix", *in.Prix, v)
	}
	return v
}

func (h *ProduitHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Order("nom asc")
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(nom) LIKE ? OR lower(categorie) LIKE ?", like, like)
	}
	if r.URL.Query().Get("actif") == "true" {
		dbq = dbq.Where("actif = ?", true)
	}
	var produits []models.Produit
	if err := dbq.Find(&produits).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "produit_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, produits)
}

func (h *ProduitHandler) Get(w http.ResponseWriter, r *http.Request) {
	var produit models.Produit
	if err := h.DB.First(&produit, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "produit_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, &produit)
}

func (h *ProduitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input produitInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	produit := models.Produit{
		Nom:         strings.TrimSpace(input.Nom),
		Description: input.Description,
		Prix:        *input.Prix,
		Categorie:   input.Categorie,
		Actif:       true,
	}
	if input.Actif != nil {
		produit.Actif = *input.Actif
	}
	if err := h.DB.Create(&produit).Error; err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "produit_nom_taken"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, t(r, "produit_created"), &produit)
}

// Update replaces the product's fields. Documents keep their snapshots,
// so price or name changes never rewrite issued lines.
func (h *ProduitHandler) Update(w http.ResponseWriter, r *http.Request) {
	var produit models.Produit
	if err := h.DB.First(&produit, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "produit_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	var input produitInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	produit.Nom = strings.TrimSpace(input.Nom)
	produit.Description = input.Description
	produit.Prix = *input.Prix
	produit.Categorie = input.Categorie
	if input.Actif != nil {
		produit.Actif = *input.Actif
	}
	if err := h.DB.Save(&produit).Error; err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "produit_nom_taken"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "produit_updated"), &produit)
}

func (h *ProduitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var produit models.Produit
	if err := h.DB.First(&produit, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "produit_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	if err := h.DB.Delete(&produit).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "produit_deleted"), nil)
}
