package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/validation"
)

type ClientHandler struct {
	DB *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler { return &ClientHandler{DB: db} }

type clientInput struct {
	Nom        string `json:"nom"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Adresse    string `json:"adresse"`
	Ville      string `json:"ville"`
	CodePostal string `json:"codePostal"`
	Pays       string `json:"pays"`
	MF         string `json:"mf"`
}

func (in *clientInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("nom", in.Nom, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.Required("telephone", in.Telephone, v)
	validation.Required("adresse", in.Adresse, v)
	validation.Required("ville", in.Ville, v)
	validation.Required("codePostal", in.CodePostal, v)
	return v
}

// nextCode allocates the next CLT-xxxxx code. Sequence gaps after deletes
// are fine; only uniqueness matters, so walk forward past taken codes.
func (h *ClientHandler) nextCode() (string, error) {
	var count int64
	if err := h.DB.Model(&models.Client{}).Count(&count).Error; err != nil {
		return "", err
	}
	for seq := count + 1; ; seq++ {
		code := fmt.Sprintf("CLT-%05d", seq)
		var taken int64
		if err := h.DB.Model(&models.Client{}).Where("code = ?", code).Count(&taken).Error; err != nil {
			return "", err
		}
		if taken == 0 {
			return code, nil
		}
	}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Order("date_creation desc")
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(nom) LIKE ? OR lower(email) LIKE ? OR lower(code) LIKE ?", like, like, like)
	}
	var clients []models.Client
	if err := dbq.Find(&clients).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "client_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := h.DB.First(&client, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "client_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, &client)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input clientInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	code, err := h.nextCode()
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	client := models.Client{
		Code:       code,
		Nom:        input.Nom,
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Telephone:  input.Telephone,
		Adresse:    input.Adresse,
		Ville:      input.Ville,
		CodePostal: input.CodePostal,
		Pays:       input.Pays,
		MF:         input.MF,
	}
	if client.Pays == "" {
		client.Pays = "Tunisie"
	}
	if err := h.DB.Create(&client).Error; err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "client_email_taken"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, t(r, "client_created"), &client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := h.DB.First(&client, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "client_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	var input clientInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	client.Nom = input.Nom
	client.Email = strings.ToLower(strings.TrimSpace(input.Email))
	client.Telephone = input.Telephone
	client.Adresse = input.Adresse
	client.Ville = input.Ville
	client.CodePostal = input.CodePostal
	if input.Pays != "" {
		client.Pays = input.Pays
	}
	client.MF = input.MF

	if err := h.DB.Save(&client).Error; err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "client_email_taken"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "client_updated"), &client)
}

// Delete removes a client and all its documents. Deletion is explicit
// rather than delegated to FK cascades so behavior does not depend on
// driver pragma settings.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var client models.Client
	if err := h.DB.First(&client, "id = ?", id).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "client_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var factureIDs []string
		if err := tx.Model(&models.Facture{}).Where("client_id = ?", id).Pluck("id", &factureIDs).Error; err != nil {
			return err
		}
		if len(factureIDs) > 0 {
			if err := tx.Where("facture_id IN ?", factureIDs).Delete(&models.Paiement{}).Error; err != nil {
				return err
			}
			if err := tx.Where("facture_id IN ?", factureIDs).Delete(&models.LigneDocument{}).Error; err != nil {
				return err
			}
		}
		var devisIDs []string
		if err := tx.Model(&models.Devis{}).Where("client_id = ?", id).Pluck("id", &devisIDs).Error; err != nil {
			return err
		}
		if len(devisIDs) > 0 {
			if err := tx.Where("devis_id IN ?", devisIDs).Delete(&models.LigneDocument{}).Error; err != nil {
				return err
			}
		}
		var bonIDs []string
		if err := tx.Model(&models.BonLivraison{}).Where("client_id = ?", id).Pluck("id", &bonIDs).Error; err != nil {
			return err
		}
		if len(bonIDs) > 0 {
			if err := tx.Where("bon_livraison_id IN ?", bonIDs).Delete(&models.LigneDocument{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []any{&models.Facture{}, &models.Devis{}, &models.BonLivraison{}} {
			if err := tx.Where("client_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&client).Error
	})
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "client_deleted"), nil)
}
