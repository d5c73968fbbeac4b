package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/auth"
	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/validation"
)

// UserHandler manages accounts. All routes sit behind the admin role,
// self-service lives on the auth endpoints.
type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{DB: db} }

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Order("date_creation DESC").Find(&users).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "user_list_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "user_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, &user)
}

// Update edits profile fields and the role. The password only changes
// when a new one is supplied.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "user_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	var input struct {
		Email     string `json:"email"`
		Nom       string `json:"nom"`
		Telephone string `json:"telephone"`
		Role      string `json:"role"`
		Password  string `json:"password"`
		Actif     *bool  `json:"actif"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	v := validation.Violations{}
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	validation.Required("nom", input.Nom, v)
	validation.Required("role", input.Role, v)
	validation.OneOf("role", input.Role, []string{"user", "admin"}, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	user.Email = input.Email
	user.Nom = input.Nom
	user.Telephone = input.Telephone
	user.Role = input.Role
	if input.Actif != nil {
		user.Actif = *input.Actif
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
			return
		}
		user.Password = string(hash)
	}

	if err := h.DB.Save(&user).Error; err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "user_exists"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "user_updated"), &user)
}

// Delete removes an account. The caller cannot delete itself, that would
// leave the instance without the admin doing the deleting.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid == id {
		httpx.Error(w, http.StatusBadRequest, t(r, "user_self_delete"), nil)
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusNotFound, t(r, "user_not_found"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	if err := h.DB.Delete(&user).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "user_deleted"), nil)
}
