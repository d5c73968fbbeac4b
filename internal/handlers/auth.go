package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/auth"
	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/validation"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

type sessionPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a user account and opens a session for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Nom      string `json:"nom"`
		Role     string `json:"role"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	v := validation.Violations{}
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	validation.Required("password", input.Password, v)
	validation.Required("nom", input.Nom, v)
	if input.Role != "" {
		validation.OneOf("role", input.Role, []string{"user", "admin"}, v)
	}
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	if count > 0 {
		httpx.Error(w, http.StatusConflict, t(r, "user_exists"), nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	role := input.Role
	if role == "" {
		role = "user"
	}
	user := models.User{Email: input.Email, Password: string(hash), Nom: input.Nom, Role: role}
	if err := h.DB.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			httpx.Error(w, http.StatusConflict, t(r, "user_exists"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}

	token := auth.CreateToken(user.ID, auth.DefaultTTL)
	auth.SetSessionCookie(w, token, auth.DefaultTTL)
	httpx.JSON(w, http.StatusCreated, t(r, "user_created"), sessionPayload{User: &user, Token: token})
}

// Login verifies credentials and opens a session. A wrong email and a
// wrong password produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	v := validation.Violations{}
	validation.Required("email", input.Email, v)
	validation.Required("password", input.Password, v)
	if !v.Empty() {
		httpx.Error(w, http.StatusBadRequest, t(r, "validation_failed"), v)
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if notFound(err) {
			httpx.Error(w, http.StatusUnauthorized, t(r, "invalid_credentials"), nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, t(r, "internal_error"), nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.Error(w, http.StatusUnauthorized, t(r, "invalid_credentials"), nil)
		return
	}

	token := auth.CreateToken(user.ID, auth.DefaultTTL)
	auth.SetSessionCookie(w, token, auth.DefaultTTL)
	httpx.JSON(w, http.StatusOK, t(r, "login_success"), sessionPayload{User: &user, Token: token})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, t(r, "unauthorized"), nil)
		return
	}
	var user models.User
	if err := h.DB.First(&user, "id = ?", uid).Error; err != nil {
		httpx.Error(w, http.StatusUnauthorized, t(r, "unauthorized"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, &user)
}

// Logout clears the session cookie. Tokens stay valid until expiry, the
// server keeps no session state to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	httpx.Data(w, http.StatusOK, nil)
}
