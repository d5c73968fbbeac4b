package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/auth"
	"github.com/ngbilling/ngbilling/internal/models"
)

func userRouter(h *UserHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/users", h.List)
	r.Get("/users/{id}", h.Get)
	r.Put("/users/{id}", h.Update)
	r.Delete("/users/{id}", h.Delete)
	return r
}

func seedAccount(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := models.User{Email: email, Password: string(hash), Nom: "Compte " + email, Role: role}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserListOmitsPasswords(t *testing.T) {
	db := setupTestDB(t)
	r := userRouter(NewUserHandler(db))
	seedAccount(t, db, "a@ngbilling.tn", "admin")
	seedAccount(t, db, "b@ngbilling.tn", "user")

	rec := doJSON(t, r, http.MethodGet, "/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret123") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password material leaked: %s", rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	list, ok := env.Data.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("expected 2 users, got %#v", env.Data)
	}
}

func TestUserUpdateChangesRoleAndKeepsPassword(t *testing.T) {
	db := setupTestDB(t)
	r := userRouter(NewUserHandler(db))
	u := seedAccount(t, db, "promo@ngbilling.tn", "user")

	body := `{"email":"promo@ngbilling.tn","nom":"Promu","role":"admin"}`
	rec := doJSON(t, r, http.MethodPut, "/users/"+u.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var reloaded models.User
	if err := db.First(&reloaded, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.Role != "admin" || reloaded.Nom != "Promu" {
		t.Fatalf("update not applied: %+v", reloaded)
	}
	if bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("secret123")) != nil {
		t.Fatal("password changed although none was supplied")
	}
}

func TestUserUpdateRehashesNewPassword(t *testing.T) {
	db := setupTestDB(t)
	r := userRouter(NewUserHandler(db))
	u := seedAccount(t, db, "rotate@ngbilling.tn", "user")

	body := `{"email":"rotate@ngbilling.tn","nom":"Rotation","role":"user","password":"nouveau456"}`
	rec := doJSON(t, r, http.MethodPut, "/users/"+u.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var reloaded models.User
	if err := db.First(&reloaded, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("nouveau456")) != nil {
		t.Fatal("new password not in effect")
	}
}

func TestUserUpdateRejectsBadRole(t *testing.T) {
	db := setupTestDB(t)
	r := userRouter(NewUserHandler(db))
	u := seedAccount(t, db, "bad@ngbilling.tn", "user")

	body := `{"email":"bad@ngbilling.tn","nom":"Compte","role":"superviseur"}`
	rec := doJSON(t, r, http.MethodPut, "/users/"+u.ID, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserUpdateDuplicateEmailConflicts(t *testing.T) {
	db := setupTestDB(t)
	r := userRouter(NewUserHandler(db))
	seedAccount(t, db, "taken@ngbilling.tn", "user")
	u := seedAccount(t, db, "moving@ngbilling.tn", "user")

	body := `{"email":"taken@ngbilling.tn","nom":"Doublon","role":"user"}`
	rec := doJSON(t, r, http.MethodPut, "/users/"+u.ID, body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUserDeleteRemovesAccount(t *testing.T) {
	db := setupTestDB(t)
	r := userRouter(NewUserHandler(db))
	admin := seedAccount(t, db, "chef@ngbilling.tn", "admin")
	victim := seedAccount(t, db, "parti@ngbilling.tn", "user")

	req := httptest.NewRequest(http.MethodDelete, "/users/"+victim.ID, strings.NewReader(""))
	req = req.WithContext(auth.WithUserID(req.Context(), admin.ID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", victim.ID).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatal("user still present after delete")
	}
}

func TestUserCannotDeleteSelf(t *testing.T) {
	db := setupTestDB(t)
	r := userRouter(NewUserHandler(db))
	admin := seedAccount(t, db, "seul@ngbilling.tn", "admin")

	req := httptest.NewRequest(http.MethodDelete, "/users/"+admin.ID, strings.NewReader(""))
	req = req.WithContext(auth.WithUserID(req.Context(), admin.ID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", admin.ID).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatal("account was deleted")
	}
}

func TestUserGetUnknownReturns404(t *testing.T) {
	db := setupTestDB(t)
	r := userRouter(NewUserHandler(db))

	rec := doJSON(t, r, http.MethodGet, "/users/absent", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
