// Package server wires handlers, middlewares and the role resolver into
// the root http.Handler.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/auth"
	"github.com/ngbilling/ngbilling/internal/handlers"
	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/middleware"
	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/pdf"
	"github.com/ngbilling/ngbilling/internal/services"
)

// New constructs the root handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	// RequireAuth consults the resolver so deleted users lose access
	// before their token expires.
	auth.SetRoleResolver(func(_ context.Context, uid string) string {
		var user models.User
		if err := db.Select("role").First(&user, "id = ?", uid).Error; err != nil {
			return ""
		}
		return user.Role
	})

	numeros := services.NewNumeroService(db)
	settings := services.NewSettingsStore(db)
	renderer := pdf.NewRenderer(settings)

	authH := handlers.NewAuthHandler(db)
	clientH := handlers.NewClientHandler(db)
	produitH := handlers.NewProduitHandler(db)
	factureH := handlers.NewFactureHandler(db, numeros, renderer)
	devisH := handlers.NewDevisHandler(db, numeros, renderer)
	bonH := handlers.NewBonLivraisonHandler(db, numeros, renderer)
	paiementH := handlers.NewPaiementHandler(db)
	settingsH := handlers.NewSettingsHandler(settings)
	userH := handlers.NewUserHandler(db)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Lang)
	r.Use(auth.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.Data(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.Error(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.Data(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/logout", authH.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Get("/auth/me", authH.Me)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", clientH.List)
				r.Post("/", clientH.Create)
				r.Get("/{id}", clientH.Get)
				r.Put("/{id}", clientH.Update)
				r.Delete("/{id}", clientH.Delete)
			})

			r.Route("/produits", func(r chi.Router) {
				r.Get("/", produitH.List)
				r.Post("/", produitH.Create)
				r.Get("/{id}", produitH.Get)
				r.Put("/{id}", produitH.Update)
				r.Delete("/{id}", produitH.Delete)
			})

			r.Route("/factures", func(r chi.Router) {
				r.Get("/", factureH.List)
				r.Post("/", factureH.Create)
				r.Get("/statut/{statut}", factureH.ListByStatut)
				r.Get("/{id}", factureH.Get)
				r.Put("/{id}", factureH.Update)
				r.Delete("/{id}", factureH.Delete)
				r.Get("/{id}/pdf", factureH.Download)
			})

			r.Route("/devis", func(r chi.Router) {
				r.Get("/", devisH.List)
				r.Post("/", devisH.Create)
				r.Get("/{id}", devisH.Get)
				r.Put("/{id}", devisH.Update)
				r.Delete("/{id}", devisH.Delete)
				r.Get("/{id}/pdf", devisH.Download)
			})

			r.Route("/bons-livraison", func(r chi.Router) {
				r.Get("/", bonH.List)
				r.Post("/", bonH.Create)
				r.Get("/{id}", bonH.Get)
				r.Put("/{id}", bonH.Update)
				r.Delete("/{id}", bonH.Delete)
				r.Get("/{id}/pdf", bonH.Download)
			})

			r.Route("/paiements", func(r chi.Router) {
				r.Get("/", paiementH.List)
				r.Post("/", paiementH.Create)
				r.Get("/statut/{statut}", paiementH.ListByStatut)
				r.Get("/facture/{factureId}", paiementH.ListByFacture)
				r.Get("/{id}", paiementH.Get)
				r.Put("/{id}", paiementH.Update)
				r.Delete("/{id}", paiementH.Delete)
			})

			r.Get("/settings", settingsH.Get)
			r.With(auth.RequireRole("admin")).Put("/settings", settingsH.Update)

			r.Route("/users", func(r chi.Router) {
				r.Use(auth.RequireRole("admin"))
				r.Get("/", userH.List)
				r.Get("/{id}", userH.Get)
				r.Put("/{id}", userH.Update)
				r.Delete("/{id}", userH.Delete)
			})
		})
	})

	return r
}
