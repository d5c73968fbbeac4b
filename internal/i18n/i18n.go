package i18n

import "strings"

// translations maps language -> code -> user-facing message. French is the
// reference catalog; English mirrors the codes served to API clients that
// ask for it.
var translations = map[string]map[string]string{
	"fr": {
		"validation_failed": "Champs requis manquants ou invalides",
		"invalid_json":      "Corps de requête JSON invalide",
		"unauthorized":      "Token d'accès requis",
		"forbidden":         "Accès refusé",
		"internal_error":    "Erreur interne du serveur",

		"user_exists":         "Un utilisateur avec cet email existe déjà",
		"user_created":        "Utilisateur créé avec succès",
		"user_updated":        "Utilisateur mis à jour avec succès",
		"user_deleted":        "Utilisateur supprimé avec succès",
		"user_not_found":      "Utilisateur non trouvé",
		"user_self_delete":    "Impossible de supprimer son propre compte",
		"user_list_failed":    "Erreur lors de la récupération des utilisateurs",
		"invalid_credentials": "Email ou mot de passe incorrect",
		"login_success":       "Connexion réussie",

		"client_created":     "Client créé avec succès",
		"client_updated":     "Client mis à jour avec succès",
		"client_deleted":     "Client supprimé avec succès",
		"client_not_found":   "Client non trouvé",
		"client_email_taken": "Un client avec cet email existe déjà",
		"client_list_failed": "Erreur lors de la récupération des clients",

		"produit_created":    "Produit créé avec succès",
		"produit_updated":    "Produit mis à jour avec succès",
		"produit_deleted":    "Produit supprimé avec succès",
		"produit_not_found":  "Produit non trouvé",
		"produit_nom_taken":  "Un produit avec ce nom existe déjà",
		"produit_list_failed": "Erreur lors de la récupération des produits",

		"facture_created":       "Facture créée avec succès",
		"facture_updated":       "Facture mise à jour avec succès",
		"facture_deleted":       "Facture supprimée avec succès",
		"facture_not_found":     "Facture non trouvée",
		"facture_create_failed": "Erreur lors de la création de la facture",
		"facture_list_failed":   "Erreur lors de la récupération des factures",

		"devis_created":       "Devis créé avec succès",
		"devis_updated":       "Devis mis à jour avec succès",
		"devis_deleted":       "Devis supprimé avec succès",
		"devis_not_found":     "Devis non trouvé",
		"devis_create_failed": "Erreur lors de la création du devis",
		"devis_list_failed":   "Erreur lors de la récupération des devis",

		"bon_created":       "Bon de livraison créé avec succès",
		"bon_updated":       "Bon de livraison mis à jour avec succès",
		"bon_deleted":       "Bon de livraison supprimé avec succès",
		"bon_not_found":     "Bon de livraison non trouvé",
		"bon_create_failed": "Erreur lors de la création du bon de livraison",
		"bon_list_failed":   "Erreur lors de la récupération des bons de livraison",

		"paiement_created":     "Paiement créé avec succès",
		"paiement_updated":     "Paiement mis à jour avec succès",
		"paiement_deleted":     "Paiement supprimé avec succès",
		"paiement_not_found":   "Paiement non trouvé",
		"paiement_list_failed": "Erreur lors de la récupération des paiements",

		"settings_get_failed":    "Erreur lors de la récupération des paramètres",
		"settings_update_failed": "Erreur lors de la mise à jour des paramètres",
		"settings_updated":       "Paramètres mis à jour avec succès",

		"pdf_generation_failed": "Erreur lors de la génération du PDF",
		"numero_assign_failed":  "Impossible d'attribuer un numéro de document unique",
	},
	"en": {
		"validation_failed": "Missing or invalid required fields",
		"invalid_json":      "Invalid JSON request body",
		"unauthorized":      "Access token required",
		"forbidden":         "Access denied",
		"internal_error":    "Internal server error",

		"user_exists":         "A user with this email already exists",
		"user_created":        "User created successfully",
		"user_updated":        "User updated successfully",
		"user_deleted":        "User deleted successfully",
		"user_not_found":      "User not found",
		"user_self_delete":    "Cannot delete your own account",
		"user_list_failed":    "Failed to list users",
		"invalid_credentials": "Incorrect email or password",
		"login_success":       "Login successful",

		"client_created":     "Client created successfully",
		"client_updated":     "Client updated successfully",
		"client_deleted":     "Client deleted successfully",
		"client_not_found":   "Client not found",
		"client_email_taken": "A client with this email already exists",
		"client_list_failed": "Failed to list clients",

		"produit_created":    "Product created successfully",
		"produit_updated":    "Product updated successfully",
		"produit_deleted":    "Product deleted successfully",
		"produit_not_found":  "Product not found",
		"produit_nom_taken":  "A product with this name already exists",
		"produit_list_failed": "Failed to list products",

		"facture_created":       "Invoice created successfully",
		"facture_updated":       "Invoice updated successfully",
		"facture_deleted":       "Invoice deleted successfully",
		"facture_not_found":     "Invoice not found",
		"facture_create_failed": "Failed to create invoice",
		"facture_list_failed":   "Failed to list invoices",

		"devis_created":       "Quote created successfully",
		"devis_updated":       "Quote updated successfully",
		"devis_deleted":       "Quote deleted successfully",
		"devis_not_found":     "Quote not found",
		"devis_create_failed": "Failed to create quote",
		"devis_list_failed":   "Failed to list quotes",

		"bon_created":       "Delivery note created successfully",
		"bon_updated":       "Delivery note updated successfully",
		"bon_deleted":       "Delivery note deleted successfully",
		"bon_not_found":     "Delivery note not found",
		"bon_create_failed": "Failed to create delivery note",
		"bon_list_failed":   "Failed to list delivery notes",

		"paiement_created":     "Payment created successfully",
		"paiement_updated":     "Payment updated successfully",
		"paiement_deleted":     "Payment deleted successfully",
		"paiement_not_found":   "Payment not found",
		"paiement_list_failed": "Failed to list payments",

		"settings_get_failed":    "Failed to load settings",
		"settings_update_failed": "Failed to update settings",
		"settings_updated":       "Settings updated successfully",

		"pdf_generation_failed": "PDF generation failed",
		"numero_assign_failed":  "Could not assign a unique document number",
	},
}

// T translates code for lang, falling back to French, then to the code
// itself so missing entries stay visible instead of blank.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations["fr"][code]; ok {
		return s
	}
	return code
}

// DetectLanguage inspects an Accept-Language header value and returns
// "en" or "fr" (default).
func DetectLanguage(header string) string {
	h := strings.ToLower(header)
	for _, part := range strings.Split(h, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "en" || strings.HasPrefix(tag, "en-") {
			return "en"
		}
		if tag == "fr" || strings.HasPrefix(tag, "fr-") {
			return "fr"
		}
	}
	return "fr"
}
