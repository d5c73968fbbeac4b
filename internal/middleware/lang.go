package middleware

import (
	"context"
	"net/http"

	"github.com/ngbilling/ngbilling/internal/i18n"
)

type ctxKey string

const ctxLang ctxKey = "pref_lang"

// Lang extracts the language preference (query > header) and stores it in
// the request context for response messages.
func Lang(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		if lang != "fr" && lang != "en" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		ctx := context.WithValue(r.Context(), ctxLang, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LangFrom returns the language preference from the request context or the
// French default.
func LangFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxLang).(string); ok && v != "" {
		return v
	}
	return "fr"
}
