// Package handlers exposes the JSON API. Every response uses the common
// envelope; user-facing messages go through the i18n catalog keyed by the
// request's preferred language.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/i18n"
	"github.com/ngbilling/ngbilling/internal/middleware"
)

func t(r *http.Request, code string) string {
	return i18n.T(middleware.LangFrom(r), code)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.Error(w, http.StatusBadRequest, t(r, "invalid_json"), nil)
		return false
	}
	return true
}

// isDuplicate matches unique-index violations across the sqlite and
// postgres drivers, which gorm does not always translate.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// parseDate accepts RFC 3339 or bare dates, the two shapes clients send.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
