package handlers

import (
	"net/http"

	"github.com/ngbilling/ngbilling/internal/httpx"
	"github.com/ngbilling/ngbilling/internal/services"
)

type SettingsHandler struct {
	Store *services.SettingsStore
}

func NewSettingsHandler(store *services.SettingsStore) *SettingsHandler {
	return &SettingsHandler{Store: store}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := h.Store.Get()
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "settings_get_failed"), nil)
		return
	}
	httpx.Data(w, http.StatusOK, data)
}

// Update shallow-merges the request body into the stored settings object
// and returns the merged result.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if !decodeJSON(w, r, &patch) {
		return
	}
	data, err := h.Store.Update(patch)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, t(r, "settings_update_failed"), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, t(r, "settings_updated"), data)
}
