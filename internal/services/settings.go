package services

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/models"
	"github.com/ngbilling/ngbilling/internal/pdf"
)

// SettingsStore reads and merge-updates the single settings row. It also
// feeds company identity to the PDF renderer.
type SettingsStore struct{ DB *gorm.DB }

func NewSettingsStore(db *gorm.DB) *SettingsStore { return &SettingsStore{DB: db} }

func (s *SettingsStore) row() (*models.Settings, error) {
	var settings models.Settings
	err := s.DB.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.Settings{Data: "{}"}
		if err := s.DB.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Get returns the settings object, creating an empty row on first access.
func (s *SettingsStore) Get() (map[string]any, error) {
	settings, err := s.row()
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if settings.Data != "" {
		if err := json.Unmarshal([]byte(settings.Data), &data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Update shallow-merges patch into the stored object and persists it.
func (s *SettingsStore) Update(patch map[string]any) (map[string]any, error) {
	settings, err := s.row()
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if settings.Data != "" {
		if err := json.Unmarshal([]byte(settings.Data), &data); err != nil {
			return nil, err
		}
	}
	for k, v := range patch {
		data[k] = v
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	settings.Data = string(raw)
	if err := s.DB.Save(settings).Error; err != nil {
		return nil, err
	}
	return data, nil
}

// Company extracts the renderer's company block from the settings object.
// Missing fields stay empty; the renderer omits them.
func (s *SettingsStore) Company() (pdf.Entreprise, error) {
	data, err := s.Get()
	if err != nil {
		return pdf.Entreprise{}, err
	}
	var e pdf.Entreprise
	company, _ := data["company"].(map[string]any)
	str := func(key string) string {
		v, _ := company[key].(string)
		return v
	}
	e.Nom = str("name")
	e.MF = str("mf")
	e.Adresse = str("address")
	e.Telephone = str("phone")
	e.Email = str("email")
	e.IBAN = str("iban")
	e.Logo = str("logo")
	if e.Nom == "" {
		e.Nom = "NGBilling"
	}
	return e, nil
}
