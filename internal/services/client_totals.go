package services

import (
	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/models"
)

// UpdateClientTotalFacture recomputes a client's invoice aggregate as the
// sum of that client's invoice totals. Called on invoice create, update and
// delete, never on payment changes.
func UpdateClientTotalFacture(db *gorm.DB, clientID string) error {
	var total float64
	if err := db.Model(&models.Facture{}).
		Where("client_id = ?", clientID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return db.Model(&models.Client{}).
		Where("id = ?", clientID).
		Update("total_facture", total).Error
}
