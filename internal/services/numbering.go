package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/ngbilling/ngbilling/internal/models"
)

// Document number prefixes.
const (
	PrefixFacture      = "F"
	PrefixDevis        = "D"
	PrefixBonLivraison = "BL"
)

// ErrNumeroExhausted is returned when no unique number could be found
// within the attempt budget.
var ErrNumeroExhausted = errors.New("numéro de document: tentatives épuisées")

// NumeroService assigns human-readable unique document numbers. Callers
// usually propose a number; on collision a {prefix}-{year}-{4 digits}
// replacement is generated and re-checked, at most MaxAttempts times.
//
// The check-then-insert window is not serialized across concurrent
// creators; the unique index on numero is the backstop.
type NumeroService struct {
	DB          *gorm.DB
	MaxAttempts int
	randInt     func(n int) int // test seam
}

func NewNumeroService(db *gorm.DB) *NumeroService {
	return &NumeroService{DB: db, MaxAttempts: 10, randInt: rand.Intn}
}

func (s *NumeroService) generate(prefix string) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().Year(), 1000+s.randInt(9000))
}

func (s *NumeroService) taken(model any, numero string) (bool, error) {
	var count int64
	if err := s.DB.Model(model).Where("numero = ?", numero).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Assign returns proposed if it is unused among documents of the given
// model's kind, otherwise a freshly generated unique number. An empty
// proposal goes straight to generation.
func (s *NumeroService) Assign(model any, prefix, proposed string) (string, error) {
	numero := proposed
	if numero == "" {
		numero = s.generate(prefix)
	}
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = 10
	}
	for i := 0; i < attempts; i++ {
		exists, err := s.taken(model, numero)
		if err != nil {
			return "", err
		}
		if !exists {
			return numero, nil
		}
		numero = s.generate(prefix)
	}
	return "", ErrNumeroExhausted
}

// AssignFacture, AssignDevis and AssignBon bind Assign to a document kind.

func (s *NumeroService) AssignFacture(proposed string) (string, error) {
	return s.Assign(&models.Facture{}, PrefixFacture, proposed)
}

func (s *NumeroService) AssignDevis(proposed string) (string, error) {
	return s.Assign(&models.Devis{}, PrefixDevis, proposed)
}

func (s *NumeroService) AssignBon(proposed string) (string, error) {
	return s.Assign(&models.BonLivraison{}, PrefixBonLivraison, proposed)
}
