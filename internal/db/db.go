package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ngbilling/ngbilling/internal/models"
)

// ConnectAndMigrate opens the postgres database, retrying while it comes
// up, and brings the schema current. MIGRATIONS=1 runs the SQL files in
// ./migrations via golang-migrate; otherwise gorm AutoMigrate is used
// (dev convenience). DB_SEED=1 seeds the default admin user and settings.
func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Println("[DB] Using DSN:", MaskDSN(dsn))

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := AutoMigrate(conn); err != nil {
		return nil, err
	}

	for _, table := range []string{"users", "clients", "factures"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		if err := Seed(conn); err != nil {
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}
	return conn, nil
}

// AutoMigrate applies the gorm schema for every entity.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range models.All() {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// Seed creates the default admin account and the settings row when absent.
func Seed(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.User{}).Where("email = ?", "admin@ngbilling.local").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		pass := os.Getenv("ADMIN_PASSWORD")
		if pass == "" {
			pass = "admin123"
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{Email: "admin@ngbilling.local", Password: string(hash), Nom: "Administrateur", Role: "admin"}
		if err := conn.Create(&admin).Error; err != nil {
			return err
		}
	}
	var settings models.Settings
	if err := conn.First(&settings).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return conn.Create(&models.Settings{Data: "{}"}).Error
	} else if err != nil {
		return err
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
