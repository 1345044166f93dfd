package services

import (
	"testing"

	"github.com/blslawas2025/Basic-Life-Support-2025-sub004/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
// Max one open connection, or every pooled connection would see its own
// empty :memory: database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Staff{},
		&models.Participant{},
		&models.TestSubmission{},
		&models.ChecklistSubmission{},
		&models.Certificate{},
		&models.CertificateTransition{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedParticipant(t *testing.T, db *gorm.DB, name string) models.Participant {
	t.Helper()
	p := models.Participant{Name: name, Category: models.CategoryClinical}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	return p
}
