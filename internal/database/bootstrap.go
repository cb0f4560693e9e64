package database

import (
	"os"
	"time"

	"go-pos-sync/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureBootstrapAccounts provisions the very first accounts on a fresh
// store: one platform super admin (no company) plus one default company
// with an admin user scoped to it. The existence check and all inserts run
// in one transaction, so calling this on every startup, or from two racing
// startups, still yields exactly one super admin.
//
// A bootstrap failure is logged by the caller, not fatal: the application
// can run (uselessly, but safely) with no accounts.
func EnsureBootstrapAccounts(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("role = ?", "super_admin").Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		password := os.Getenv("BOOTSTRAP_PASSWORD")
		if password == "" {
			password = "changeme"
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		superAdmin := models.User{
			CompanyID:    nil,
			Username:     "superadmin",
			PasswordHash: string(hash),
			Role:         "super_admin",
			Fullname:     "Platform Administrator",
			IsActive:     true,
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(&superAdmin).Error; err != nil {
			return err
		}

		company := models.Company{
			Name:           "Default Company",
			CurrencySymbol: "$",
			IsActive:       true,
			CreatedAt:      time.Now(),
			SyncMeta:       models.SyncMeta{SyncStatus: models.SyncPending},
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		admin := models.User{
			CompanyID:    &company.ID,
			Username:     "admin",
			PasswordHash: string(hash),
			Role:         "admin",
			Fullname:     "Administrator",
			IsActive:     true,
			CreatedAt:    time.Now(),
			SyncMeta:     models.SyncMeta{SyncStatus: models.SyncPending},
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		log.Info("bootstrap accounts created",
			zap.Uint("super_admin_id", superAdmin.ID),
			zap.Uint("company_id", company.ID))
		return nil
	})
}
