package database

import (
	"time"

	"go-pos-sync/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemaMigration tracks which migrations have already run.
type SchemaMigration struct {
	ID        uint   `gorm:"primaryKey"`
	Version   string `gorm:"uniqueIndex;size:80"`
	AppliedAt time.Time
}

type migration struct {
	version string
	run     func(tx *gorm.DB) error
}

// Ordered list. Append only; never reorder or edit a shipped entry.
var migrations = []migration{
	{
		version: "001_initial_schema",
		run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.Company{},
				&models.User{},
				&models.Role{},
				&models.Permission{},
				&models.Category{},
				&models.Vendor{},
				&models.Product{},
				&models.Customer{},
				&models.Sale{},
				&models.SaleItem{},
				&models.Purchase{},
				&models.PurchaseItem{},
				&models.ActivationState{},
			)
		},
	},
	{
		version: "002_seed_system_roles",
		run:     seedSystemRoles,
	},
}

// Migrate applies every migration that has not run yet, each inside its own
// transaction, and records it in schema_migrations. Calling it on every
// startup is safe: an up-to-date store applies nothing.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return err
	}

	for _, m := range migrations {
		var count int64
		if err := db.Model(&SchemaMigration{}).Where("version = ?", m.version).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.run(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.version, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return err
		}
		log.Info("applied migration", zap.String("version", m.version))
	}
	return nil
}

// seedSystemRoles installs the shared role templates. Upsert by natural key
// (name + nil company) so re-running, or two installs racing against a
// shared store, cannot double-insert them.
func seedSystemRoles(tx *gorm.DB) error {
	type seed struct {
		name    string
		modules map[string][4]bool // view, create, edit, delete
	}

	seeds := []seed{
		{
			name: "cashier",
			modules: map[string][4]bool{
				"dashboard": {true, false, false, false},
				"products":  {true, false, false, false},
				"customers": {true, true, false, false},
				"sales":     {true, true, false, false},
			},
		},
		{
			name: "manager",
			modules: map[string][4]bool{
				"dashboard":  {true, false, false, false},
				"products":   {true, true, true, true},
				"categories": {true, true, true, true},
				"vendors":    {true, true, true, false},
				"customers":  {true, true, true, false},
				"sales":      {true, true, true, false},
				"purchases":  {true, true, true, false},
				"reports":    {true, false, false, false},
			},
		},
	}

	for _, s := range seeds {
		role := models.Role{Name: s.name, CompanyID: nil, IsSystem: true}
		if err := tx.Where("name = ? AND company_id IS NULL", s.name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		for module, flags := range s.modules {
			perm := models.Permission{
				RoleID:    role.ID,
				Module:    module,
				CanView:   flags[0],
				CanCreate: flags[1],
				CanEdit:   flags[2],
				CanDelete: flags[3],
			}
			if err := tx.Where("role_id = ? AND module = ?", role.ID, module).FirstOrCreate(&perm).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
