package cloud

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the shared mysql store, retrying while the database
// comes up, then migrates the cloud schema and seeds the shared role
// templates.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			break
		}
		log.Warn("cloud database not ready, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect cloud store: %w", err)
	}

	err = db.AutoMigrate(
		&Company{},
		&User{},
		&Role{},
		&Category{},
		&Vendor{},
		&Product{},
		&Customer{},
		&Device{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate cloud store: %w", err)
	}

	if err := seedSystemRoles(db); err != nil {
		return nil, fmt.Errorf("seed system roles: %w", err)
	}

	log.Info("cloud store ready")
	return db, nil
}

// seedSystemRoles upserts the shared role templates by natural key. Many
// server replicas can run this concurrently against one database without
// duplicating rows.
func seedSystemRoles(db *gorm.DB) error {
	for _, name := range []string{"admin", "manager", "cashier"} {
		role := Role{Name: name, CompanyID: 0, IsSystem: true}
		err := db.Where("name = ? AND company_id = 0", name).FirstOrCreate(&role).Error
		if err != nil {
			return err
		}
	}
	return nil
}
