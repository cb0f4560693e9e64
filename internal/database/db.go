package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the process-wide handle to the local store. The desktop agent is
// the single writer, so a package-level handle is fine here; code that
// needs to be instantiated in tests takes *gorm.DB explicitly.
var DB *gorm.DB

// Open opens (or creates) the embedded local store and brings its schema
// up to date. A failure here is fatal to the caller; nothing works without
// the local schema.
func Open(path string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store %s: %w", path, err)
	}

	if err := Migrate(db, log); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	DB = db
	log.Info("local store ready", zap.String("path", path))
	return db, nil
}
