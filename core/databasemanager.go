package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/awrgmu/mixcheckin/model"
)

type DatabaseManager struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// New opens the sqlite database at path, tunes the pool and migrates the
// schema. An empty path means a shared in-memory database, useful for
// testing. TranslateError is what turns the (member, workshop) unique
// violation into gorm.ErrDuplicatedKey for the ledger.
func New(path string, maxConnection int) (*DatabaseManager, error) {
	dsn := path
	if dsn == "" {
		// cache=shared so every pooled connection sees the same in-memory db
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	if err := db.AutoMigrate(&model.Member{}, &model.Workshop{}, &model.Taken{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &DatabaseManager{db: db, sqlDB: sqlDB}, nil
}

// Exec runs fn against a context-scoped handle from the pool.
func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(dm.db.WithContext(ctx))
}

// Close closes the global pool.
func (dm *DatabaseManager) Close() error {
	return dm.sqlDB.Close()
}
