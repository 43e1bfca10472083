package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"visitlens/internal/config"
	"visitlens/internal/records"
)

// DBManager owns the SQLite connection lifecycle and schema migrations.
type DBManager struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

// NewDBManager creates a new database manager.
func NewDBManager(cfg *config.Config, logger *slog.Logger) *DBManager {
	return &DBManager{
		cfg:    cfg,
		logger: logger,
	}
}

// Init opens the database connection and configures the pool.
func (dm *DBManager) Init() error {
	dsn := dm.cfg.DatabaseName
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	// WAL keeps dashboard reads from blocking ingestion writes.
	dsn = fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dsn)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(dm.cfg.GetMaxOpenConns())
	sqlDB.SetMaxIdleConns(dm.cfg.GetMaxIdleConns())

	dm.db = db
	return nil
}

// GetConnection returns the active gorm connection, or nil before Init.
func (dm *DBManager) GetConnection() *gorm.DB {
	return dm.db
}

// Close releases the underlying connection pool.
func (dm *DBManager) Close() error {
	if dm.db == nil {
		return nil
	}
	sqlDB, err := dm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MigrateDatabase runs schema migrations.
func (dm *DBManager) MigrateDatabase() error {
	if dm.db == nil {
		return gorm.ErrInvalidDB
	}

	err := dm.db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&records.Event{},
			&records.Session{},
		)
	})
	if err != nil {
		dm.logger.Error("Failed to auto-migrate database", slog.Any("error", err))
		return err
	}

	dm.logger.Info("Database migration completed successfully")
	return nil
}
