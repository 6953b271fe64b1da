package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskboard/internal/model"
)

// NewDB opens a SQLite database, runs migrations, and seeds the
// reserved Inbox project on first use.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "taskboard.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.Project{}, &model.Task{}, &model.User{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedInbox(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedInbox guarantees exactly one Inbox project exists.
func seedInbox(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Project{}).
		Where("LOWER(name) = ?", model.ProjectKey(model.InboxName)).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check inbox: %w", err)
	}
	if count > 0 {
		return nil
	}
	inbox := model.Project{ID: uuid.NewString(), Name: model.InboxName}
	if err := db.Create(&inbox).Error; err != nil {
		return fmt.Errorf("seed inbox: %w", err)
	}
	log.Println("[info] seeded Inbox project")
	return nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
