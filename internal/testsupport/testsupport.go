package testsupport

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"visitlens/internal/records"
)

// testDBCache caches test databases by test name to allow multiple calls
// within the same test to share the same database
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// allModels returns all visitlens models for migration
func allModels() []any {
	return []any{
		&records.Event{},
		&records.Session{},
	}
}

// SetupTestDB creates a test database with all visitlens models migrated.
// Uses a named in-memory database with cache=shared to allow multiple
// connections to share the same database within a test. Caches the database
// by test name so multiple calls within the same test return the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testName := t.Name()

	// Use root test name for caching to handle closure issues where
	// setup functions capture the outer t while t.Run has subtest t
	rootName := testName
	if idx := strings.Index(testName, "/"); idx > 0 {
		rootName = testName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// GetLogger returns a test logger
func GetLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

// CleanAllTables clears all non-system tables in the database
func CleanAllTables(db *gorm.DB) {
	var tableNames []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tableNames)

	db.Exec("PRAGMA foreign_keys = OFF")
	defer db.Exec("PRAGMA foreign_keys = ON")

	db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tableNames {
			tx.Exec("DELETE FROM " + table)
			tx.Exec("DELETE FROM sqlite_sequence WHERE name=?", table)
		}
		return nil
	})
}

// CreateEvent inserts an event directly in the database for testing
func CreateEvent(t *testing.T, db *gorm.DB, eventType, sessionID string, at time.Time) records.Event {
	t.Helper()

	event := records.Event{
		ID:        uuid.NewString(),
		CreatedAt: at,
		EventType: eventType,
		SessionID: sessionID,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

// CreatePageView inserts a page_view event with a path
func CreatePageView(t *testing.T, db *gorm.DB, sessionID, path string, at time.Time) records.Event {
	t.Helper()

	event := records.Event{
		ID:        uuid.NewString(),
		CreatedAt: at,
		EventType: "page_view",
		PagePath:  path,
		SessionID: sessionID,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

// CreateEventWithData inserts an event carrying a structured payload
func CreateEventWithData(t *testing.T, db *gorm.DB, eventType, sessionID string, at time.Time, data records.EventData) records.Event {
	t.Helper()

	event := records.Event{
		ID:        uuid.NewString(),
		CreatedAt: at,
		EventType: eventType,
		SessionID: sessionID,
		Data:      data,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

// CreateSession inserts a session row for testing
func CreateSession(t *testing.T, db *gorm.DB, sessionID string, firstVisit time.Time, opts ...func(*records.Session)) records.Session {
	t.Helper()

	session := records.Session{
		SessionID:    sessionID,
		DeviceType:   "Desktop",
		Browser:      "Chrome",
		Country:      "Spain",
		City:         "Madrid",
		Referrer:     "",
		FirstVisitAt: firstVisit,
	}
	for _, opt := range opts {
		opt(&session)
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

// WithReferrer sets the session referrer
func WithReferrer(referrer string) func(*records.Session) {
	return func(s *records.Session) { s.Referrer = referrer }
}

// WithLocation sets the session country and city
func WithLocation(country, city string) func(*records.Session) {
	return func(s *records.Session) {
		s.Country = country
		s.City = city
	}
}

// WithClient sets the session device type and browser
func WithClient(deviceType, browser string) func(*records.Session) {
	return func(s *records.Session) {
		s.DeviceType = deviceType
		s.Browser = browser
	}
}
