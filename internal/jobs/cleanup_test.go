package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitlens/internal/config"
	"visitlens/internal/records"
	"visitlens/internal/testsupport"
)

func TestCleanupJob(t *testing.T) {
	now := time.Now().UTC()

	t.Run("removes events past retention and their sessions", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		testsupport.CleanAllTables(db)
		testsupport.CreateSession(t, db, "stale", now.AddDate(0, 0, -120))
		testsupport.CreatePageView(t, db, "stale", "/", now.AddDate(0, 0, -120))
		testsupport.CreateSession(t, db, "fresh", now.Add(-time.Hour))
		testsupport.CreatePageView(t, db, "fresh", "/", now.Add(-time.Hour))

		job := NewCleanupJob(db, testsupport.GetLogger(), &config.Config{RetentionDays: 90})
		require.NoError(t, job.Run())

		var eventCount, sessionCount int64
		db.Model(&records.Event{}).Count(&eventCount)
		db.Model(&records.Session{}).Count(&sessionCount)
		assert.EqualValues(t, 1, eventCount)
		assert.EqualValues(t, 1, sessionCount)

		var remaining records.Session
		require.NoError(t, db.First(&remaining).Error)
		assert.Equal(t, "fresh", remaining.SessionID)
	})

	t.Run("zero retention keeps everything", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		testsupport.CleanAllTables(db)
		testsupport.CreatePageView(t, db, "s1", "/", now.AddDate(0, 0, -500))

		job := NewCleanupJob(db, testsupport.GetLogger(), &config.Config{})
		require.NoError(t, job.Run())

		var count int64
		db.Model(&records.Event{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}
