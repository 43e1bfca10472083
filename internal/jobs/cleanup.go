package jobs

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"visitlens/internal/config"
	"visitlens/internal/records"
)

// CleanupJob removes events and sessions older than the retention period.
type CleanupJob struct {
	db     *gorm.DB
	logger *slog.Logger
	cfg    *config.Config
}

func NewCleanupJob(db *gorm.DB, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}
}

// Run deletes records older than the retention cutoff. A zero retention
// keeps everything.
func (j *CleanupJob) Run() error {
	if j.cfg.RetentionDays <= 0 {
		return nil
	}

	db := j.db
	cutoff := time.Now().UTC().AddDate(0, 0, -j.cfg.RetentionDays)

	var countToDelete int64
	if err := db.Model(&records.Event{}).
		Where("created_at < ?", cutoff).
		Count(&countToDelete).Error; err != nil {
		return err
	}
	if countToDelete == 0 {
		j.logger.Debug("No old events to clean up")
		return nil
	}

	events := db.Where("created_at < ?", cutoff).Delete(&records.Event{})
	if events.Error != nil {
		return events.Error
	}

	// Sessions whose events are all gone serve no aggregation anymore.
	sessions := db.
		Where("first_visit_at < ?", cutoff).
		Where("session_id NOT IN (?)",
			db.Model(&records.Event{}).Select("session_id").Where("session_id <> ''")).
		Delete(&records.Session{})
	if sessions.Error != nil {
		return sessions.Error
	}

	j.logger.Info("Cleaned up old records",
		slog.Time("cutoff", cutoff),
		slog.Int64("events_deleted", events.RowsAffected),
		slog.Int64("sessions_deleted", sessions.RowsAffected))
	return nil
}
