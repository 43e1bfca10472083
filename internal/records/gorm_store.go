package records

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store and Writer on a GORM-managed SQLite database.
type GormStore struct {
	db *gorm.DB
}

var (
	_ Store  = (*GormStore)(nil)
	_ Writer = (*GormStore)(nil)
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) EventsByTypes(ctx context.Context, typeKeys []string, since *time.Time) ([]Event, error) {
	query := s.db.WithContext(ctx).Model(&Event{})
	if len(typeKeys) > 0 {
		query = query.Where("event_type IN ?", typeKeys)
	}
	if since != nil {
		query = query.Where("created_at >= ?", since.UTC())
	}

	var events []Event
	if err := query.Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("error fetching events: %w", err)
	}
	return events, nil
}

func (s *GormStore) SessionsByIDs(ctx context.Context, ids []string) ([]Session, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var sessions []Session
	err := s.db.WithContext(ctx).
		Where("session_id IN ?", ids).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching sessions by id: %w", err)
	}
	return sessions, nil
}

func (s *GormStore) SessionsSince(ctx context.Context, since *time.Time, firstVisitOnly bool) ([]Session, error) {
	query := s.db.WithContext(ctx).Model(&Session{})
	if since != nil {
		query = query.Where("first_visit_at >= ?", since.UTC())
	}

	var sessions []Session
	if err := query.Order("first_visit_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("error fetching sessions: %w", err)
	}

	if !firstVisitOnly {
		return sessions, nil
	}

	// Keep only each session's earliest row. Rows arrive newest first, so a
	// later (older) row for the same session replaces the earlier one.
	earliest := make(map[string]int, len(sessions))
	order := make([]string, 0, len(sessions))
	for i, session := range sessions {
		idx, seen := earliest[session.SessionID]
		if !seen {
			earliest[session.SessionID] = i
			order = append(order, session.SessionID)
			continue
		}
		if session.FirstVisitAt.Before(sessions[idx].FirstVisitAt) {
			earliest[session.SessionID] = i
		}
	}

	deduped := make([]Session, 0, len(order))
	for _, id := range order {
		deduped = append(deduped, sessions[earliest[id]])
	}
	return deduped, nil
}

func (s *GormStore) FirstEventAt(ctx context.Context) (*time.Time, error) {
	var event Event
	err := s.db.WithContext(ctx).Order("created_at ASC").First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching first event: %w", err)
	}
	createdAt := event.CreatedAt
	return &createdAt, nil
}

func (s *GormStore) SaveEvent(ctx context.Context, event *Event) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("error saving event: %w", err)
	}
	return nil
}

// UpsertSession inserts the session or refreshes its attributes if a row
// with the same session_id already exists. FirstVisitAt is never moved
// forward by an upsert.
func (s *GormStore) UpsertSession(ctx context.Context, session *Session) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"device_type": session.DeviceType,
			"browser":     session.Browser,
			"country":     session.Country,
			"city":        session.City,
			"referrer":    session.Referrer,
		}),
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("error upserting session: %w", err)
	}
	return nil
}
