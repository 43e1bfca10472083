// Package records defines the event and session data model and the store
// interface the aggregation engine queries. Events and sessions are written
// by the tracking endpoint and are read-only everywhere else.
package records

import "time"

// Sentinel used wherever a session attribute is absent. Display layers map
// it straight through; aggregation buckets it so totals stay complete.
const Unknown = "Unknown"

// Event is one recorded interaction or page view.
//
// EventType is a string key (page_view, cv_download_click, ...); the stored
// vocabulary is not strictly enumerable because legacy and current naming
// conventions coexist. See the eventkeys package.
type Event struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
	EventType string    `gorm:"index;not null" json:"event_type"`
	PagePath  string    `gorm:"not null" json:"page_path"`
	SessionID string    `gorm:"index" json:"session_id"`
	Data      EventData `gorm:"type:text" json:"event_data"`
}

// IsPageView reports whether the event is a page view rather than an
// interaction event.
func (e Event) IsPageView() bool {
	return e.EventType == "page_view"
}

// Session is one visitor session, carrying the device/geo/referrer context
// shared by the events attributed to it.
type Session struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID    string    `gorm:"uniqueIndex;not null" json:"session_id"`
	DeviceType   string    `json:"device_type"`
	Browser      string    `json:"browser"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Referrer     string    `json:"referrer"`
	FirstVisitAt time.Time `gorm:"index;not null" json:"first_visit_at"`
}
