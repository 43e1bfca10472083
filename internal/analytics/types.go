// Package analytics turns raw event and session records into the ranked,
// percentage-annotated summaries the dashboard renders. Every aggregation is
// recomputed from the store on each call; the engine holds no state between
// invocations.
package analytics

import (
	"time"

	"visitlens/internal/records"
)

// RankedStat is the output shape of every aggregation dimension: sorted by
// count descending, ties in first-occurrence order, percentage relative to
// the dimension's own population.
type RankedStat struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// FilterStat is a RankedStat for filter usage whose label decomposes into a
// section, a filter type, and a value ("Projects: technology = Go").
type FilterStat struct {
	Filter     string `json:"filter"`
	Section    string `json:"section"`
	Type       string `json:"type"`
	Value      string `json:"value"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// TrafficPoint is one calendar day in the traffic time series. Days without
// activity are present with zero values so charts render a continuous line.
type TrafficPoint struct {
	Date     string `json:"date"`
	Views    int    `json:"views"`
	Visitors int    `json:"visitors"`
}

// ActivityEntry is one row of the recent-activity feed, page views and
// interaction events merged into a single reverse-chronological timeline.
type ActivityEntry struct {
	Type     string             `json:"type"`
	Action   string             `json:"action"`
	Page     string             `json:"page"`
	Location string             `json:"location"`
	Time     string             `json:"time"`
	At       time.Time          `json:"at"`
	Data     *records.EventData `json:"data,omitempty"`
}

// Stats is the composite dashboard result.
type Stats struct {
	TotalViews     int             `json:"totalViews"`
	TotalEvents    int             `json:"totalEvents"`
	UniqueVisitors int             `json:"uniqueVisitors"`
	BounceRate     int             `json:"bounceRate"`
	AvgSessionTime string          `json:"avgSessionTime"`
	TrafficData    []TrafficPoint  `json:"trafficData"`
	TopEvents      []RankedStat    `json:"topEvents"`
	TopFilterStats []FilterStat    `json:"topFilterStats"`
	TopClickStats  []RankedStat    `json:"topClickStats"`
	TopPages       []RankedStat    `json:"topPages"`
	AllCountries   []RankedStat    `json:"allCountries"`
	AllCities      []RankedStat    `json:"allCities"`
	DeviceTypes    []RankedStat    `json:"deviceTypes"`
	Browsers       []RankedStat    `json:"browsers"`
	TopSections    []RankedStat    `json:"topSections"`
	RecentActivity []ActivityEntry `json:"recentActivity"`
}

// SessionContext carries the session attributes attached to an enriched
// event. Every field falls back to the Unknown sentinel on a join miss.
type SessionContext struct {
	DeviceType string `json:"device_type"`
	Browser    string `json:"browser"`
	Country    string `json:"country"`
	City       string `json:"city"`
	Referrer   string `json:"referrer"`
}

// EnrichedEvent pairs an event with its session's descriptive attributes.
// The pairing is a read-time projection, never stored.
type EnrichedEvent struct {
	records.Event
	SessionData SessionContext `json:"session_data"`
}

// EventDetails is the drill-down result for one logical event label.
type EventDetails struct {
	DisplayName string          `json:"displayName"`
	TotalCount  int             `json:"totalCount"`
	Countries   []RankedStat    `json:"countries"`
	Devices     []RankedStat    `json:"devices"`
	Browsers    []RankedStat    `json:"browsers"`
	Events      []EnrichedEvent `json:"events"`
}

// ReferrerSession is one qualifying session row in the referrer detail view.
type ReferrerSession struct {
	SessionID       string    `json:"session_id"`
	Referrer        string    `json:"referrer"`
	ReferrerDisplay string    `json:"referrer_display"`
	Category        string    `json:"category"`
	DeviceType      string    `json:"device_type"`
	Browser         string    `json:"browser"`
	Country         string    `json:"country"`
	City            string    `json:"city"`
	FirstVisitAt    time.Time `json:"first_visit_at"`
}

// ReferrerSummary is the traffic-source breakdown computed over first-visit
// sessions only.
type ReferrerSummary struct {
	TotalSessions      int               `json:"totalSessions"`
	DirectPercentage   int               `json:"directPercentage"`
	LinkedinPercentage int               `json:"linkedinPercentage"`
	OtherPercentage    int               `json:"otherPercentage"`
	DetailedStats      []RankedStat      `json:"detailedStats"`
	SessionsData       []ReferrerSession `json:"sessionsData"`
}
