package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"visitlens/internal/eventkeys"
	"visitlens/internal/pkg/async"
	"visitlens/internal/referrers"
	"visitlens/internal/records"
	"visitlens/internal/timewindow"
)

// Engine is the top-level aggregation orchestrator. It is a pure function of
// (time window, store contents) per invocation; concurrent calls share no
// mutable state.
type Engine struct {
	store       records.Store
	logger      *slog.Logger
	pool        *async.Pool
	now         func() time.Time
	topLimit    int
	recentLimit int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the evaluation-time source; intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTopLimit bounds every top-N list.
func WithTopLimit(limit int) Option {
	return func(e *Engine) { e.topLimit = limit }
}

// WithRecentLimit bounds the recent-activity feed.
func WithRecentLimit(limit int) Option {
	return func(e *Engine) { e.recentLimit = limit }
}

// NewEngine creates an aggregation engine over the given store.
func NewEngine(store records.Store, logger *slog.Logger, opts ...Option) *Engine {
	engine := &Engine{
		store:       store,
		logger:      logger,
		pool:        async.NewPool(4),
		now:         func() time.Time { return time.Now().UTC() },
		topLimit:    10,
		recentLimit: 50,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// DashboardStats computes the full dashboard for a time-range token. The
// call is all-or-nothing: a failed fetch fails the whole aggregation rather
// than returning partially populated metrics.
func (e *Engine) DashboardStats(ctx context.Context, token timewindow.Token) (*Stats, error) {
	now := e.now()
	window := timewindow.Resolve(token, now)

	started := time.Now()
	events, err := e.store.EventsByTypes(ctx, nil, window.SinceOrNil())
	if err != nil {
		return nil, fmt.Errorf("error computing dashboard stats: %w", err)
	}

	enriched, err := EnrichEvents(ctx, e.store, events)
	if err != nil {
		return nil, fmt.Errorf("error computing dashboard stats: %w", err)
	}

	seriesStart, err := e.seriesStart(ctx, window, now)
	if err != nil {
		return nil, fmt.Errorf("error computing dashboard stats: %w", err)
	}

	results, err := e.pool.Execute(ctx, []async.Task{
		{Name: "totals", Execute: func(context.Context) (interface{}, error) {
			return computeTotals(enriched), nil
		}},
		{Name: "traffic", Execute: func(context.Context) (interface{}, error) {
			return buildTrafficSeries(events, seriesStart, now), nil
		}},
		{Name: "topEvents", Execute: func(context.Context) (interface{}, error) {
			return topInteractionEvents(enriched, e.topLimit), nil
		}},
		{Name: "filters", Execute: func(context.Context) (interface{}, error) {
			return topFilterStats(enriched, e.topLimit), nil
		}},
		{Name: "clicks", Execute: func(context.Context) (interface{}, error) {
			return topClickStats(enriched, e.topLimit), nil
		}},
		{Name: "pages", Execute: func(context.Context) (interface{}, error) {
			return topPages(enriched, e.topLimit), nil
		}},
		{Name: "countries", Execute: func(context.Context) (interface{}, error) {
			return allCountries(enriched), nil
		}},
		{Name: "cities", Execute: func(context.Context) (interface{}, error) {
			return allCities(enriched), nil
		}},
		{Name: "devices", Execute: func(context.Context) (interface{}, error) {
			return deviceTypes(enriched), nil
		}},
		{Name: "browsers", Execute: func(context.Context) (interface{}, error) {
			return browsers(enriched), nil
		}},
		{Name: "sections", Execute: func(context.Context) (interface{}, error) {
			return topSections(enriched, e.topLimit), nil
		}},
		{Name: "recent", Execute: func(context.Context) (interface{}, error) {
			return recentActivity(enriched, now, e.recentLimit), nil
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("error computing dashboard stats: %w", err)
	}
	for _, result := range results {
		if result.Err != nil {
			return nil, fmt.Errorf("error computing dashboard stats (%s): %w", result.Name, result.Err)
		}
	}

	scalars := results["totals"].Data.(totals)
	stats := &Stats{
		TotalViews:     scalars.Views,
		TotalEvents:    scalars.Interactions,
		UniqueVisitors: scalars.UniqueVisitors,
		BounceRate:     scalars.BounceRate,
		AvgSessionTime: humanDuration(scalars.AvgSession),
		TrafficData:    results["traffic"].Data.([]TrafficPoint),
		TopEvents:      results["topEvents"].Data.([]RankedStat),
		TopFilterStats: results["filters"].Data.([]FilterStat),
		TopClickStats:  results["clicks"].Data.([]RankedStat),
		TopPages:       results["pages"].Data.([]RankedStat),
		AllCountries:   results["countries"].Data.([]RankedStat),
		AllCities:      results["cities"].Data.([]RankedStat),
		DeviceTypes:    results["devices"].Data.([]RankedStat),
		Browsers:       results["browsers"].Data.([]RankedStat),
		TopSections:    results["sections"].Data.([]RankedStat),
		RecentActivity: results["recent"].Data.([]ActivityEntry),
	}

	e.logger.Debug("Computed dashboard stats",
		slog.String("range", string(token)),
		slog.Int("events", len(events)),
		slog.Duration("elapsed", time.Since(started)))
	return stats, nil
}

// EventDetails computes the drill-down view for one logical event label.
// The store is queried with the full candidate spelling set so legacy rows
// are included.
func (e *Engine) EventDetails(ctx context.Context, label string, token timewindow.Token) (*EventDetails, error) {
	window := timewindow.Resolve(token, e.now())
	candidates := eventkeys.Candidates(label)

	events, err := e.store.EventsByTypes(ctx, candidates, window.SinceOrNil())
	if err != nil {
		return nil, fmt.Errorf("error computing event details: %w", err)
	}

	enriched, err := EnrichEvents(ctx, e.store, events)
	if err != nil {
		return nil, fmt.Errorf("error computing event details: %w", err)
	}

	details := &EventDetails{
		DisplayName: label,
		TotalCount:  len(enriched),
		Countries:   eventCountries(enriched),
		Devices:     eventDevices(enriched),
		Browsers:    eventBrowsers(enriched),
		Events:      enriched,
	}

	e.logger.Debug("Computed event details",
		slog.String("label", label),
		slog.Int("matches", len(enriched)))
	return details, nil
}

// ReferrerStats computes the traffic-source breakdown over first-visit
// sessions in the window.
func (e *Engine) ReferrerStats(ctx context.Context, token timewindow.Token) (*ReferrerSummary, error) {
	window := timewindow.Resolve(token, e.now())

	sessions, err := e.store.SessionsSince(ctx, window.SinceOrNil(), true)
	if err != nil {
		return nil, fmt.Errorf("error computing referrer stats: %w", err)
	}

	summary := &ReferrerSummary{
		TotalSessions: len(sessions),
		DetailedStats: []RankedStat{},
		SessionsData:  make([]ReferrerSession, 0, len(sessions)),
	}

	categoryCounts := make(map[referrers.Category]int)
	displayLabels := make([]string, 0, len(sessions))
	for _, session := range sessions {
		classified := referrers.Classify(session.Referrer)
		categoryCounts[classified.Category]++
		displayLabels = append(displayLabels, classified.Display)
		summary.SessionsData = append(summary.SessionsData, ReferrerSession{
			SessionID:       session.SessionID,
			Referrer:        session.Referrer,
			ReferrerDisplay: classified.Display,
			Category:        string(classified.Category),
			DeviceType:      orUnknown(session.DeviceType),
			Browser:         orUnknown(session.Browser),
			Country:         orUnknown(session.Country),
			City:            orUnknown(session.City),
			FirstVisitAt:    session.FirstVisitAt,
		})
	}

	if len(sessions) > 0 {
		summary.DirectPercentage = percentage(categoryCounts[referrers.CategoryDirect], len(sessions))
		summary.LinkedinPercentage = percentage(categoryCounts[referrers.CategoryLinkedIn], len(sessions))
		summary.OtherPercentage = percentage(categoryCounts[referrers.CategoryOther], len(sessions))
		summary.DetailedStats = rankLabels(displayLabels, records.Unknown, 0)
	}

	e.logger.Debug("Computed referrer stats",
		slog.String("range", string(token)),
		slog.Int("sessions", len(sessions)))
	return summary, nil
}

// seriesStart anchors the traffic series: the window's lower bound, or the
// oldest stored event when the window is unbounded.
func (e *Engine) seriesStart(ctx context.Context, window timewindow.Window, now time.Time) (time.Time, error) {
	if !window.Unbounded {
		return window.Since, nil
	}
	first, err := e.store.FirstEventAt(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if first == nil {
		return now, nil
	}
	return *first, nil
}
