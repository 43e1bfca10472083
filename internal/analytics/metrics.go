package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"visitlens/internal/eventkeys"
	"visitlens/internal/records"
)

// totals holds the headline scalar metrics.
type totals struct {
	Views          int
	Interactions   int
	UniqueVisitors int
	BounceRate     int
	AvgSession     time.Duration
}

// computeTotals derives the scalar metrics from the enriched window.
// Bounce rate is the share of sessions with exactly one page view; average
// session time is the mean first-to-last event spread per session.
func computeTotals(events []EnrichedEvent) totals {
	var views, interactions int
	pageViews := make(map[string]int)
	first := make(map[string]time.Time)
	last := make(map[string]time.Time)
	sessionOrder := make([]string, 0)

	for _, event := range events {
		if event.IsPageView() {
			views++
		} else {
			interactions++
		}
		id := event.SessionID
		if id == "" {
			continue
		}
		if _, seen := first[id]; !seen {
			sessionOrder = append(sessionOrder, id)
			first[id] = event.CreatedAt
			last[id] = event.CreatedAt
		}
		if event.CreatedAt.Before(first[id]) {
			first[id] = event.CreatedAt
		}
		if event.CreatedAt.After(last[id]) {
			last[id] = event.CreatedAt
		}
		if event.IsPageView() {
			pageViews[id]++
		}
	}

	result := totals{
		Views:          views,
		Interactions:   interactions,
		UniqueVisitors: len(sessionOrder),
	}
	if len(sessionOrder) == 0 {
		return result
	}

	var bounced int
	var totalSpread time.Duration
	for _, id := range sessionOrder {
		if pageViews[id] == 1 {
			bounced++
		}
		totalSpread += last[id].Sub(first[id])
	}
	result.BounceRate = percentage(bounced, len(sessionOrder))
	result.AvgSession = totalSpread / time.Duration(len(sessionOrder))
	return result
}

// interaction events are everything except page views; page views are
// reported separately as the view total.
func interactionEvents(events []EnrichedEvent) []EnrichedEvent {
	out := make([]EnrichedEvent, 0, len(events))
	for _, event := range events {
		if !event.IsPageView() {
			out = append(out, event)
		}
	}
	return out
}

// topInteractionEvents ranks interaction events by display name.
func topInteractionEvents(events []EnrichedEvent, limit int) []RankedStat {
	interactions := interactionEvents(events)
	labels := make([]string, len(interactions))
	for i, event := range interactions {
		labels[i] = eventkeys.DisplayName(event.EventType)
	}
	return rankLabels(labels, records.Unknown, limit)
}

// filterEventKeys are the storage keys that denote a filter interaction.
var filterEventKeys = map[string]struct{}{
	"filter_applied":               {},
	"professional_filters_applied": {},
}

func isFilterEvent(eventType string) bool {
	_, ok := filterEventKeys[eventkeys.CanonicalKey(eventType)]
	return ok
}

// filterLabels expands filter events into display labels of the form
// "Section: type = value". A payload listing several technologies yields
// one label per technology so each choice is counted on its own.
func filterLabels(events []EnrichedEvent) []string {
	labels := make([]string, 0)
	for _, event := range events {
		if !isFilterEvent(event.EventType) {
			continue
		}

		section := orUnknown(event.Data.Section)
		if event.Data.FilterType != "" || event.Data.FilterValue != "" {
			labels = append(labels, fmt.Sprintf("%s: %s = %s",
				section, orUnknown(event.Data.FilterType), orUnknown(event.Data.FilterValue)))
			continue
		}
		if len(event.Data.Technologies) > 0 {
			for _, tech := range event.Data.Technologies {
				labels = append(labels, fmt.Sprintf("%s: technology = %s", section, tech))
			}
			continue
		}
		labels = append(labels, fmt.Sprintf("%s: %s = %s",
			section, records.Unknown, records.Unknown))
	}
	return labels
}

// topFilterStats ranks filter usage. Percentages are relative to the total
// filter population, not to page views.
func topFilterStats(events []EnrichedEvent, limit int) []FilterStat {
	ranked := rankLabels(filterLabels(events), records.Unknown, limit)
	stats := make([]FilterStat, len(ranked))
	for i, stat := range ranked {
		section, filterType, value := decomposeFilterLabel(stat.Label)
		stats[i] = FilterStat{
			Filter:     stat.Label,
			Section:    section,
			Type:       filterType,
			Value:      value,
			Count:      stat.Count,
			Percentage: stat.Percentage,
		}
	}
	return stats
}

// decomposeFilterLabel splits "Section: type = value" back into its parts.
func decomposeFilterLabel(label string) (section, filterType, value string) {
	section, rest, found := strings.Cut(label, ": ")
	if !found {
		return label, "", ""
	}
	filterType, value, found = strings.Cut(rest, " = ")
	if !found {
		return section, rest, ""
	}
	return section, filterType, value
}

// topClickStats ranks clicked items over the click-event population.
func topClickStats(events []EnrichedEvent, limit int) []RankedStat {
	labels := make([]string, 0)
	for _, event := range events {
		if !strings.Contains(eventkeys.CanonicalKey(event.EventType), "click") {
			continue
		}
		label := event.Data.Item
		if label == "" {
			label = eventkeys.DisplayName(event.EventType)
		}
		labels = append(labels, label)
	}
	return rankLabels(labels, records.Unknown, limit)
}

// sessionAttribute collects one value per distinct session, in first
// encounter order, so multi-event sessions do not inflate geo dimensions.
func sessionAttribute(events []EnrichedEvent, pick func(SessionContext) string) []string {
	seen := make(map[string]struct{}, len(events))
	values := make([]string, 0, len(events))
	for _, event := range events {
		if event.SessionID == "" {
			continue
		}
		if _, ok := seen[event.SessionID]; ok {
			continue
		}
		seen[event.SessionID] = struct{}{}
		values = append(values, pick(event.SessionData))
	}
	return values
}

func allCountries(events []EnrichedEvent) []RankedStat {
	values := sessionAttribute(events, func(s SessionContext) string { return s.Country })
	return rankLabels(values, records.Unknown, 0)
}

func allCities(events []EnrichedEvent) []RankedStat {
	values := sessionAttribute(events, func(s SessionContext) string { return s.City })
	return rankLabels(values, records.Unknown, 0)
}

func deviceTypes(events []EnrichedEvent) []RankedStat {
	values := sessionAttribute(events, func(s SessionContext) string { return s.DeviceType })
	return rankLabels(values, records.Unknown, 0)
}

func browsers(events []EnrichedEvent) []RankedStat {
	values := sessionAttribute(events, func(s SessionContext) string { return s.Browser })
	return rankLabels(values, records.Unknown, 0)
}

// eventCountries ranks countries over the event population rather than per
// session; used by the event drill-down view.
func eventCountries(events []EnrichedEvent) []RankedStat {
	labels := make([]string, len(events))
	for i, event := range events {
		labels[i] = event.SessionData.Country
	}
	return rankLabels(labels, records.Unknown, 0)
}

func eventDevices(events []EnrichedEvent) []RankedStat {
	labels := make([]string, len(events))
	for i, event := range events {
		labels[i] = event.SessionData.DeviceType
	}
	return rankLabels(labels, records.Unknown, 0)
}

func eventBrowsers(events []EnrichedEvent) []RankedStat {
	labels := make([]string, len(events))
	for i, event := range events {
		labels[i] = event.SessionData.Browser
	}
	return rankLabels(labels, records.Unknown, 0)
}

// topPages ranks page views by path.
func topPages(events []EnrichedEvent, limit int) []RankedStat {
	labels := make([]string, 0)
	for _, event := range events {
		if !event.IsPageView() {
			continue
		}
		labels = append(labels, event.PagePath)
	}
	return rankLabels(labels, "/", limit)
}

// topSections ranks page views by site section, derived from the first path
// segment ("/" counts as Home).
func topSections(events []EnrichedEvent, limit int) []RankedStat {
	labels := make([]string, 0)
	for _, event := range events {
		if !event.IsPageView() {
			continue
		}
		labels = append(labels, pathSection(event.PagePath))
	}
	return rankLabels(labels, "Home", limit)
}

func pathSection(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "Home"
	}
	segment, _, _ := strings.Cut(trimmed, "/")
	return strings.ToUpper(segment[:1]) + segment[1:]
}

// recentActivity merges page views and interaction events into one
// reverse-chronological feed. Events arrive newest first from the store;
// the sort keeps that guarantee even if a caller passes unsorted input.
func recentActivity(events []EnrichedEvent, now time.Time, limit int) []ActivityEntry {
	sorted := make([]EnrichedEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]ActivityEntry, len(sorted))
	for i, event := range sorted {
		entry := ActivityEntry{
			Type:     "event",
			Action:   eventkeys.DisplayName(event.EventType),
			Page:     event.PagePath,
			Location: locationLabel(event.SessionData),
			Time:     relativeTime(event.CreatedAt, now),
			At:       event.CreatedAt,
		}
		if event.IsPageView() {
			entry.Type = "page_view"
		}
		if !event.Data.IsZero() {
			data := event.Data
			entry.Data = &data
		}
		entries[i] = entry
	}
	return entries
}

func locationLabel(s SessionContext) string {
	country := orUnknown(s.Country)
	if s.City == "" || s.City == records.Unknown {
		return country
	}
	return s.City + ", " + country
}
