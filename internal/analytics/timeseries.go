package analytics

import (
	"time"

	"visitlens/internal/records"
)

const dayFormat = "2006-01-02"

// buildTrafficSeries produces one point per UTC calendar day from start to
// now inclusive. Days with no activity still appear with zero values; gaps
// would break the chart's continuous line.
func buildTrafficSeries(events []records.Event, start, now time.Time) []TrafficPoint {
	startDay := truncateDay(start)
	endDay := truncateDay(now)
	if endDay.Before(startDay) {
		return []TrafficPoint{}
	}

	views := make(map[string]int)
	sessionsByDay := make(map[string]map[string]struct{})
	for _, event := range events {
		day := truncateDay(event.CreatedAt).Format(dayFormat)
		if event.IsPageView() {
			views[day]++
		}
		if event.SessionID != "" {
			if sessionsByDay[day] == nil {
				sessionsByDay[day] = make(map[string]struct{})
			}
			sessionsByDay[day][event.SessionID] = struct{}{}
		}
	}

	points := make([]TrafficPoint, 0, int(endDay.Sub(startDay).Hours()/24)+1)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayFormat)
		points = append(points, TrafficPoint{
			Date:     key,
			Views:    views[key],
			Visitors: len(sessionsByDay[key]),
		})
	}
	return points
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
