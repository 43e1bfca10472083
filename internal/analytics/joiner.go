package analytics

import (
	"context"
	"fmt"

	"visitlens/internal/records"
)

// unknownContext is what a join miss enriches with.
var unknownContext = SessionContext{
	DeviceType: records.Unknown,
	Browser:    records.Unknown,
	Country:    records.Unknown,
	City:       records.Unknown,
}

// EnrichEvents attaches session attributes to each event. Session IDs are
// collected from the events and fetched in one batched lookup; an event whose
// session is missing is enriched with Unknown placeholders, never dropped.
func EnrichEvents(ctx context.Context, store records.Store, events []records.Event) ([]EnrichedEvent, error) {
	ids := make([]string, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, event := range events {
		if event.SessionID == "" {
			continue
		}
		if _, ok := seen[event.SessionID]; ok {
			continue
		}
		seen[event.SessionID] = struct{}{}
		ids = append(ids, event.SessionID)
	}

	sessions, err := store.SessionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error enriching events: %w", err)
	}

	byID := make(map[string]records.Session, len(sessions))
	for _, session := range sessions {
		byID[session.SessionID] = session
	}

	enriched := make([]EnrichedEvent, len(events))
	for i, event := range events {
		enriched[i] = EnrichedEvent{Event: event, SessionData: unknownContext}
		if session, ok := byID[event.SessionID]; ok {
			enriched[i].SessionData = SessionContext{
				DeviceType: orUnknown(session.DeviceType),
				Browser:    orUnknown(session.Browser),
				Country:    orUnknown(session.Country),
				City:       orUnknown(session.City),
				Referrer:   session.Referrer,
			}
		}
	}
	return enriched, nil
}

func orUnknown(value string) string {
	if value == "" {
		return records.Unknown
	}
	return value
}
