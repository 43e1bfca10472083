package analytics

import (
	"context"
	"sort"
	"time"

	"visitlens/internal/records"
)

// fakeStore is an in-memory records.Store for engine tests.
type fakeStore struct {
	events   []records.Event
	sessions []records.Session

	eventsErr   error
	sessionsErr error

	sessionsByIDsCalls int
}

func (f *fakeStore) EventsByTypes(_ context.Context, typeKeys []string, since *time.Time) ([]records.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}

	wanted := make(map[string]struct{}, len(typeKeys))
	for _, key := range typeKeys {
		wanted[key] = struct{}{}
	}

	var out []records.Event
	for _, event := range f.events {
		if len(wanted) > 0 {
			if _, ok := wanted[event.EventType]; !ok {
				continue
			}
		}
		if since != nil && event.CreatedAt.Before(*since) {
			continue
		}
		out = append(out, event)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) SessionsByIDs(_ context.Context, ids []string) ([]records.Session, error) {
	f.sessionsByIDsCalls++
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var out []records.Session
	for _, session := range f.sessions {
		if _, ok := wanted[session.SessionID]; ok {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeStore) SessionsSince(_ context.Context, since *time.Time, firstVisitOnly bool) ([]records.Session, error) {
	if f.sessionsErr != nil {
		return nil, f.sessionsErr
	}

	seen := make(map[string]struct{})
	var out []records.Session
	for _, session := range f.sessions {
		if since != nil && session.FirstVisitAt.Before(*since) {
			continue
		}
		if firstVisitOnly {
			if _, ok := seen[session.SessionID]; ok {
				continue
			}
			seen[session.SessionID] = struct{}{}
		}
		out = append(out, session)
	}
	return out, nil
}

func (f *fakeStore) FirstEventAt(_ context.Context) (*time.Time, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	if len(f.events) == 0 {
		return nil, nil
	}
	first := f.events[0].CreatedAt
	for _, event := range f.events[1:] {
		if event.CreatedAt.Before(first) {
			first = event.CreatedAt
		}
	}
	return &first, nil
}
