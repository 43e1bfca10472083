package records

import (
	"context"
	"time"
)

// Store is the query interface the aggregation engine consumes. A nil since
// means no lower bound; no query ever applies an upper bound.
type Store interface {
	// EventsByTypes fetches events matching any of the given type keys,
	// newest first. An empty typeKeys slice matches all types.
	EventsByTypes(ctx context.Context, typeKeys []string, since *time.Time) ([]Event, error)

	// SessionsByIDs fetches the sessions for a set of session identifiers
	// in one batched lookup.
	SessionsByIDs(ctx context.Context, ids []string) ([]Session, error)

	// SessionsSince fetches sessions with FirstVisitAt on or after since.
	// With firstVisitOnly, only each session's earliest recorded row is
	// returned, so multi-page sessions do not skew source attribution.
	SessionsSince(ctx context.Context, since *time.Time, firstVisitOnly bool) ([]Session, error)

	// FirstEventAt returns the timestamp of the oldest stored event, or nil
	// when the store is empty. Anchors the "all data" time series.
	FirstEventAt(ctx context.Context) (*time.Time, error)
}

// Writer is the mutation side used by the collection endpoint; the engine
// itself never writes.
type Writer interface {
	SaveEvent(ctx context.Context, event *Event) error
	UpsertSession(ctx context.Context, session *Session) error
}
