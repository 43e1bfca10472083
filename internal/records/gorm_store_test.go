package records_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitlens/internal/records"
	"visitlens/internal/testsupport"
)

func TestEventsByTypes(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := records.NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	testsupport.CreatePageView(t, db, "s1", "/", now.Add(-48*time.Hour))
	testsupport.CreatePageView(t, db, "s1", "/projects", now.Add(-time.Hour))
	testsupport.CreateEvent(t, db, "cv_download_click", "s1", now.Add(-30*time.Minute))
	testsupport.CreateEvent(t, db, "Cv Download Click", "s2", now.Add(-10*time.Minute))

	t.Run("empty type set matches all", func(t *testing.T) {
		events, err := store.EventsByTypes(ctx, nil, nil)
		require.NoError(t, err)
		assert.Len(t, events, 4)
	})

	t.Run("matches any candidate spelling", func(t *testing.T) {
		events, err := store.EventsByTypes(ctx, []string{"cv_download_click", "Cv Download Click"}, nil)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("since bound is inclusive lower only", func(t *testing.T) {
		since := now.Add(-2 * time.Hour)
		events, err := store.EventsByTypes(ctx, nil, &since)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})

	t.Run("ordered newest first", func(t *testing.T) {
		events, err := store.EventsByTypes(ctx, nil, nil)
		require.NoError(t, err)
		require.Len(t, events, 4)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].CreatedAt.Before(events[i].CreatedAt))
		}
	})
}

func TestSessionsByIDs(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := records.NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	testsupport.CreateSession(t, db, "s1", now.Add(-time.Hour))
	testsupport.CreateSession(t, db, "s2", now.Add(-30*time.Minute),
		testsupport.WithLocation("Germany", "Berlin"))

	t.Run("fetches requested sessions", func(t *testing.T) {
		sessions, err := store.SessionsByIDs(ctx, []string{"s1", "s2", "missing"})
		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})

	t.Run("empty id set short-circuits", func(t *testing.T) {
		sessions, err := store.SessionsByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
}

func TestSessionsSince(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := records.NewGormStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	testsupport.CreateSession(t, db, "old", now.Add(-72*time.Hour))
	testsupport.CreateSession(t, db, "recent", now.Add(-time.Hour),
		testsupport.WithReferrer("https://www.linkedin.com/feed/"))

	t.Run("applies lower bound", func(t *testing.T) {
		since := now.Add(-24 * time.Hour)
		sessions, err := store.SessionsSince(ctx, &since, false)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, "recent", sessions[0].SessionID)
	})

	t.Run("nil bound returns everything newest first", func(t *testing.T) {
		sessions, err := store.SessionsSince(ctx, nil, false)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "recent", sessions[0].SessionID)
	})
}

func TestFirstEventAt(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := records.NewGormStore(db)
	ctx := context.Background()

	t.Run("empty store yields nil, not error", func(t *testing.T) {
		first, err := store.FirstEventAt(ctx)
		require.NoError(t, err)
		assert.Nil(t, first)
	})

	t.Run("returns oldest event timestamp", func(t *testing.T) {
		oldest := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
		testsupport.CreatePageView(t, db, "s1", "/", oldest.Add(time.Hour))
		testsupport.CreatePageView(t, db, "s1", "/", oldest)

		first, err := store.FirstEventAt(ctx)
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.True(t, first.Equal(oldest))
	})
}

func TestSaveEvent(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := records.NewGormStore(db)
	ctx := context.Background()

	event := &records.Event{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		EventType: "filter_applied",
		PagePath:  "/projects",
		SessionID: "s1",
		Data: records.EventData{
			Section:     "Projects",
			FilterType:  "technology",
			FilterValue: "Go",
		},
	}
	require.NoError(t, store.SaveEvent(ctx, event))

	var stored records.Event
	require.NoError(t, db.First(&stored, "id = ?", event.ID).Error)
	assert.Equal(t, "filter_applied", stored.EventType)
	assert.Equal(t, "Go", stored.Data.FilterValue)
}

func TestUpsertSession(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	store := records.NewGormStore(db)
	ctx := context.Background()
	firstVisit := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	session := &records.Session{
		SessionID:    "s1",
		DeviceType:   "Desktop",
		Browser:      "Chrome",
		Country:      "Spain",
		City:         "Madrid",
		FirstVisitAt: firstVisit,
	}
	require.NoError(t, store.UpsertSession(ctx, session))

	// A later upsert refreshes attributes but never moves FirstVisitAt.
	update := &records.Session{
		SessionID:    "s1",
		DeviceType:   "Mobile",
		Browser:      "Safari",
		Country:      "Spain",
		City:         "Sevilla",
		FirstVisitAt: firstVisit.Add(time.Hour),
	}
	require.NoError(t, store.UpsertSession(ctx, update))

	var stored []records.Session
	require.NoError(t, db.Where("session_id = ?", "s1").Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "Mobile", stored[0].DeviceType)
	assert.Equal(t, "Sevilla", stored[0].City)
	assert.True(t, stored[0].FirstVisitAt.Equal(firstVisit))
}
