package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		token     Token
		wantSince time.Time
		unbounded bool
	}{
		{TokenDay, now.AddDate(0, 0, -1), false},
		{TokenWeek, now.AddDate(0, 0, -7), false},
		{TokenMonth, now.AddDate(0, 0, -30), false},
		{TokenQuarter, now.AddDate(0, 0, -90), false},
		{TokenHalfYear, now.AddDate(0, 0, -180), false},
		{TokenYear, now.AddDate(0, 0, -365), false},
		{TokenAll, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.token), func(t *testing.T) {
			w := Resolve(tt.token, now)
			assert.Equal(t, tt.unbounded, w.Unbounded)
			if !tt.unbounded {
				assert.Equal(t, tt.wantSince, w.Since)
			}
		})
	}
}

func TestResolveDayIsExactly24Hours(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	w := Resolve(TokenDay, now)
	assert.Equal(t, 24*time.Hour, now.Sub(w.Since))
}

func TestResolveUnknownTokenFallsBackToWeek(t *testing.T) {
	now := time.Now().UTC()
	unknown := Resolve(Token("14d"), now)
	week := Resolve(TokenWeek, now)
	assert.Equal(t, week, unknown)
}

func TestSinceOrNil(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	all := Resolve(TokenAll, now)
	assert.Nil(t, all.SinceOrNil())

	week := Resolve(TokenWeek, now)
	since := week.SinceOrNil()
	require.NotNil(t, since)
	assert.Equal(t, now.AddDate(0, 0, -7), *since)
}

func TestContains(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	w := Resolve(TokenWeek, now)

	assert.True(t, w.Contains(now))
	assert.True(t, w.Contains(now.AddDate(0, 0, -7)))
	assert.False(t, w.Contains(now.AddDate(0, 0, -8)))

	all := Resolve(TokenAll, now)
	assert.True(t, all.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestValidAndDays(t *testing.T) {
	for _, token := range Tokens() {
		assert.True(t, Valid(token))
	}
	assert.False(t, Valid(Token("2w")))

	assert.Equal(t, 1, Days(TokenDay))
	assert.Equal(t, 0, Days(TokenAll))
	assert.Equal(t, 7, Days(Token("bogus")))
}
