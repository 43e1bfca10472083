// Package timewindow resolves named dashboard range tokens into concrete
// query bounds.
package timewindow

import "time"

// Token represents one of the selectable dashboard time ranges.
type Token string

const (
	TokenDay      Token = "1d"
	TokenWeek     Token = "7d"
	TokenMonth    Token = "30d"
	TokenQuarter  Token = "90d"
	TokenHalfYear Token = "180d"
	TokenYear     Token = "365d"
	TokenAll      Token = "all"
)

// DefaultToken is used when the caller supplies an unrecognized token.
// The UI only ever sends tokens from the fixed set, so falling back is a
// permissive default rather than data loss.
const DefaultToken = TokenWeek

var tokenDays = map[Token]int{
	TokenDay:      1,
	TokenWeek:     7,
	TokenMonth:    30,
	TokenQuarter:  90,
	TokenHalfYear: 180,
	TokenYear:     365,
	TokenAll:      0,
}

// Window is a resolved time filter. Queries are always "since Since",
// open-ended into the future; Unbounded means no lower bound at all.
type Window struct {
	Since     time.Time
	Unbounded bool
}

// SinceOrNil returns the lower bound as a pointer, nil when unbounded.
// This is the shape the record store queries accept.
func (w Window) SinceOrNil() *time.Time {
	if w.Unbounded {
		return nil
	}
	since := w.Since
	return &since
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return w.Unbounded || !t.Before(w.Since)
}

// Resolve maps a range token to a concrete window evaluated at now.
func Resolve(token Token, now time.Time) Window {
	days, ok := tokenDays[token]
	if !ok {
		days = tokenDays[DefaultToken]
	}
	if days == 0 {
		return Window{Unbounded: true}
	}
	return Window{Since: now.AddDate(0, 0, -days)}
}

// Days returns the number of days a token spans; 0 means all data.
// Unknown tokens report the default range.
func Days(token Token) int {
	if days, ok := tokenDays[token]; ok {
		return days
	}
	return tokenDays[DefaultToken]
}

// Tokens lists the recognized range tokens in display order.
func Tokens() []Token {
	return []Token{
		TokenDay, TokenWeek, TokenMonth, TokenQuarter,
		TokenHalfYear, TokenYear, TokenAll,
	}
}

// Valid reports whether token is one of the recognized ranges.
func Valid(token Token) bool {
	_, ok := tokenDays[token]
	return ok
}
