package eventkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{"Cv Download Click", "cv_download_click"},
		{"CV Download Click", "cv_download_click"},
		{"Filter Applied", "filter_applied"},
		{"Contact Form Submission", "contact_form_submit"},
		{"Contact Form Submit", "contact_form_submit"},
		{"Theme Toggle", "theme_toggle"},
		{"Page View", "page_view"},

		// Unmapped labels fall back to the mechanical transform
		{"Some New Thing", "some_new_thing"},
		{"  Spaced   Out  Label ", "spaced_out_label"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalKey(tt.label))
		})
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates("Cv Download Click")

	assert.Contains(t, got, "cv_download_click")
	assert.Contains(t, got, "Cv Download Click")
	assert.Contains(t, got, "cv download click")

	// De-duplicated
	seen := map[string]int{}
	for _, c := range got {
		seen[c]++
	}
	for c, n := range seen {
		assert.Equal(t, 1, n, "candidate %q appears more than once", c)
	}
}

func TestCandidatesCoversLegacySpellings(t *testing.T) {
	got := Candidates("Filter Applied")

	assert.Equal(t, "filter_applied", got[0], "canonical key comes first")
	assert.Contains(t, got, "Filter Applied")
	assert.Contains(t, got, "Filter applied")
	assert.Contains(t, got, "filter applied")
}

func TestCandidatesEmptyLabel(t *testing.T) {
	assert.Empty(t, Candidates(""))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"cv_download_click", "CV Download Click"},
		{"page_view", "Page View"},
		{"filter_applied", "Filter Applied"},
		{"some_new_thing", "Some New Thing"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.key))
		})
	}
}

func TestSnake(t *testing.T) {
	assert.Equal(t, "some_new_thing", Snake("Some New Thing"))
	assert.Equal(t, "already_snake", Snake("already_snake"))
	assert.Equal(t, "", Snake("   "))
}
