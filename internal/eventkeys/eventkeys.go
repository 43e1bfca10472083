// Package eventkeys reconciles human event labels with the storage keys
// used for event types. The stored vocabulary accumulated several naming
// conventions over time ("Filter Applied", "Filter applied", "filter_applied"
// all denote the same logical event), so queries against historical data
// match a candidate set of spellings instead of a single key.
package eventkeys

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// labelToKey maps known display labels to their canonical storage key.
// Keep this table extensible: the mechanical fallback in CanonicalKey is a
// best-effort safety net, not a guarantee that every legacy spelling is
// recovered.
var labelToKey = map[string]string{
	"Cv Download Click":            "cv_download_click",
	"CV Download Click":            "cv_download_click",
	"Professional Filters Applied": "professional_filters_applied",
	"Contact Form Submit":          "contact_form_submit",
	"Contact Form Submission":      "contact_form_submit",
	"Theme Toggle":                 "theme_toggle",
	"Theme Change":                 "theme_change",
	"Page View":                    "page_view",
	"Button Click":                 "button_click",
	"Form Submit":                  "form_submit",
	"Navigation":                   "navigation",
	"Filter Applied":               "filter_applied",
}

// keyToDisplay holds display names that simple title-casing would get wrong.
var keyToDisplay = map[string]string{
	"cv_download_click": "CV Download Click",
	"page_view":         "Page View",
}

// PageViewKey is the storage key for page view events. Page views live in
// the same table as interaction events but are reported separately.
const PageViewKey = "page_view"

// CanonicalKey returns the storage key for a display label. Known labels
// resolve through the explicit table; anything else falls back to the
// mechanical transform (lowercase, whitespace runs collapsed to underscores).
func CanonicalKey(label string) string {
	if key, ok := labelToKey[label]; ok {
		return key
	}
	return Snake(label)
}

// Snake applies the mechanical label-to-key transform.
func Snake(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

// Candidates returns the de-duplicated set of event type spellings to match
// against the store for a display label: the canonical key, the label
// verbatim, the single-leading-capital variant, the lowercased label, and
// the mechanical snake form. Order follows first occurrence.
func Candidates(label string) []string {
	lower := strings.ToLower(label)
	raw := []string{
		CanonicalKey(label),
		label,
		leadingCapital(label),
		lower,
		Snake(label),
	}

	seen := make(map[string]struct{}, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, c := range raw {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}
	return candidates
}

// leadingCapital lowercases the label and capitalizes only the first word,
// e.g. "Filter Applied" -> "Filter applied". Some legacy rows were written
// in this style.
func leadingCapital(label string) string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return ""
	}
	out := make([]string, len(words))
	for i, w := range words {
		lw := strings.ToLower(w)
		if i == 0 {
			lw = strings.ToUpper(lw[:1]) + lw[1:]
		}
		out[i] = lw
	}
	return strings.Join(out, " ")
}

// DisplayName converts a storage key back into a presentation label.
func DisplayName(key string) string {
	if name, ok := keyToDisplay[key]; ok {
		return name
	}
	caser := cases.Title(language.AmericanEnglish)
	return caser.String(strings.ReplaceAll(key, "_", " "))
}
