// Package referrers classifies raw session referrer URLs into traffic-source
// categories and human display labels.
package referrers

import (
	"net/url"
	"strings"
)

// Category is the traffic-source bucket a referrer falls into.
type Category string

const (
	CategoryDirect   Category = "Direct"
	CategoryLinkedIn Category = "LinkedIn"
	CategoryOther    Category = "Other"
)

// Classification is the result of classifying a raw referrer value.
type Classification struct {
	Category Category
	Display  string
}

// linkedinDomains are the hostnames attributed to LinkedIn traffic.
var linkedinDomains = []string{"linkedin.com", "lnkd.in"}

// knownReferrers maps common hostnames to friendly display names.
var knownReferrers = map[string]string{
	// Search engines
	"google.com":     "Google",
	"bing.com":       "Bing",
	"duckduckgo.com": "DuckDuckGo",
	"yahoo.com":      "Yahoo",
	"ecosia.org":     "Ecosia",

	// Social media
	"x.com":       "X/Twitter",
	"twitter.com": "X/Twitter",
	"t.co":        "X/Twitter",
	"facebook.com": "Facebook",
	"instagram.com": "Instagram",
	"linkedin.com":  "LinkedIn",
	"lnkd.in":       "LinkedIn",
	"reddit.com":    "Reddit",
	"youtube.com":   "YouTube",
	"t.me":          "Telegram",

	// Tech communities
	"news.ycombinator.com": "Hacker News",
	"dev.to":               "DEV Community",
	"medium.com":           "Medium",
	"github.com":           "GitHub",
	"gitlab.com":           "GitLab",
	"stackoverflow.com":    "Stack Overflow",

	// Email providers (newsletter clicks)
	"mail.google.com":  "Gmail",
	"outlook.live.com": "Outlook",
}

// Classify maps a raw referrer (URL string or empty for absent) to a
// category and display label. Classification is pure and total: every
// input maps to exactly one category.
func Classify(raw string) Classification {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Classification{Category: CategoryDirect, Display: "Direct"}
	}

	hostname := hostnameOf(raw)
	if hostname == "" {
		// Not parseable as a URL; keep the raw value for display.
		return Classification{Category: CategoryOther, Display: raw}
	}

	for _, domain := range linkedinDomains {
		if matchesDomain(hostname, domain) {
			return Classification{Category: CategoryLinkedIn, Display: "LinkedIn"}
		}
	}

	return Classification{Category: CategoryOther, Display: FriendlyName(hostname)}
}

// FriendlyName returns a human-friendly label for a referrer hostname.
// Unknown hostnames lose their "www." prefix and get a capitalized first
// letter.
func FriendlyName(hostname string) string {
	hostname = strings.ToLower(hostname)

	if name, ok := knownReferrers[hostname]; ok {
		return name
	}

	hostname = strings.TrimPrefix(hostname, "www.")
	if name, ok := knownReferrers[hostname]; ok {
		return name
	}

	// Subdomain of a known referrer
	for domain, name := range knownReferrers {
		if strings.HasSuffix(hostname, "."+domain) {
			return name
		}
	}

	return capitalizeFirst(hostname)
}

func hostnameOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" && !strings.Contains(raw, "://") {
		// Bare hostnames like "linkedin.com/feed" parse with an empty Host.
		if u, err = url.Parse("https://" + raw); err == nil {
			host = u.Hostname()
		}
	}
	return strings.ToLower(host)
}

func matchesDomain(hostname, domain string) bool {
	return hostname == domain || strings.HasSuffix(hostname, "."+domain)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
