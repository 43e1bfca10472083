package analytics

import (
	"math"
	"sort"
)

// countLabels tallies labels in encounter order. Empty labels are counted
// under the fallback so bucket totals always sum to the full population.
func countLabels(labels []string, fallback string) ([]string, map[string]int) {
	counts := make(map[string]int, len(labels))
	order := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			label = fallback
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}
	return order, counts
}

// rankLabels is the group-count-sort-percentage reduction behind every
// dimension. Sorting is stable so equal counts keep first-occurrence order.
// An empty population yields an empty sequence, never a division artifact.
func rankLabels(labels []string, fallback string, limit int) []RankedStat {
	order, counts := countLabels(labels, fallback)
	if len(order) == 0 {
		return []RankedStat{}
	}

	total := len(labels)
	stats := make([]RankedStat, 0, len(order))
	for _, label := range order {
		stats = append(stats, RankedStat{
			Label:      label,
			Count:      counts[label],
			Percentage: percentage(counts[label], total),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// percentage rounds count/total to whole percent; zero totals yield 0.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
