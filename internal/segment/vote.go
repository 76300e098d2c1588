package segment

import (
	"fmt"
	"sort"
	"strings"

	"docroute/internal/domain"
)

// VotePlatform returns the majority platform hint of pages and the per-label tally.
// Known labels beat UNKNOWN regardless of count; ties go to the lexically smaller label.
func VotePlatform(pages []domain.PageProfile) (domain.Platform, map[string]int) {
	counts := make(map[string]int)
	for i := range pages {
		counts[string(pages[i].PlatformHint)]++
	}
	if len(counts) == 0 {
		return domain.PlatformUnknown, counts
	}
	best := pick(counts, func(name string) int {
		if name == string(domain.PlatformUnknown) {
			return 1
		}
		return 0
	})
	return domain.Platform(best), counts
}

// VoteDocKind returns the majority doc kind of pages and the per-kind tally.
// Ties go to the lexically smaller kind.
func VoteDocKind(pages []domain.PageProfile) (domain.DocKind, map[string]int) {
	counts := make(map[string]int)
	for i := range pages {
		counts[string(pages[i].DocKind)]++
	}
	if len(counts) == 0 {
		return domain.DocKindGeneric, counts
	}
	return domain.DocKind(pick(counts, func(string) int { return 0 })), counts
}

// pick orders by rank ascending, then count descending, then name.
func pick(counts map[string]int, rank func(string) int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra < rb
		}
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return a < b
	})
	return names[0]
}

// FormatCounts renders a tally with sorted keys, e.g. "{META:2, UNKNOWN:1}".
func FormatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, counts[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
