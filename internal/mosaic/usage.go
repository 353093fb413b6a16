package mosaic

import (
	"regexp"
	"sort"
	"strings"
)

// PenaltyFactor is added to an asset's score once for every time the asset
// has already been chosen in the current run.
const PenaltyFactor = 0.1

// Usage counts how often each library asset has been chosen during one run.
// It is indexed by library position and is not safe for concurrent use.
type Usage struct {
	ids    []string
	counts []int
}

// NewUsage returns zeroed counters for every asset of lib.
func NewUsage(lib *Library) *Usage {
	u := &Usage{
		ids:    lib.IDs(),
		counts: make([]int, lib.Len()),
	}
	return u
}

// Count returns how often the asset at index i has been chosen.
func (u *Usage) Count(i int) int {
	return u.counts[i]
}

// Penalty returns the score term for the asset at index i.
func (u *Usage) Penalty(i int) float64 {
	return float64(u.counts[i]) * PenaltyFactor
}

func (u *Usage) record(i int) {
	u.counts[i]++
}

// Report returns the count of every asset keyed by asset id, including
// assets that were never chosen.
func (u *Usage) Report() map[string]int {
	report := make(map[string]int, len(u.ids))
	for i, id := range u.ids {
		report[id] = u.counts[i]
	}
	return report
}

// UsageEntry is one line of a usage listing.
type UsageEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Used returns the assets of report that were chosen at least once, most used
// first. Ties are ordered by id.
func Used(report map[string]int) []UsageEntry {
	entries := make([]UsageEntry, 0, len(report))
	for id, n := range report {
		if n <= 0 {
			continue
		}
		entries = append(entries, UsageEntry{ID: id, Name: DisplayName(id), Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

var iconWord = regexp.MustCompile(`(?i)\bicon\b`)

// DisplayName turns an asset id such as "red_star_icon" into "red star".
func DisplayName(id string) string {
	name := strings.ReplaceAll(id, "_", " ")
	name = iconWord.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}
