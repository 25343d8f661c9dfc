package core

import (
	"sort"
	"strings"
)

// Filter narrows an account collection. Category is an exact match;
// SearchTerm is a case-insensitive substring over name, url and username.
// Both dimensions combine with AND when present.
type Filter struct {
	Category   string
	SearchTerm string
}

// CategoryUsage pairs a category name with how many accounts carry it.
type CategoryUsage struct {
	Name  string
	Count int
}

// VaultStats summarizes a collection and its currently filtered subset.
type VaultStats struct {
	Total      int
	DynamicPin int
	Categories int
	Filtered   int
}

// ExistingCategories returns the distinct non-empty category values across
// all accounts, sorted lexically.
func ExistingCategories(accounts []Account) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, a := range accounts {
		c := a.Category
		if strings.TrimSpace(c) == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CategoryCount counts accounts whose category exactly equals name. No
// normalization is applied here; producers store lowercase values.
func CategoryCount(accounts []Account, name string) int {
	n := 0
	for _, a := range accounts {
		if a.Category == name {
			n++
		}
	}
	return n
}

// MostUsedCategories ranks categories by descending count, ties broken by
// the lexical order of ExistingCategories, truncated to limit.
func MostUsedCategories(accounts []Account, limit int) []CategoryUsage {
	cats := ExistingCategories(accounts)
	usage := make([]CategoryUsage, len(cats))
	for i, c := range cats {
		usage[i] = CategoryUsage{Name: c, Count: CategoryCount(accounts, c)}
	}
	sort.SliceStable(usage, func(i, j int) bool {
		return usage[i].Count > usage[j].Count
	})
	if limit >= 0 && len(usage) > limit {
		usage = usage[:limit]
	}
	return usage
}

// FilterAccounts applies f to accounts and returns the matching subset in
// input order. An empty filter returns the input unchanged.
func FilterAccounts(accounts []Account, f Filter) []Account {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if term != "" && !matchesTerm(a, term) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesTerm(a Account, term string) bool {
	return strings.Contains(strings.ToLower(a.Name), term) ||
		strings.Contains(strings.ToLower(a.URL), term) ||
		strings.Contains(strings.ToLower(a.Username), term)
}

// Stats computes summary counters over the full collection and the
// currently filtered subset.
func Stats(accounts, filtered []Account) VaultStats {
	s := VaultStats{
		Total:      len(accounts),
		Categories: len(ExistingCategories(accounts)),
		Filtered:   len(filtered),
	}
	for _, a := range accounts {
		if a.RequiresDynamicPin {
			s.DynamicPin++
		}
	}
	return s
}
