package catalog

import "strings"

// Filter narrows items by category and free-text name search. Category
// matching is case-insensitive unless activeCategory is the CategoryAll
// sentinel, which matches everything. A non-empty searchTerm is a
// case-insensitive substring match against the item name. Both predicates
// must hold. The result preserves the input order; items with a missing
// name or category simply fail the corresponding predicate.
func Filter(items []Item, activeCategory, searchTerm string) []Item {
	out := make([]Item, 0, len(items))
	term := strings.ToLower(searchTerm)
	for _, it := range items {
		if activeCategory != CategoryAll && !strings.EqualFold(it.Category, activeCategory) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(it.Name), term) {
			continue
		}
		out = append(out, it)
	}
	return out
}
