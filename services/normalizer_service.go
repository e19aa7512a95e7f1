package services

import "sort"

// MenuItemRow is the menu_items projection before foreign-key resolution:
// the restaurant is still a name.
type MenuItemRow struct {
	Name       string
	Restaurant string
	Category   *string
}

// ChildRow is the shared shape of the pictures, ingredients and allergens
// projections: a product/restaurant pair naming the parent menu item plus
// the single payload field.
type ChildRow struct {
	Product    string
	Restaurant string
	Value      *string
}

// NormalizedTables holds the five projections the loader writes, one per
// destination table.
type NormalizedTables struct {
	Restaurants []string
	MenuItems   []MenuItemRow
	Ingredients []ChildRow
	Allergens   []ChildRow
	Pictures    []ChildRow
}

// Normalize splits the clean wide table into the five narrow projections,
// each deduplicated on its own column subset. Restaurants are sorted
// ascending so insertion order, and with it key assignment, is reproducible
// across runs; the other projections keep first-seen order and are ordered
// at load time instead. Pure and deterministic.
func Normalize(rows []CleanRow) NormalizedTables {
	t := NormalizedTables{
		Restaurants: distinctRestaurants(rows),
		MenuItems:   distinctMenuItems(rows),
	}
	t.Ingredients = distinctChildren(rows, func(r CleanRow) *string { ing := r.Ingredients; return &ing })
	t.Allergens = distinctChildren(rows, func(r CleanRow) *string { return r.Allergens })
	t.Pictures = distinctChildren(rows, func(r CleanRow) *string { return r.Picture })
	return t
}

func distinctRestaurants(rows []CleanRow) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.Restaurant]; dup {
			continue
		}
		seen[r.Restaurant] = struct{}{}
		out = append(out, r.Restaurant)
	}
	sort.Strings(out)
	return out
}

func distinctMenuItems(rows []CleanRow) []MenuItemRow {
	type itemKey struct {
		name, restaurant, category string
		hasCategory                bool
	}
	seen := make(map[itemKey]struct{}, len(rows))
	out := make([]MenuItemRow, 0, len(rows))
	for _, r := range rows {
		k := itemKey{name: r.Name, restaurant: r.Restaurant}
		if r.Category != nil {
			k.category, k.hasCategory = *r.Category, true
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, MenuItemRow{Name: r.Name, Restaurant: r.Restaurant, Category: r.Category})
	}
	return out
}

func distinctChildren(rows []CleanRow, value func(CleanRow) *string) []ChildRow {
	type childKey struct {
		product, restaurant, value string
		hasValue                   bool
	}
	seen := make(map[childKey]struct{}, len(rows))
	out := make([]ChildRow, 0, len(rows))
	for _, r := range rows {
		v := value(r)
		k := childKey{product: r.Name, restaurant: r.Restaurant}
		if v != nil {
			k.value, k.hasValue = *v, true
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, ChildRow{Product: r.Name, Restaurant: r.Restaurant, Value: v})
	}
	return out
}
