package services

import (
	"time"
)

// validFromLayout matches the date strings in the blank-header column,
// e.g. "New - 03/15/2024".
const validFromLayout = "New - 01/02/2006"

// defaultValidFrom is substituted when a row has no parseable date.
var defaultValidFrom = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// CleanRow is the canonical wide row every downstream projection is cut
// from. Name, Ingredients and Restaurant are mandatory and therefore
// plain strings; the rest may be absent.
type CleanRow struct {
	Name        string
	Ingredients string
	Restaurant  string
	Allergens   *string
	Picture     *string
	Category    *string
	ValidFrom   time.Time
}

// refKey joins a menu row to the category reference:
// (Store, Product category) against (Restaurant name, Restaurant original
// category). Matching is exact; a case mismatch is a miss.
type refKey struct {
	restaurant string
	category   string
}

// CleanMenuItems turns the raw sheets into the clean wide table:
//
//  1. left-join the reference sheet to attach the canonical category;
//     unmatched rows keep a nil category rather than being dropped
//  2. derive valid_from from the date column, defaulting when unparseable
//  3. drop rows missing product name, ingredients or store
//  4. project and rename to the canonical seven columns
//  5. deduplicate exact full-row duplicates, first occurrence wins
//
// Pure: no row is synthesized, every output row descends from an input row.
func CleanMenuItems(menu []RawMenuRow, refs []RefCategoryRow) []CleanRow {
	categories := make(map[refKey][]*string, len(refs))
	for _, r := range refs {
		k := refKey{restaurant: r.RestaurantName, category: r.OriginalCategory}
		categories[k] = append(categories[k], r.FigCategory)
	}

	seen := make(map[cleanRowKey]struct{}, len(menu))
	out := make([]CleanRow, 0, len(menu))
	for _, m := range menu {
		if m.ProductName == nil || m.Ingredients == nil || m.Store == nil {
			continue
		}

		// A menu row joins once per matching reference row, so duplicate
		// reference keys with differing categories fan the row out; with
		// no match the single output row keeps a nil category.
		var matches []*string
		if m.ProductCategory != nil {
			matches = categories[refKey{restaurant: *m.Store, category: *m.ProductCategory}]
		}
		if len(matches) == 0 {
			matches = []*string{nil}
		}

		for _, category := range matches {
			row := CleanRow{
				Name:        *m.ProductName,
				Ingredients: *m.Ingredients,
				Restaurant:  *m.Store,
				Allergens:   m.Allergens,
				Picture:     m.PictureURL,
				Category:    category,
				ValidFrom:   parseValidFrom(m.ValidFromRaw),
			}

			k := row.key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, row)
		}
	}
	return out
}

func parseValidFrom(raw *string) time.Time {
	if raw == nil {
		return defaultValidFrom
	}
	t, err := time.Parse(validFromLayout, *raw)
	if err != nil {
		return defaultValidFrom
	}
	return t
}

// cleanRowKey is a comparable image of a CleanRow for exact-duplicate
// detection. Nullability is part of the key so a nil field never collides
// with an empty one.
type cleanRowKey struct {
	name, ingredients, restaurant         string
	allergens, picture, category          string
	hasAllergens, hasPicture, hasCategory bool
	validFrom                             int64
}

func (r CleanRow) key() cleanRowKey {
	k := cleanRowKey{
		name:        r.Name,
		ingredients: r.Ingredients,
		restaurant:  r.Restaurant,
		validFrom:   r.ValidFrom.Unix(),
	}
	if r.Allergens != nil {
		k.allergens, k.hasAllergens = *r.Allergens, true
	}
	if r.Picture != nil {
		k.picture, k.hasPicture = *r.Picture, true
	}
	if r.Category != nil {
		k.category, k.hasCategory = *r.Category, true
	}
	return k
}
