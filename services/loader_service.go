package services

import (
	"fmt"
	"log"
	"sort"

	"github.com/benedictaquino/fdc-benedictaquino/models"

	"gorm.io/gorm"
)

// LoaderService writes the normalized tables over a single connection, one
// batch insert per table, strictly in parent-before-child order. No
// transaction spans the sequence: a failure partway through leaves the
// already-written tables committed. Loads are append-only, so re-running
// the job duplicates rows.
type LoaderService struct {
	db *gorm.DB
}

func NewLoaderService(db *gorm.DB) *LoaderService {
	return &LoaderService{db: db}
}

// menuItemKey identifies a loaded menu item for child-table resolution.
// Only items whose restaurant resolved have a key; an item loaded with a
// NULL restaurant_id is unreachable from the child tables, mirroring how
// null join keys never match.
type menuItemKey struct {
	Name         string
	RestaurantID uint
}

// Load runs the insert sequence: restaurants, then menu items with their
// restaurant foreign keys resolved, then the three child tables against the
// menu-item key map. Generated keys come back from each insert, so the id
// maps always describe this run's rows.
func (s *LoaderService) Load(tables NormalizedTables) error {
	restaurantIDs, err := s.loadRestaurants(tables.Restaurants)
	if err != nil {
		return err
	}

	itemIDs, err := s.loadMenuItems(tables.MenuItems, restaurantIDs)
	if err != nil {
		return err
	}

	if err := s.loadIngredients(tables.Ingredients, restaurantIDs, itemIDs); err != nil {
		return err
	}
	if err := s.loadAllergens(tables.Allergens, restaurantIDs, itemIDs); err != nil {
		return err
	}
	if err := s.loadPictures(tables.Pictures, restaurantIDs, itemIDs); err != nil {
		return err
	}
	return nil
}

func (s *LoaderService) loadRestaurants(names []string) (map[string]uint, error) {
	rows := make([]models.Restaurant, len(names))
	for i, name := range names {
		rows[i] = models.Restaurant{Name: name}
	}
	if len(rows) > 0 {
		if err := s.db.Create(&rows).Error; err != nil {
			return nil, fmt.Errorf("insert restaurants: %w", err)
		}
	}
	log.Printf("loaded %d restaurants", len(rows))

	ids := make(map[string]uint, len(rows))
	for _, r := range rows {
		if _, dup := ids[r.Name]; !dup {
			ids[r.Name] = r.ID
		}
	}
	return ids, nil
}

func (s *LoaderService) loadMenuItems(items []MenuItemRow, restaurantIDs map[string]uint) (map[menuItemKey]uint, error) {
	rows := make([]models.MenuItem, len(items))
	for i, item := range items {
		rows[i] = models.MenuItem{
			// A name with no loaded restaurant leaves the foreign key
			// NULL; the row is kept, not rejected. Known risk of this
			// load design.
			RestaurantID: lookupRestaurant(item.Restaurant, restaurantIDs),
			Name:         item.Name,
			Category:     item.Category,
		}
	}
	sortMenuItems(rows)

	if len(rows) > 0 {
		if err := s.db.Create(&rows).Error; err != nil {
			return nil, fmt.Errorf("insert menu items: %w", err)
		}
	}
	log.Printf("loaded %d menu items", len(rows))

	ids := make(map[menuItemKey]uint, len(rows))
	for _, r := range rows {
		if r.RestaurantID == nil {
			continue
		}
		k := menuItemKey{Name: r.Name, RestaurantID: *r.RestaurantID}
		if _, dup := ids[k]; !dup {
			ids[k] = r.ID
		}
	}
	return ids, nil
}

func (s *LoaderService) loadIngredients(rows []ChildRow, restaurantIDs map[string]uint, itemIDs map[menuItemKey]uint) error {
	if len(rows) == 0 {
		return nil
	}
	out := make([]models.Ingredient, len(rows))
	for i, r := range rows {
		out[i] = models.Ingredient{
			ItemID:      resolveItemID(r, restaurantIDs, itemIDs),
			Ingredients: r.Value,
		}
	}
	if err := s.db.Create(&out).Error; err != nil {
		return fmt.Errorf("insert ingredients: %w", err)
	}
	log.Printf("loaded %d ingredient rows", len(out))
	return nil
}

func (s *LoaderService) loadAllergens(rows []ChildRow, restaurantIDs map[string]uint, itemIDs map[menuItemKey]uint) error {
	if len(rows) == 0 {
		return nil
	}
	out := make([]models.Allergen, len(rows))
	for i, r := range rows {
		out[i] = models.Allergen{
			ItemID:    resolveItemID(r, restaurantIDs, itemIDs),
			Allergens: r.Value,
		}
	}
	if err := s.db.Create(&out).Error; err != nil {
		return fmt.Errorf("insert allergens: %w", err)
	}
	log.Printf("loaded %d allergen rows", len(out))
	return nil
}

func (s *LoaderService) loadPictures(rows []ChildRow, restaurantIDs map[string]uint, itemIDs map[menuItemKey]uint) error {
	if len(rows) == 0 {
		return nil
	}
	out := make([]models.Picture, len(rows))
	for i, r := range rows {
		out[i] = models.Picture{
			ItemID:  resolveItemID(r, restaurantIDs, itemIDs),
			Picture: r.Value,
		}
	}
	if err := s.db.Create(&out).Error; err != nil {
		return fmt.Errorf("insert pictures: %w", err)
	}
	log.Printf("loaded %d picture rows", len(out))
	return nil
}

func lookupRestaurant(name string, restaurantIDs map[string]uint) *uint {
	id, ok := restaurantIDs[name]
	if !ok {
		return nil
	}
	return &id
}

// resolveItemID maps a child row to its menu item through the restaurant:
// first the restaurant name, then (product, restaurant_id). A miss at
// either step yields a NULL item_id in the inserted row — never a dangling
// non-null id, but also never an error. Flagged correctness risk.
func resolveItemID(row ChildRow, restaurantIDs map[string]uint, itemIDs map[menuItemKey]uint) *uint {
	rid, ok := restaurantIDs[row.Restaurant]
	if !ok {
		return nil
	}
	id, ok := itemIDs[menuItemKey{Name: row.Product, RestaurantID: rid}]
	if !ok {
		return nil
	}
	return &id
}

// sortMenuItems orders rows by (restaurant_id, name) so insertion, and with
// it key generation, is deterministic. Unresolved rows sort first, matching
// nulls-first ordering.
func sortMenuItems(rows []models.MenuItem) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].RestaurantID, rows[j].RestaurantID
		switch {
		case ri == nil && rj != nil:
			return true
		case ri != nil && rj == nil:
			return false
		case ri != nil && rj != nil && *ri != *rj:
			return *ri < *rj
		}
		return rows[i].Name < rows[j].Name
	})
}
