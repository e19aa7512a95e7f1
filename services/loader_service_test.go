package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/benedictaquino/fdc-benedictaquino/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func idRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

// Full load sequence: restaurants first, menu items sorted and resolved
// against the returned restaurant keys, then the three child tables joined
// through the menu-item key map. "Ghost" references a restaurant that was
// never loaded, so its foreign keys stay NULL all the way down.
func TestLoaderLoadSequence(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "restaurant_data"\."restaurants"`).
		WithArgs("Ariel's", "Joe's Diner").
		WillReturnRows(idRows(1, 2))
	mock.ExpectCommit()

	// sorted (restaurant_id, name), NULL restaurant first:
	// Ghost(NULL), Kelp Salad(1), Burger(2)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "restaurant_data"\."menu_items"`).
		WithArgs(nil, "Ghost", nil, 1, "Kelp Salad", nil, 2, "Burger", "Main").
		WillReturnRows(idRows(10, 11, 12))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "restaurant_data"\."ingredients"`).
		WithArgs(12, "beef, bun", nil, "ectoplasm").
		WillReturnRows(idRows(100, 101))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "restaurant_data"\."allergens"`).
		WithArgs(12, "gluten").
		WillReturnRows(idRows(200))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "restaurant_data"\."pictures"`).
		WithArgs(11, "https://img/kelp.png").
		WillReturnRows(idRows(300))
	mock.ExpectCommit()

	tables := NormalizedTables{
		Restaurants: []string{"Ariel's", "Joe's Diner"},
		MenuItems: []MenuItemRow{
			{Name: "Burger", Restaurant: "Joe's Diner", Category: strptr("Main")},
			{Name: "Kelp Salad", Restaurant: "Ariel's"},
			{Name: "Ghost", Restaurant: "Nowhere"},
		},
		Ingredients: []ChildRow{
			{Product: "Burger", Restaurant: "Joe's Diner", Value: strptr("beef, bun")},
			{Product: "Ghost", Restaurant: "Nowhere", Value: strptr("ectoplasm")},
		},
		Allergens: []ChildRow{
			{Product: "Burger", Restaurant: "Joe's Diner", Value: strptr("gluten")},
		},
		Pictures: []ChildRow{
			{Product: "Kelp Salad", Restaurant: "Ariel's", Value: strptr("https://img/kelp.png")},
		},
	}

	err := NewLoaderService(db).Load(tables)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoaderEmptyTables(t *testing.T) {
	db, mock := newMockDB(t)

	err := NewLoaderService(db).Load(NormalizedTables{})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSortMenuItemsNullsFirstThenIDAndName(t *testing.T) {
	one, two := uint(1), uint(2)
	rows := []models.MenuItem{
		{RestaurantID: &two, Name: "Burger"},
		{RestaurantID: &one, Name: "Kelp Salad"},
		{RestaurantID: nil, Name: "Ghost"},
		{RestaurantID: &one, Name: "Chowder"},
	}

	sortMenuItems(rows)

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Ghost", "Chowder", "Kelp Salad", "Burger"}, names)
}

func TestResolveItemID(t *testing.T) {
	restaurantIDs := map[string]uint{"Joe's Diner": 2}
	itemIDs := map[menuItemKey]uint{{Name: "Burger", RestaurantID: 2}: 12}

	resolved := resolveItemID(ChildRow{Product: "Burger", Restaurant: "Joe's Diner"}, restaurantIDs, itemIDs)
	require.NotNil(t, resolved)
	assert.Equal(t, uint(12), *resolved)

	// unknown restaurant, e.g. a post-normalization case mismatch
	assert.Nil(t, resolveItemID(ChildRow{Product: "Burger", Restaurant: "joe's diner"}, restaurantIDs, itemIDs))

	// restaurant known, dish not
	assert.Nil(t, resolveItemID(ChildRow{Product: "Pizza", Restaurant: "Joe's Diner"}, restaurantIDs, itemIDs))
}
