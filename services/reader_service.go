package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	menuSheetName = "Restaurant Menu Items"
	refSheetName  = "Reference categories"
)

// Menu sheet columns. The valid-from date lives in a column with a blank
// header, so it is addressed as "". It only survives GetRows when a named
// column follows it; a trailing blank header is trimmed away and reads as
// missing.
const (
	colProductName     = "Product Name"
	colIngredients     = "Ingredients on Product Page"
	colAllergens       = "Allergens and Warnings"
	colPictureURL      = "URL of primary product picture"
	colStore           = "Store"
	colProductCategory = "Product category"
	colValidFrom       = ""
)

// Reference sheet columns.
const (
	colRestaurantName   = "Restaurant name"
	colOriginalCategory = "Restaurant original category"
	colFigCategory      = "Fig Category 1"
)

var (
	ErrSheetNotFound  = errors.New("sheet not found")
	ErrColumnNotFound = errors.New("required column not found")
)

// RawMenuRow is one menu-sheet row as read, untyped and unfiltered. Empty
// cells come through as nil so the cleaner can tell missing from blank.
type RawMenuRow struct {
	ProductName     *string
	Ingredients     *string
	Allergens       *string
	PictureURL      *string
	Store           *string
	ProductCategory *string
	ValidFromRaw    *string
}

// RefCategoryRow maps a restaurant's own category naming to the canonical
// category.
type RefCategoryRow struct {
	RestaurantName   string
	OriginalCategory string
	FigCategory      *string
}

// SourceData is both sheets of the source workbook.
type SourceData struct {
	MenuItems  []RawMenuRow
	Categories []RefCategoryRow
}

// ReadWorkbook loads the two named sheets from the spreadsheet at path.
// A missing file, a missing sheet or a missing required column is fatal;
// nothing is loaded downstream of a read error.
func ReadWorkbook(path string) (*SourceData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	menu, err := readMenuSheet(f)
	if err != nil {
		return nil, err
	}
	refs, err := readReferenceSheet(f)
	if err != nil {
		return nil, err
	}

	return &SourceData{MenuItems: menu, Categories: refs}, nil
}

func readMenuSheet(f *excelize.File) ([]RawMenuRow, error) {
	rows, err := sheetRows(f, menuSheetName)
	if err != nil {
		return nil, err
	}
	idx := indexHeader(rows[0])
	err = idx.require(menuSheetName,
		colProductName, colIngredients, colAllergens,
		colPictureURL, colStore, colProductCategory, colValidFrom)
	if err != nil {
		return nil, err
	}

	out := make([]RawMenuRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, RawMenuRow{
			ProductName:     cell(row, idx, colProductName),
			Ingredients:     cell(row, idx, colIngredients),
			Allergens:       cell(row, idx, colAllergens),
			PictureURL:      cell(row, idx, colPictureURL),
			Store:           cell(row, idx, colStore),
			ProductCategory: cell(row, idx, colProductCategory),
			ValidFromRaw:    cell(row, idx, colValidFrom),
		})
	}
	return out, nil
}

func readReferenceSheet(f *excelize.File) ([]RefCategoryRow, error) {
	rows, err := sheetRows(f, refSheetName)
	if err != nil {
		return nil, err
	}
	idx := indexHeader(rows[0])
	err = idx.require(refSheetName, colRestaurantName, colOriginalCategory, colFigCategory)
	if err != nil {
		return nil, err
	}

	out := make([]RefCategoryRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, idx, colRestaurantName)
		orig := cell(row, idx, colOriginalCategory)
		if name == nil || orig == nil {
			// unusable as a join key
			continue
		}
		out = append(out, RefCategoryRow{
			RestaurantName:   *name,
			OriginalCategory: *orig,
			FigCategory:      cell(row, idx, colFigCategory),
		})
	}
	return out, nil
}

func sheetRows(f *excelize.File, name string) ([][]string, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: header row of sheet %q", ErrColumnNotFound, name)
	}
	return rows, nil
}

// headerIndex maps a trimmed header name to its column position. The first
// occurrence wins if a header repeats.
type headerIndex map[string]int

func indexHeader(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	return idx
}

func (h headerIndex) require(sheet string, cols ...string) error {
	for _, c := range cols {
		if _, ok := h[c]; !ok {
			return fmt.Errorf("%w: %q on sheet %q", ErrColumnNotFound, c, sheet)
		}
	}
	return nil
}

// cell returns the trimmed value at the named column, or nil when the column
// is absent, the row is too short, or the cell is blank. Sparse rows are
// common in the source workbook.
func cell(row []string, idx headerIndex, col string) *string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return nil
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return nil
	}
	return &v
}
