package main

import (
	"log"

	"github.com/benedictaquino/fdc-benedictaquino/config"
	"github.com/benedictaquino/fdc-benedictaquino/services"
)

// One-shot batch job: read the menu workbook, clean and normalize it into
// five relational tables, load them into Postgres. Strictly sequential;
// any fatal error exits with whatever earlier steps already committed.
func main() {
	cfg := config.Load()

	data, err := services.ReadWorkbook(cfg.SourceFile)
	if err != nil {
		log.Fatalf("read source data: %v", err)
	}
	log.Printf("read %d menu rows, %d reference categories", len(data.MenuItems), len(data.Categories))

	clean := services.CleanMenuItems(data.MenuItems, data.Categories)
	log.Printf("cleaned down to %d rows", len(clean))

	tables := services.Normalize(clean)

	db, err := config.Connect(cfg)
	if err != nil {
		log.Fatalf("database setup: %v", err)
	}

	if err := services.NewLoaderService(db).Load(tables); err != nil {
		log.Fatalf("load: %v", err)
	}
}
