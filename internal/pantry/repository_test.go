package pantry_test

import (
	"context"
	"path/filepath"
	"testing"

	"mealweek/internal/database"
	"mealweek/internal/pantry"
)

func TestPantryRepository(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "pantry_test.db")
	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := pantry.NewRepository(db.SQL)

	grams := 750.0
	saved, err := repo.Upsert(ctx, pantry.Item{Name: "Rice", Grams: &grams})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if saved.ID == "" {
		t.Error("Expected an id to be assigned")
	}

	count := 6
	if _, err := repo.Upsert(ctx, pantry.Item{Name: "Eggs", Count: &count, Unit: "pcs"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	t.Run("List", func(t *testing.T) {
		items, err := repo.ListPantry(ctx)
		if err != nil {
			t.Fatalf("ListPantry failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(items))
		}
		// Sorted by name: Eggs before Rice.
		if items[0].Name != "Eggs" || items[1].Name != "Rice" {
			t.Errorf("Expected name order [Eggs Rice], got [%s %s]", items[0].Name, items[1].Name)
		}
		if items[1].Grams == nil || *items[1].Grams != 750 {
			t.Errorf("Expected Rice to hold 750 g, got %v", items[1].Grams)
		}
		if items[0].Count == nil || *items[0].Count != 6 || items[0].Unit != "pcs" {
			t.Errorf("Expected Eggs to hold 6 pcs, got %+v", items[0])
		}
	})

	t.Run("UpsertUpdatesExisting", func(t *testing.T) {
		newGrams := 500.0
		saved.Grams = &newGrams
		if _, err := repo.Upsert(ctx, saved); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		items, _ := repo.ListPantry(ctx)
		if len(items) != 2 {
			t.Fatalf("Expected upsert by id to not create a new row, got %d items", len(items))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, saved.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		items, _ := repo.ListPantry(ctx)
		if len(items) != 1 {
			t.Errorf("Expected 1 item after delete, got %d", len(items))
		}
	})
}
