package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	catmemory "github.com/ghuser/fournil/services/catalog/infrastructure/persistence/memory"
	"github.com/ghuser/fournil/services/export/domain"
	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invmemory "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/memory"
	prodmemory "github.com/ghuser/fournil/services/production/infrastructure/persistence/memory"
	recmemory "github.com/ghuser/fournil/services/recipe/infrastructure/persistence/memory"
	wastemodels "github.com/ghuser/fournil/services/waste/domain/models"
	wastememory "github.com/ghuser/fournil/services/waste/infrastructure/persistence/memory"
)

func newTestService(t *testing.T) (*ExportService, *invmemory.IngredientStore, *wastememory.WasteStore, uuid.UUID) {
	t.Helper()
	ingredients := invmemory.NewIngredientStore()
	recipes := recmemory.NewRecipeStore()
	runs := prodmemory.NewRunStore(recipes, ingredients)
	products := catmemory.NewProductStore()
	sales := catmemory.NewSaleStore()
	waste := wastememory.NewWasteStore()
	svc := NewExportService(ingredients, recipes, runs, products, sales, waste)
	return svc, ingredients, waste, uuid.New()
}

func TestBuildUnknownEntity(t *testing.T) {
	svc, _, _, shopID := newTestService(t)
	_, err := svc.Build(context.Background(), shopID, "customers")
	if !errors.Is(err, domain.ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestBuildIngredients(t *testing.T) {
	svc, ingredients, _, shopID := newTestService(t)
	ctx := context.Background()

	flour, err := invmodels.NewIngredient(shopID, "Flour T65", "dry", "g", 1500, 0.002, 500)
	if err != nil {
		t.Fatal(err)
	}
	if err := ingredients.Save(ctx, flour); err != nil {
		t.Fatal(err)
	}

	// another shop's ingredient must not leak into the export
	other, err := invmodels.NewIngredient(uuid.New(), "Salt", "dry", "g", 100, 0.001, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := ingredients.Save(ctx, other); err != nil {
		t.Fatal(err)
	}

	ds, err := svc.Build(ctx, shopID, EntityIngredients)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Entity != EntityIngredients {
		t.Fatalf("entity = %q", ds.Entity)
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(ds.Rows))
	}
	row := ds.Rows[0]
	if len(row) != len(ds.Headers) {
		t.Fatalf("row has %d cells, headers has %d", len(row), len(ds.Headers))
	}
	if row[0] != "Flour T65" {
		t.Fatalf("name cell = %q", row[0])
	}
	if row[2] != "1.50 kg" {
		t.Fatalf("quantity cell = %q", row[2])
	}
	if row[7] != "3" {
		t.Fatalf("stock value cell = %q", row[7])
	}
}

func TestBuildWasteDisplaysBaseQuantities(t *testing.T) {
	svc, _, waste, shopID := newTestService(t)
	ctx := context.Background()

	ingID := uuid.New()
	log, err := wastemodels.NewWasteLog(shopID, &ingID, nil, "Butter", "g", 2500, 20, wastemodels.WasteExpired)
	if err != nil {
		t.Fatal(err)
	}
	if err := waste.Save(ctx, log); err != nil {
		t.Fatal(err)
	}

	ds, err := svc.Build(ctx, shopID, EntityWaste)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(ds.Rows))
	}
	row := ds.Rows[0]
	if row[1] != "Butter" || row[2] != "2.5" || row[3] != "kg" {
		t.Fatalf("unexpected waste row: %v", row)
	}
	if row[4] != "expired" || row[5] != "20" {
		t.Fatalf("unexpected waste row: %v", row)
	}
}

func TestEncodeCSVRoundTrip(t *testing.T) {
	ds := &domain.Dataset{
		Entity:  EntityIngredients,
		Headers: []string{"Name", "Quantity"},
		Rows: [][]string{
			{"Flour, sifted", "500 g"},
			{"Eggs", "12 pcs"},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ds, FormatCSV); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0][0] != "Name" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][0] != "Flour, sifted" {
		t.Fatalf("comma in cell not preserved: %v", records[1])
	}
}

func TestEncodeJSONKeysRowsByHeader(t *testing.T) {
	ds := &domain.Dataset{
		Entity:  EntityProducts,
		Headers: []string{"Name", "Price"},
		Rows:    [][]string{{"Croissant", "1.2"}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ds, FormatJSON); err != nil {
		t.Fatal(err)
	}

	var records []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["Name"] != "Croissant" || records[0]["Price"] != "1.2" {
		t.Fatalf("unexpected record: %v", records[0])
	}
}

func TestEncodeXLSX(t *testing.T) {
	ds := &domain.Dataset{
		Entity:  EntitySales,
		Headers: []string{"Date", "Total"},
		Rows:    [][]string{{"2026-01-15", "42.5"}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ds, FormatXLSX); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows(EntitySales)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][1] != "42.5" {
		t.Fatalf("unexpected sheet contents: %v", rows)
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	ds := &domain.Dataset{Entity: EntityWaste}
	err := Encode(&bytes.Buffer{}, ds, "pdf")
	if !errors.Is(err, domain.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
