package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/units"
	catrepos "github.com/ghuser/fournil/services/catalog/domain/repositories"
	"github.com/ghuser/fournil/services/export/domain"
	invrepos "github.com/ghuser/fournil/services/inventory/domain/repositories"
	prodrepos "github.com/ghuser/fournil/services/production/domain/repositories"
	recrepos "github.com/ghuser/fournil/services/recipe/domain/repositories"
	wasterepos "github.com/ghuser/fournil/services/waste/domain/repositories"
)

// Entity names accepted by Build.
const (
	EntityIngredients = "ingredients"
	EntityRecipes     = "recipes"
	EntityRuns        = "production-runs"
	EntityProducts    = "products"
	EntitySales       = "sales"
	EntityWaste       = "waste"
)

// ExportService flattens each bounded context's data into datasets for
// download. Columns are spelled out per entity so spreadsheets stay stable
// as the models grow.
type ExportService struct {
	ingredients invrepos.IngredientRepository
	recipes     recrepos.RecipeRepository
	runs        prodrepos.RunRepository
	products    catrepos.ProductRepository
	sales       catrepos.SaleRepository
	waste       wasterepos.WasteRepository
}

func NewExportService(
	ingredients invrepos.IngredientRepository,
	recipes recrepos.RecipeRepository,
	runs prodrepos.RunRepository,
	products catrepos.ProductRepository,
	sales catrepos.SaleRepository,
	waste wasterepos.WasteRepository,
) *ExportService {
	return &ExportService{
		ingredients: ingredients,
		recipes:     recipes,
		runs:        runs,
		products:    products,
		sales:       sales,
		waste:       waste,
	}
}

// Build assembles the dataset for one entity.
func (s *ExportService) Build(ctx context.Context, shopID uuid.UUID, entity string) (*domain.Dataset, error) {
	switch entity {
	case EntityIngredients:
		return s.buildIngredients(ctx, shopID)
	case EntityRecipes:
		return s.buildRecipes(ctx, shopID)
	case EntityRuns:
		return s.buildRuns(ctx, shopID)
	case EntityProducts:
		return s.buildProducts(ctx, shopID)
	case EntitySales:
		return s.buildSales(ctx, shopID)
	case EntityWaste:
		return s.buildWaste(ctx, shopID)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, entity)
}

func (s *ExportService) buildIngredients(ctx context.Context, shopID uuid.UUID) (*domain.Dataset, error) {
	ings, err := s.ingredients.FindByShop(ctx, shopID, invrepos.Filter{})
	if err != nil {
		return nil, fmt.Errorf("export ingredients: %w", err)
	}

	ds := &domain.Dataset{
		Entity: EntityIngredients,
		Headers: []string{
			"Name", "Category", "Quantity On Hand", "Cost Per Unit", "Unit",
			"Min Stock Level", "Stock Status", "Stock Value", "Expiry Date", "Notes",
		},
	}
	for _, ing := range ings {
		expiry := ""
		if ing.ExpiryDate != nil {
			expiry = ing.ExpiryDate.Format("2006-01-02")
		}
		ds.Rows = append(ds.Rows, []string{
			ing.Name,
			ing.Category,
			ing.DisplayQuantity(),
			num(ing.CostPerBaseUnit),
			ing.BaseUnit,
			ing.DisplayMinStock(),
			string(ing.StockStatus()),
			num(ing.StockValue()),
			expiry,
			ing.Notes,
		})
	}
	return ds, nil
}

func (s *ExportService) buildRecipes(ctx context.Context, shopID uuid.UUID) (*domain.Dataset, error) {
	recs, err := s.recipes.FindByShop(ctx, shopID, recrepos.Filter{})
	if err != nil {
		return nil, fmt.Errorf("export recipes: %w", err)
	}

	ds := &domain.Dataset{
		Entity: EntityRecipes,
		Headers: []string{
			"Recipe", "Description", "Yield", "Yield Unit", "Estimated Minutes",
			"Active", "Ingredient", "Quantity", "Unit",
		},
	}
	// one row per recipe line so the sheet carries the full bill of materials
	for _, rec := range recs {
		base := []string{
			rec.Name,
			rec.Description,
			num(rec.YieldQuantity),
			rec.YieldUnit,
			strconv.Itoa(int(rec.EstimatedTime.Minutes())),
			strconv.FormatBool(rec.IsActive),
		}
		if len(rec.Lines) == 0 {
			ds.Rows = append(ds.Rows, append(base, "", "", ""))
			continue
		}
		for _, l := range rec.Lines {
			ds.Rows = append(ds.Rows, append(base,
				l.IngredientID.String(), num(l.Quantity), l.Unit))
		}
	}
	return ds, nil
}

func (s *ExportService) buildRuns(ctx context.Context, shopID uuid.UUID) (*domain.Dataset, error) {
	runs, err := s.runs.FindByShop(ctx, shopID, prodrepos.Filter{})
	if err != nil {
		return nil, fmt.Errorf("export production runs: %w", err)
	}

	ds := &domain.Dataset{
		Entity: EntityRuns,
		Headers: []string{
			"Recipe", "Quantity", "Status", "Planned Cost", "Actual Cost",
			"Scheduled For", "Completed At", "Notes", "Created At",
		},
	}
	for _, run := range runs {
		scheduled, completed := "", ""
		if run.ScheduledFor != nil {
			scheduled = run.ScheduledFor.Format("2006-01-02")
		}
		if run.CompletedAt != nil {
			completed = run.CompletedAt.Format(time.RFC3339)
		}
		ds.Rows = append(ds.Rows, []string{
			run.RecipeName,
			num(run.Quantity),
			string(run.Status),
			num(run.PlannedCost),
			num(run.ActualCost),
			scheduled,
			completed,
			run.Notes,
			run.CreatedAt.Format(time.RFC3339),
		})
	}
	return ds, nil
}

func (s *ExportService) buildProducts(ctx context.Context, shopID uuid.UUID) (*domain.Dataset, error) {
	ps, err := s.products.FindByShop(ctx, shopID, catrepos.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("export products: %w", err)
	}

	ds := &domain.Dataset{
		Entity: EntityProducts,
		Headers: []string{
			"Name", "Category", "Price", "VAT Rate", "Price With VAT", "Active", "Created At",
		},
	}
	for _, p := range ps {
		ds.Rows = append(ds.Rows, []string{
			p.Name,
			p.Category,
			num(p.Price),
			num(p.VATRate),
			num(p.PriceWithVAT()),
			strconv.FormatBool(p.IsActive),
			p.CreatedAt.Format(time.RFC3339),
		})
	}
	return ds, nil
}

func (s *ExportService) buildSales(ctx context.Context, shopID uuid.UUID) (*domain.Dataset, error) {
	// the sales sheet covers the trailing 90 days
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -90)
	sales, err := s.sales.FindByShop(ctx, shopID, from, to)
	if err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}

	ds := &domain.Dataset{
		Entity: EntitySales,
		Headers: []string{
			"Date", "Product", "Unit Price", "Quantity", "VAT Rate", "Line Total",
			"Sale Subtotal", "Sale VAT", "Sale Total", "Payment Method", "Customer",
		},
	}
	for _, sale := range sales {
		for _, it := range sale.Items {
			ds.Rows = append(ds.Rows, []string{
				sale.CreatedAt.Format(time.RFC3339),
				it.ProductName,
				num(it.UnitPrice),
				strconv.Itoa(it.Quantity),
				num(it.VATRate),
				num(it.LineTotal),
				num(sale.Subtotal),
				num(sale.VATAmount),
				num(sale.Total),
				sale.PaymentMethod,
				sale.CustomerName,
			})
		}
	}
	return ds, nil
}

func (s *ExportService) buildWaste(ctx context.Context, shopID uuid.UUID) (*domain.Dataset, error) {
	logs, err := s.waste.FindByShop(ctx, shopID, wasterepos.Filter{})
	if err != nil {
		return nil, fmt.Errorf("export waste: %w", err)
	}

	ds := &domain.Dataset{
		Entity: EntityWaste,
		Headers: []string{
			"Date", "Item", "Quantity", "Unit", "Category", "Cost", "Notes",
		},
	}
	for _, w := range logs {
		qty, unit := units.FromBase(w.Quantity, w.Unit)
		ds.Rows = append(ds.Rows, []string{
			w.LoggedAt.Format(time.RFC3339),
			w.ItemName,
			num(qty),
			unit,
			string(w.Category),
			num(w.Cost),
			w.Notes,
		})
	}
	return ds, nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
