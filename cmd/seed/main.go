// Command seed loads a demo shop with Moroccan pastry ingredients, recipes,
// and products. It is idempotent: if any shop exists, it does nothing.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/config"
	"github.com/ghuser/fournil/pkg/database"
	"github.com/ghuser/fournil/pkg/logger"
	catmodels "github.com/ghuser/fournil/services/catalog/domain/models"
	catpg "github.com/ghuser/fournil/services/catalog/infrastructure/persistence/postgres"
	idmodels "github.com/ghuser/fournil/services/identity/domain/models"
	idpg "github.com/ghuser/fournil/services/identity/infrastructure/persistence/postgres"
	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invpg "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/postgres"
	recmodels "github.com/ghuser/fournil/services/recipe/domain/models"
	recpg "github.com/ghuser/fournil/services/recipe/infrastructure/persistence/postgres"
)

type ingredientRow struct {
	name       string
	category   string
	unit       string
	qty        float64
	cost       float64
	minStock   float64
	expiryDays int
}

type lineRow struct {
	ingredient string
	qty        float64
	unit       string
}

type recipeRow struct {
	name        string
	description string
	yield       float64
	minutes     int
	lines       []lineRow
}

type productRow struct {
	name     string
	category string
	recipe   string // empty when the product has no linked recipe
	price    float64
	vat      float64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := run(ctx, pool, log); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, pool *database.Database, log logger.Logger) error {
	var shopCount int
	if err := pool.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM shops`).Scan(&shopCount); err != nil {
		return err
	}
	if shopCount > 0 {
		log.Info("database already has data, skipping seed")
		return nil
	}

	shops := idpg.NewShopRepository(pool)
	users := idpg.NewUserRepository(pool)
	ingredients := invpg.NewIngredientRepository(pool)
	recipes := recpg.NewRecipeRepository(pool)
	products := catpg.NewProductRepository(pool)

	shop, err := idmodels.NewShop("Atelier Alami", "DH", 20.0)
	if err != nil {
		return err
	}
	if err := shops.Save(ctx, shop); err != nil {
		return err
	}

	owner, err := idmodels.NewUser(shop.ID, "demo@fournil.app", "Demo Owner", "demo1234", idmodels.RoleOwner)
	if err != nil {
		return err
	}
	if err := users.Save(ctx, owner); err != nil {
		return err
	}
	log.Info("created demo shop", "shop", shop.Name, "invite_code", shop.InviteCode, "owner", owner.Email)

	ingredientRows := []ingredientRow{
		{"All-Purpose Flour", "Flour & Grains", "g", 50000, 0.008, 5000, 90},
		{"Semolina (Fine)", "Flour & Grains", "g", 20000, 0.012, 3000, 120},
		{"Almond Flour", "Nuts & Dried Fruits", "g", 10000, 0.080, 2000, 60},
		{"Cornstarch", "Flour & Grains", "g", 5000, 0.015, 1000, 180},
		{"Butter (Unsalted)", "Dairy", "g", 10000, 0.060, 2000, 30},
		{"Fresh Cream", "Dairy", "mL", 5000, 0.040, 1000, 7},
		{"Milk", "Dairy", "mL", 10000, 0.008, 2000, 5},
		{"Cream Cheese", "Dairy", "g", 3000, 0.050, 500, 14},
		{"Granulated Sugar", "Sweeteners", "g", 30000, 0.006, 5000, 365},
		{"Powdered Sugar", "Sweeteners", "g", 10000, 0.008, 2000, 365},
		{"Honey", "Sweeteners", "mL", 5000, 0.040, 1000, 365},
		{"Orange Blossom Water", "Flavorings", "mL", 2000, 0.030, 500, 365},
		{"Whole Almonds", "Nuts & Dried Fruits", "g", 8000, 0.070, 2000, 90},
		{"Walnuts", "Nuts & Dried Fruits", "g", 5000, 0.080, 1000, 90},
		{"Dates (Medjool)", "Nuts & Dried Fruits", "g", 5000, 0.060, 1000, 60},
		{"Sesame Seeds", "Nuts & Dried Fruits", "g", 3000, 0.025, 500, 180},
		{"Dried Coconut", "Nuts & Dried Fruits", "g", 3000, 0.030, 500, 180},
		{"Vegetable Oil", "Fats & Oils", "mL", 5000, 0.010, 1000, 365},
		{"Olive Oil", "Fats & Oils", "mL", 3000, 0.030, 500, 365},
		{"Eggs", "Eggs", "pcs", 60, 1.500, 12, 21},
		{"Vanilla Extract", "Flavorings", "mL", 500, 0.100, 100, 365},
		{"Cinnamon (Ground)", "Flavorings", "g", 500, 0.040, 100, 365},
		{"Mastic Gum", "Flavorings", "g", 100, 0.500, 20, 365},
		{"Rose Water", "Flavorings", "mL", 1000, 0.025, 200, 365},
		{"Dark Chocolate (70%)", "Chocolate", "g", 5000, 0.050, 1000, 180},
		{"White Chocolate", "Chocolate", "g", 3000, 0.055, 500, 180},
		{"Fresh Oranges", "Fruits", "pcs", 30, 3.000, 10, 14},
		{"Lemons", "Fruits", "pcs", 20, 2.500, 5, 14},
	}

	ingredientIDs := make(map[string]uuid.UUID, len(ingredientRows))
	for _, row := range ingredientRows {
		ing, err := invmodels.NewIngredient(shop.ID, row.name, row.category, row.unit, row.qty, row.cost, row.minStock)
		if err != nil {
			return err
		}
		expiry := time.Now().UTC().AddDate(0, 0, row.expiryDays)
		ing.ExpiryDate = &expiry
		if err := ingredients.Save(ctx, ing); err != nil {
			return err
		}
		ingredientIDs[row.name] = ing.ID
	}

	recipeRows := []recipeRow{
		{
			"Cornes de Gazelle",
			"Crescent-shaped Moroccan almond pastry with orange blossom water. A classic celebration treat.",
			30, 90,
			[]lineRow{
				{"Almond Flour", 500, "g"},
				{"Powdered Sugar", 250, "g"},
				{"Orange Blossom Water", 30, "mL"},
				{"Butter (Unsalted)", 50, "g"},
				{"All-Purpose Flour", 300, "g"},
				{"Cinnamon (Ground)", 5, "g"},
				{"Mastic Gum", 2, "g"},
			},
		},
		{
			"Msemen",
			"Flaky, layered Moroccan flatbread. Perfect with honey and butter for breakfast.",
			12, 45,
			[]lineRow{
				{"All-Purpose Flour", 500, "g"},
				{"Semolina (Fine)", 200, "g"},
				{"Butter (Unsalted)", 100, "g"},
				{"Vegetable Oil", 50, "mL"},
				{"Granulated Sugar", 20, "g"},
			},
		},
		{
			"Croissants",
			"Classic French-style butter croissants with flaky layers.",
			12, 180,
			[]lineRow{
				{"All-Purpose Flour", 500, "g"},
				{"Butter (Unsalted)", 280, "g"},
				{"Granulated Sugar", 60, "g"},
				{"Milk", 150, "mL"},
				{"Eggs", 1, "pcs"},
			},
		},
		{
			"Chebakia",
			"Sesame-coated flower-shaped cookies soaked in honey. Traditional Ramadan treat.",
			40, 120,
			[]lineRow{
				{"All-Purpose Flour", 500, "g"},
				{"Sesame Seeds", 100, "g"},
				{"Whole Almonds", 100, "g"},
				{"Honey", 300, "mL"},
				{"Orange Blossom Water", 40, "mL"},
				{"Butter (Unsalted)", 50, "g"},
				{"Vegetable Oil", 500, "mL"},
				{"Cinnamon (Ground)", 10, "g"},
				{"Eggs", 2, "pcs"},
			},
		},
		{
			"Briouats aux Amandes",
			"Crispy filo triangles stuffed with almond paste and soaked in honey.",
			24, 60,
			[]lineRow{
				{"Almond Flour", 400, "g"},
				{"Granulated Sugar", 150, "g"},
				{"Orange Blossom Water", 20, "mL"},
				{"Butter (Unsalted)", 100, "g"},
				{"Honey", 200, "mL"},
				{"Cinnamon (Ground)", 5, "g"},
			},
		},
		{
			"Ghriba Coco",
			"Soft, crinkled Moroccan coconut cookies with a melt-in-your-mouth texture.",
			30, 40,
			[]lineRow{
				{"Dried Coconut", 300, "g"},
				{"Granulated Sugar", 200, "g"},
				{"Eggs", 3, "pcs"},
				{"Powdered Sugar", 50, "g"},
				{"Vanilla Extract", 5, "mL"},
			},
		},
		{
			"Fondant au Chocolat",
			"Rich molten chocolate cake with a gooey center.",
			6, 30,
			[]lineRow{
				{"Dark Chocolate (70%)", 200, "g"},
				{"Butter (Unsalted)", 100, "g"},
				{"Eggs", 4, "pcs"},
				{"Granulated Sugar", 100, "g"},
				{"All-Purpose Flour", 50, "g"},
			},
		},
	}

	recipeIDs := make(map[string]uuid.UUID, len(recipeRows))
	for _, row := range recipeRows {
		rec, err := recmodels.NewRecipe(shop.ID, row.name, row.description, row.yield, "pcs")
		if err != nil {
			return err
		}
		rec.EstimatedTime = time.Duration(row.minutes) * time.Minute
		for _, l := range row.lines {
			if err := rec.AddLine(ingredientIDs[l.ingredient], l.qty, l.unit); err != nil {
				return err
			}
		}
		if err := recipes.Save(ctx, rec); err != nil {
			return err
		}
		recipeIDs[row.name] = rec.ID
	}

	productRows := []productRow{
		{"Cornes de Gazelle", "Pastries", "Cornes de Gazelle", 15.00, 20},
		{"Msemen (x3)", "Bread", "Msemen", 10.00, 20},
		{"Croissant", "Viennoiserie", "Croissants", 8.00, 20},
		{"Chebakia (250g box)", "Pastries", "Chebakia", 35.00, 20},
		{"Briouats aux Amandes (x6)", "Pastries", "Briouats aux Amandes", 25.00, 20},
		{"Ghriba Coco (x6)", "Cookies", "Ghriba Coco", 18.00, 20},
		{"Fondant au Chocolat", "Cakes", "Fondant au Chocolat", 22.00, 20},
		{"Assorted Pastry Box (500g)", "Pastries", "", 65.00, 20},
		{"Fresh Orange Juice", "Drinks", "", 12.00, 20},
		{"Mint Tea", "Drinks", "", 8.00, 20},
	}

	for _, row := range productRows {
		p, err := catmodels.NewProduct(shop.ID, row.name, row.category, row.price, row.vat)
		if err != nil {
			return err
		}
		if row.recipe != "" {
			id := recipeIDs[row.recipe]
			p.RecipeID = &id
		}
		if err := products.Save(ctx, p); err != nil {
			return err
		}
	}

	log.Info("seed data loaded",
		"ingredients", len(ingredientRows),
		"recipes", len(recipeRows),
		"products", len(productRows),
	)
	return nil
}
