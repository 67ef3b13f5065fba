package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/bistro-backend/pkg/config"
	"github.com/angelmondragon/bistro-backend/pkg/db"
	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
	"github.com/angelmondragon/bistro-backend/pkg/security"
)

type seedItem struct {
	name        string
	description string
	price       int64
	category    string
	veg         bool
	featured    bool
	rating      float64
}

var seedCategories = []models.Category{
	{Name: "Pizza", Description: "Italian pizzas with fresh toppings", SortOrder: 1},
	{Name: "Biryani", Description: "Aromatic rice dishes with tender meat and spices", SortOrder: 2},
	{Name: "Main Course", Description: "Hearty main course dishes", SortOrder: 3},
	{Name: "Burgers", Description: "Burgers with premium ingredients", SortOrder: 4},
	{Name: "Chinese", Description: "Wok classics", SortOrder: 5},
	{Name: "Desserts", Description: "Sweet treats to end your meal", SortOrder: 6},
	{Name: "Beverages", Description: "Refreshing drinks", SortOrder: 7},
}

var seedItems = []seedItem{
	{"Margherita Pizza", "Fresh mozzarella, tomatoes and basil", 299, "Pizza", true, true, 4.5},
	{"Pepperoni Pizza", "Spicy pepperoni and mozzarella", 349, "Pizza", false, true, 4.7},
	{"BBQ Chicken Pizza", "Smoky BBQ sauce with grilled chicken and onions", 399, "Pizza", false, false, 4.6},
	{"Chicken Biryani", "Basmati rice with tender chicken and spices", 349, "Biryani", false, true, 4.8},
	{"Mutton Biryani", "Slow-cooked mutton with fragrant rice", 449, "Biryani", false, true, 4.9},
	{"Vegetable Biryani", "Mixed vegetables with basmati rice", 249, "Biryani", true, false, 4.3},
	{"Butter Chicken", "Chicken in a creamy tomato gravy", 399, "Main Course", false, true, 4.8},
	{"Paneer Tikka Masala", "Grilled paneer in a spiced masala", 329, "Main Course", true, false, 4.5},
	{"Classic Beef Burger", "Beef patty, cheddar, lettuce and house sauce", 299, "Burgers", false, false, 4.4},
	{"Crispy Chicken Burger", "Fried chicken fillet with slaw", 279, "Burgers", false, false, 4.3},
	{"Chicken Chow Mein", "Stir-fried noodles with vegetables", 259, "Chinese", false, false, 4.2},
	{"Gulab Jamun", "Milk dumplings in rose syrup", 129, "Desserts", true, false, 4.6},
	{"Chocolate Brownie", "Warm brownie with vanilla ice cream", 179, "Desserts", true, false, 4.5},
	{"Mango Lassi", "Chilled yogurt drink with mango", 119, "Beverages", true, false, 4.7},
	{"Fresh Lime Soda", "Sweet or salted", 89, "Beverages", true, false, 4.1},
}

func main() {
	adminEmail := flag.String("admin-email", "", "create an admin account with this email when it does not exist")
	adminName := flag.String("admin-name", "Administrator", "display name of the seeded admin")
	skipMenu := flag.Bool("skip-menu", false, "only seed the admin account")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if !*skipMenu {
		created, err := seedMenu(ctx, dbClient)
		if err != nil {
			logg.Error(ctx, "failed to seed menu", err)
			os.Exit(1)
		}
		logg.Info(logg.WithField(ctx, "created", created), "menu seeded")
	}

	if email := strings.ToLower(strings.TrimSpace(*adminEmail)); email != "" {
		password, err := seedAdmin(ctx, dbClient, security.NewHasher(cfg.Password), email, *adminName)
		if err != nil {
			logg.Error(ctx, "failed to seed admin", err)
			os.Exit(1)
		}
		if password == "" {
			logg.Info(logg.WithField(ctx, "email", email), "admin already exists")
		} else {
			fmt.Printf("admin %s created with temporary password %s\n", email, password)
		}
	}
}

// seedMenu inserts missing categories and items by name and leaves existing rows untouched.
func seedMenu(ctx context.Context, client *db.Client) (int, error) {
	created := 0
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		for _, c := range seedCategories {
			c.IsActive = true
			res := tx.Where(models.Category{Name: c.Name}).FirstOrCreate(&c)
			if res.Error != nil {
				return fmt.Errorf("category %s: %w", c.Name, res.Error)
			}
			created += int(res.RowsAffected)
		}
		for i, it := range seedItems {
			rating := it.rating
			item := models.MenuItem{
				Name:        it.name,
				Description: it.description,
				Price:       decimal.NewFromInt(it.price),
				Category:    it.category,
				IsVeg:       it.veg,
				IsAvailable: true,
				IsFeatured:  it.featured,
				Rating:      &rating,
				SortOrder:   i,
			}
			res := tx.Where("name = ? AND category = ?", it.name, it.category).FirstOrCreate(&item)
			if res.Error != nil {
				return fmt.Errorf("menu item %s: %w", it.name, res.Error)
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	return created, err
}

// seedAdmin returns the generated password, or "" when the account already exists.
func seedAdmin(ctx context.Context, client *db.Client, hasher *security.Hasher, email, name string) (string, error) {
	var count int64
	if err := client.DB().WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}
	password, err := security.GenerateTempPassword(16)
	if err != nil {
		return "", err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	if err := client.DB().WithContext(ctx).Create(&user).Error; err != nil {
		return "", err
	}
	return password, nil
}
