package config

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/models"
)

// Seed inserts the staff accounts and a starter menu. It is idempotent:
// nothing is written when users or menu items already exist.
func Seed(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	return seedMenuItems(db)
}

func seedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	staff := []struct {
		email string
		first string
		last  string
		role  string
	}{
		{"admin@restaurant.example", "Alex", "Admin", models.RoleAdmin},
		{"waiter@restaurant.example", "Willa", "Weber", models.RoleWaiter},
		{"chef@restaurant.example", "Carlo", "Keller", models.RoleChef},
		{"barkeeper@restaurant.example", "Bruno", "Brandt", models.RoleBarkeeper},
	}

	for _, s := range staff {
		hash, err := bcrypt.GenerateFromPassword([]byte("change-me"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{
			Email:    s.email,
			Password: string(hash),
			Name:     models.Name{First: s.first, Last: s.last},
			Role:     s.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d staff users", len(staff))
	return nil
}

func seedMenuItems(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.MenuItem{
		{
			Name:        "Bruschetta",
			Description: "Grilled bread with tomatoes, garlic and basil",
			Price:       6.50,
			Type:        models.MenuItemTypeFood,
			Categories:  []string{models.CategoryAppetizer, models.CategoryVegetarian},
		},
		{
			Name:        "Spaghetti Carbonara",
			Description: "Guanciale, pecorino, egg yolk",
			Price:       13.90,
			Type:        models.MenuItemTypeFood,
			Categories:  []string{models.CategoryEntree, models.CategoryPasta},
		},
		{
			Name:        "Grilled Salmon",
			Description: "Salmon fillet with seasonal vegetables",
			Price:       18.50,
			Type:        models.MenuItemTypeFood,
			Categories:  []string{models.CategoryEntree, models.CategorySeafood},
		},
		{
			Name:        "Tiramisu",
			Description: "Mascarpone cream, espresso-soaked ladyfingers",
			Price:       7.20,
			Type:        models.MenuItemTypeFood,
			Categories:  []string{models.CategoryDessert, models.CategoryVegetarian},
		},
		{
			Name:        "House Red Wine",
			Description: "Glass of the house Montepulciano",
			Price:       5.80,
			Type:        models.MenuItemTypeDrink,
			Categories:  []string{models.CategoryAlcoholic},
		},
		{
			Name:        "Elderflower Spritz",
			Description: "Sparkling water, elderflower syrup, lime",
			Price:       4.50,
			Type:        models.MenuItemTypeDrink,
			Categories:  []string{models.CategoryNonAlcoholic},
		},
	}

	for i := range items {
		items[i].Comments = []models.MenuItemComment{}
		items[i].Ratings = []models.MenuItemRating{}
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d menu items", len(items))
	return nil
}
