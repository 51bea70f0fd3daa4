package models

import "time"

// Menu item types. Order intake partitions carts by this value.
const (
	MenuItemTypeFood  = "food"
	MenuItemTypeDrink = "drink"
)

// Menu item category tags.
const (
	CategoryAppetizer    = "appetizer"
	CategoryEntree       = "entree"
	CategoryDessert      = "dessert"
	CategoryVegan        = "vegan"
	CategoryVegetarian   = "vegetarian"
	CategorySeafood      = "seafood"
	CategoryPasta        = "pasta"
	CategoryMeat         = "meat"
	CategoryAlcoholic    = "alcoholic"
	CategoryNonAlcoholic = "non-alcoholic"
)

// MenuItem represents a dish or drink on the menu
type MenuItem struct {
	Entity
	Name        string            `gorm:"not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	Price       float64           `gorm:"not null;check:price >= 0" json:"price"`
	Type        string            `gorm:"not null;index" json:"type"` // "food" or "drink"
	Categories  []string          `gorm:"serializer:json" json:"categories"`
	ImageS3Key  *string           `json:"-"`
	ImageURL    *string           `gorm:"-" json:"imageUrl,omitempty"` // computed, presigned
	Comments    []MenuItemComment `gorm:"serializer:json" json:"comments"`
	Ratings     []MenuItemRating  `gorm:"serializer:json" json:"ratings"`
}

// TableName specifies the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// MenuItemComment is a guest comment on a menu item. Stored inline on the
// item as a JSON list, ordered by insertion.
type MenuItemComment struct {
	ID         string    `json:"id"`
	MenuItemID string    `json:"menuItemId"`
	Content    string    `json:"content"`
	CreatorID  string    `json:"creatorId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MenuItemRating is a guest rating on a menu item, at most one per creator.
// Re-rating replaces the prior value instead of appending.
type MenuItemRating struct {
	ID         string    `json:"id"`
	MenuItemID string    `json:"menuItemId"`
	Value      int       `json:"value"`
	CreatorID  string    `json:"creatorId"`
	CreatedAt  time.Time `json:"createdAt"`
}
