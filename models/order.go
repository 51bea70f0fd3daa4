package models

// OrderItem is one cart line. The menu item is embedded as a snapshot, not a
// live reference, so name and price are fixed as of order time and immune to
// later menu edits.
type OrderItem struct {
	MenuItem     MenuItem `json:"menuItem"`
	Quantity     int      `json:"quantity"`
	Instructions string   `json:"instructions"`
}

// Order represents a guest's submitted cart. Orders are immutable after
// creation; there is no edit or cancel operation.
type Order struct {
	Entity
	OrderItems []OrderItem `gorm:"serializer:json;not null" json:"orderItems"`
	Price      float64     `gorm:"not null" json:"price"`
	Quantity   int         `gorm:"not null" json:"quantity"`
	CreatorID  string      `gorm:"not null;index" json:"creatorId"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
