package services

import (
	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/models"
)

// OrderService is the order intake: it persists a guest's cart as an Order
// and fans the work out to the kitchen and bar through the task engine.
type OrderService struct {
	db    *gorm.DB
	tasks *TaskService
}

// NewOrderService creates an order service backed by the given store and
// task engine.
func NewOrderService(db *gorm.DB, tasks *TaskService) *OrderService {
	return &OrderService{db: db, tasks: tasks}
}

// Submit persists the guest's cart and creates at most one FOOD_ORDERED and
// one DRINK_ORDERED task, one per non-empty partition of the cart.
func (s *OrderService) Submit(guestID string, items []models.OrderItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Message: "An order needs at least one item."}
	}

	var price float64
	var quantity int
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Message: "Order item quantity must be positive."}
		}
		price += item.MenuItem.Price * float64(item.Quantity)
		quantity += item.Quantity
	}

	order := models.Order{
		OrderItems: items,
		Price:      round2(price),
		Quantity:   quantity,
		CreatorID:  guestID,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, &StoreError{Op: "create order", Err: err}
	}

	var foodItems, drinkItems []models.OrderItem
	for _, item := range items {
		if item.MenuItem.Type == models.MenuItemTypeFood {
			foodItems = append(foodItems, item)
		} else {
			drinkItems = append(drinkItems, item)
		}
	}

	if len(foodItems) > 0 {
		if _, err := s.tasks.CreateOrderTask(guestID, models.TaskFoodOrdered, foodItems); err != nil {
			return nil, err
		}
	}
	if len(drinkItems) > 0 {
		if _, err := s.tasks.CreateOrderTask(guestID, models.TaskDrinkOrdered, drinkItems); err != nil {
			return nil, err
		}
	}

	return &order, nil
}

// ListByCreator returns the guest's orders, oldest first.
func (s *OrderService) ListByCreator(guestID string) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.Where("creator_id = ?", guestID).Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, &StoreError{Op: "list orders", Err: err}
	}
	return orders, nil
}
