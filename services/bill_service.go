package services

import (
	"math"

	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/models"
)

// TaxRate is the tax share included in a bill's total.
const TaxRate = 0.19

// BillService assembles a guest's orders into a priced bill and records
// payment capture. No money moves here; a settled bill is a staff-visible
// record that payment was requested and agreed.
type BillService struct {
	db *gorm.DB
}

// NewBillService creates a bill service backed by the given store.
func NewBillService(db *gorm.DB) *BillService {
	return &BillService{db: db}
}

// ComputeDraft derives the guest's current bill from their orders without
// persisting anything. Each ordered unit contributes one line entry, so an
// item with quantity 3 appears three times.
func (s *BillService) ComputeDraft(guestID string) (*models.Bill, error) {
	orders := []models.Order{}
	if err := s.db.Where("creator_id = ?", guestID).Find(&orders).Error; err != nil {
		return nil, &StoreError{Op: "list orders", Err: err}
	}

	bill := models.Bill{
		Food:    []models.MenuItem{},
		Drinks:  []models.MenuItem{},
		PayerID: guestID,
	}
	var total float64
	for _, order := range orders {
		for _, item := range order.OrderItems {
			for i := 0; i < item.Quantity; i++ {
				if item.MenuItem.Type == models.MenuItemTypeFood {
					bill.Food = append(bill.Food, item.MenuItem)
				} else {
					bill.Drinks = append(bill.Drinks, item.MenuItem)
				}
				total += item.MenuItem.Price
			}
		}
	}
	bill.Total = round2(total)
	bill.Taxes = round2(bill.Total * TaxRate)
	return &bill, nil
}

// Settle recomputes the guest's draft, applies the chosen tip and persists
// the bill as paid. Settling twice in one dining session is a conflict.
func (s *BillService) Settle(guestID string, tip float64) (*models.Bill, error) {
	var count int64
	if err := s.db.Model(&models.Bill{}).Where("payer_id = ? AND paid = ?", guestID, true).Count(&count).Error; err != nil {
		return nil, &StoreError{Op: "find bill", Err: err}
	}
	if count > 0 {
		return nil, &ConflictError{Message: "You already settled your bill."}
	}

	bill, err := s.ComputeDraft(guestID)
	if err != nil {
		return nil, err
	}
	bill.Tip = round2(tip)
	bill.Paid = true

	if err := s.db.Create(bill).Error; err != nil {
		return nil, &StoreError{Op: "create bill", Err: err}
	}
	return bill, nil
}

// FindByPayer returns the guest's settled bill.
func (s *BillService) FindByPayer(guestID string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.Where("payer_id = ?", guestID).First(&bill).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "Bill"}
		}
		return nil, &StoreError{Op: "find bill", Err: err}
	}
	return &bill, nil
}

// FindByID looks a bill up by its record id.
func (s *BillService) FindByID(id string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.Where("id = ?", id).First(&bill).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "Bill"}
		}
		return nil, &StoreError{Op: "find bill", Err: err}
	}
	return &bill, nil
}

// ListAll returns every bill on record.
func (s *BillService) ListAll() ([]models.Bill, error) {
	bills := []models.Bill{}
	if err := s.db.Order("created_at ASC").Find(&bills).Error; err != nil {
		return nil, &StoreError{Op: "list bills", Err: err}
	}
	return bills, nil
}

// TotalWithTip returns the amount due including the tip.
func TotalWithTip(bill *models.Bill) float64 {
	return round2(bill.Total + bill.Tip)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
