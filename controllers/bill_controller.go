package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
	"github.com/taskman-app/taskman-api/services"
)

// BillController exposes bill assembly over HTTP.
type BillController struct {
	bills *services.BillService
}

// NewBillController creates a bill controller using the given bill service.
func NewBillController(bills *services.BillService) *BillController {
	return &BillController{bills: bills}
}

// SettleBillRequest represents the request body for settling a bill
type SettleBillRequest struct {
	Tip float64 `json:"tip" binding:"gte=0"`
}

// GetDraftBill handles GET /api/v1/bills/draft - returns the caller's
// current, unpersisted bill derived from their orders
func (bc *BillController) GetDraftBill(c *gin.Context) {
	guestID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	bill, err := bc.bills.ComputeDraft(guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bill,
	})
}

// SettleBill handles POST /api/v1/bills - the guest finalizes payment
func (bc *BillController) SettleBill(c *gin.Context) {
	guestID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	role, err := middleware.GetUserRole(c)
	if err != nil || role != models.RoleGuest {
		respondErrorEnvelope(c, http.StatusForbidden, "FORBIDDEN", "Only guests can settle a bill")
		return
	}

	var req SettleBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	bill, err := bc.bills.Settle(guestID, req.Tip)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    bill,
	})
}

// GetMyBill handles GET /api/v1/bills/my-bill - returns the caller's settled
// bill
func (bc *BillController) GetMyBill(c *gin.Context) {
	guestID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	bill, err := bc.bills.FindByPayer(guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bill,
	})
}

// GetBill handles GET /api/v1/bills/:id - returns a bill by id
func (bc *BillController) GetBill(c *gin.Context) {
	bill, err := bc.bills.FindByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bill,
	})
}

// ListBills handles GET /api/v1/bills - lists all bills on record
func (bc *BillController) ListBills(c *gin.Context) {
	bills, err := bc.bills.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"results": bills},
	})
}
