package models

// Bill is the guest's payable summary for a dining session. Food and drinks
// hold one menu-item entry per ordered unit, so an item with quantity 3
// appears three times. Taxes are 19% of the total, rounded to cents.
type Bill struct {
	Entity
	Food    []MenuItem `gorm:"serializer:json" json:"food"`
	Drinks  []MenuItem `gorm:"serializer:json" json:"drinks"`
	Total   float64    `gorm:"not null" json:"total"`
	Taxes   float64    `gorm:"not null" json:"taxes"`
	Tip     float64    `json:"tip"`
	PayerID string     `gorm:"index" json:"payerId"`
	Paid    bool       `gorm:"not null" json:"paid"`
}

// TableName specifies the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}
