package models

// TaskType identifies the kind of staff work a task represents. The wire
// values match the original platform's task vocabulary.
type TaskType string

const (
	TaskFoodOrdered          TaskType = "food-ordered"
	TaskDrinkOrdered         TaskType = "drink-ordered"
	TaskFoodPrepared         TaskType = "food-prepared"
	TaskDrinkPrepared        TaskType = "drink-prepared"
	TaskPaymentRequestedCash TaskType = "payment-requested"
	TaskPaymentRequestedCard TaskType = "payment-requested-card"
	TaskTalkRequested        TaskType = "talk-requested"
)

// TaskStatus is the three-state, strictly forward-moving task lifecycle.
type TaskStatus string

const (
	TaskStatusOpen    TaskStatus = "open"
	TaskStatusClaimed TaskStatus = "claimed"
	TaskStatusDone    TaskStatus = "done"
)

// PaymentData is the typed payload attached to payment-request tasks.
type PaymentData struct {
	Total float64 `json:"total"`
}

// Task is a unit of staff work derived from a guest action, tracked through
// open -> claimed -> done. Relay tasks (ordered) spawn a prepared successor
// for the waiter when the kitchen or bar finishes; simple tasks are handled
// start-to-finish by one role.
type Task struct {
	Entity
	SimpleID    string       `gorm:"size:5;index" json:"simpleId"` // short code shown to staff, not guaranteed unique
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"not null" json:"description"`
	Type        TaskType     `gorm:"not null;index" json:"type"`
	Status      TaskStatus   `gorm:"not null;index;default:'open'" json:"status"`
	Order       []OrderItem  `gorm:"serializer:json" json:"order,omitempty"`
	ClaimerID   *string      `json:"claimerId,omitempty"`
	Data        *PaymentData `gorm:"serializer:json" json:"data,omitempty"`
	GuestID     string       `gorm:"not null;index" json:"guestId"`
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// IsRelay reports whether completing a task of this type spawns a successor
// task for a different role.
func (t TaskType) IsRelay() bool {
	return t == TaskFoodOrdered || t == TaskDrinkOrdered
}

// IsSimple reports whether a task of this type is terminal, with no
// follow-up task after it is done.
func (t TaskType) IsSimple() bool {
	switch t {
	case TaskFoodPrepared, TaskDrinkPrepared, TaskPaymentRequestedCash, TaskPaymentRequestedCard, TaskTalkRequested:
		return true
	}
	return false
}
