package models

// User roles. Guests place orders and request service; chef, barkeeper and
// waiter work the task queue; admin manages the menu.
const (
	RoleAdmin     = "admin"
	RoleGuest     = "guest"
	RoleWaiter    = "waiter"
	RoleChef      = "chef"
	RoleBarkeeper = "barkeeper"
)

// Name holds a user's first and last name.
type Name struct {
	First string `gorm:"column:first" json:"first"`
	Last  string `gorm:"column:last" json:"last"`
}

// User represents an account in the system (guest or staff)
type User struct {
	Entity
	Email       string  `gorm:"uniqueIndex;not null" json:"email"`
	Password    string  `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Name        Name    `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Role        string  `gorm:"not null;default:'guest'" json:"role"`
	AvatarS3Key *string `json:"-"`
	AvatarURL   *string `gorm:"-" json:"avatarUrl,omitempty"` // computed, presigned
	Table       *int    `json:"table,omitempty"`              // assigned 1-30 for guests at sign-up
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the role works the task queue.
func IsStaff(role string) bool {
	switch role {
	case RoleWaiter, RoleChef, RoleBarkeeper:
		return true
	}
	return false
}
