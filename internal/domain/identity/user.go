package identity

import (
	"net/mail"
	"strings"

	"github.com/koifarm/backend/internal/domain/shared"
)

// Role markers stored on users
const (
	RoleCustomer = "1"
	RoleStaff    = "2"
	RoleManager  = "3"
)

// User is a marketplace account. Orders are shipped to its Address.
type User struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(200)"`
	Address      string `gorm:"type:varchar(200)"`
	Phone        string `gorm:"type:varchar(20)"`
	RoleID       string `gorm:"type:varchar(10);not null;default:'1';index"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with the given role
func NewUser(name, email, passwordHash, roleID string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewValidationError("invalid email address: %s", email)
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		PasswordHash:      passwordHash,
		RoleID:            roleID,
	}, nil
}

// NewStaff creates a staff account
func NewStaff(name, email, passwordHash string) (*User, error) {
	return NewUser(name, email, passwordHash, RoleStaff)
}

// IsStaff reports whether the user carries the staff role marker
func (u *User) IsStaff() bool {
	return u.RoleID == RoleStaff
}

// Rename changes the display name
func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name cannot be empty")
	}
	u.Name = name
	u.Touch()
	return nil
}

// SetContact sets the shipping address and phone
func (u *User) SetContact(address, phone string) error {
	if len(address) > 200 {
		return shared.NewValidationError("address cannot exceed 200 characters")
	}
	u.Address = strings.TrimSpace(address)
	u.Phone = strings.TrimSpace(phone)
	u.Touch()
	return nil
}
