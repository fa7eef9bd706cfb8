package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
)

// Role represents the access level of a user
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManagement Role = "management"
	RoleEmployee   Role = "employee"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManagement, RoleEmployee:
		return true
	}
	return false
}

// IsManagement reports whether the role carries management-level access
func (r Role) IsManagement() bool {
	return r == RoleAdmin || r == RoleManagement
}

// User represents a user in the system
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Name         string     `json:"name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex:idx_user_email;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"not null;default:'employee';index:idx_user_role"`
	Department   string     `json:"department" gorm:"index:idx_user_department"`
	Position     string     `json:"position"`
	IsActive     bool       `json:"is_active" gorm:"default:true;index:idx_user_active"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index:idx_user_created"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new user record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return u.Validate()
}

// BeforeUpdate is called before updating a user record
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// Validate checks if the user data is valid
func (u *User) Validate() error {
	if u.Name == "" || u.Email == "" {
		return ErrInvalidInput
	}
	if !u.Role.IsValid() {
		return ErrInvalidInput
	}
	return nil
}

// CreateUserInput holds the fields for registering a user
type CreateUserInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// UpdateUserInput holds the mutable fields of a user
type UpdateUserInput struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	Role       *Role   `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// UserFilter defines filtering options for listing users
type UserFilter struct {
	Role       *Role
	Department *string
	IsActive   *bool
	Page       int
	PageSize   int
}
