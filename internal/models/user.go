package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User holds identity plus denormalized Stripe subscription state.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FirstName string         `gorm:"size:100" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StripeCustomerID       *string    `gorm:"size:255;index" json:"-"`
	StripeSubscriptionID   *string    `gorm:"size:255;index" json:"-"`
	StripePriceID          *string    `gorm:"size:255" json:"-"`
	StripeCurrentPeriodEnd *time.Time `json:"-"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// IsSubscribed reports whether the user has a paid period that has not lapsed.
// A one-day grace window matches the billing provider's retry behavior.
func (u *User) IsSubscribed() bool {
	return u.StripePriceID != nil &&
		u.StripeCurrentPeriodEnd != nil &&
		u.StripeCurrentPeriodEnd.Add(24*time.Hour).After(time.Now())
}
