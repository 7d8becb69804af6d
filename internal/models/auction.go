package models

import (
	"time"

	"github.com/google/uuid"
)

// Image upload states for an auction's cover image.
const (
	UploadStatusNone       = "NONE"
	UploadStatusProcessing = "PROCESSING"
	UploadStatusSuccess    = "SUCCESS"
	UploadStatusFailed     = "FAILED"
)

// Auction is a scheduled sale owned by an admin user. StartsAt must never be
// after EndsAt, and StartsAt is frozen once it has passed.
type Auction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:50;not null" json:"title"`
	Location        string    `gorm:"size:100;not null" json:"location"`
	StartsAt        time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt          time.Time `gorm:"not null;index" json:"ends_at"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ImgURL          *string   `gorm:"type:text" json:"img_url"`
	ImgKey          *string   `gorm:"size:255" json:"-"`
	ImgUploadStatus string    `gorm:"size:20;default:'NONE'" json:"img_upload_status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	User User  `gorm:"foreignKey:UserID" json:"-"`
	Lots []Lot `gorm:"foreignKey:AuctionID" json:"-"`
}

// Auction lifecycle states derived from the stored window.
const (
	AuctionScheduled = "SCHEDULED"
	AuctionOpen      = "OPEN"
	AuctionClosed    = "CLOSED"
)

// State reports where the auction sits in its window at instant now.
func (a *Auction) State(now time.Time) string {
	switch {
	case now.Before(a.StartsAt):
		return AuctionScheduled
	case now.Before(a.EndsAt):
		return AuctionOpen
	default:
		return AuctionClosed
	}
}
