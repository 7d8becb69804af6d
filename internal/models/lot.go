package models

import (
	"time"

	"github.com/google/uuid"
)

// Lot is a single item inside an auction. LotNumber values are dense and
// unique within one auction (1..N, no gaps). MinBid, TopBidID and TopBidderID
// are only ever written by the bid-placement transaction once bidding starts.
type Lot struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuctionID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lots_auction_number" json:"auction_id"`
	LotNumber   int        `gorm:"not null;uniqueIndex:idx_lots_auction_number" json:"lot_number"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:50;not null" json:"category"`
	MinBid      float64    `gorm:"not null" json:"min_bid"`
	TopBidID    *uuid.UUID `gorm:"type:uuid" json:"top_bid_id"`
	TopBidderID *uuid.UUID `gorm:"type:uuid" json:"top_bidder_id"`
	MainImgURL  *string    `gorm:"type:text" json:"main_img_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Auction Auction    `gorm:"foreignKey:AuctionID" json:"-"`
	Images  []LotImage `gorm:"foreignKey:LotID" json:"-"`
	Bids    []Bid      `gorm:"foreignKey:LotID" json:"-"`
}

// ClosesAt is the lot's effective closing time: lots within one auction close
// in sequence, each offset from the auction end by lotNumber times the
// stagger delay.
func (l *Lot) ClosesAt(auctionEndsAt time.Time, stagger time.Duration) time.Time {
	return auctionEndsAt.Add(time.Duration(l.LotNumber) * stagger)
}

// Categories a lot can be listed under.
var Categories = []string{
	"Art and Collectibles",
	"Antiques and Vintage Items",
	"Jewelry and Watches",
	"Electronics and Gadgets",
	"Automobiles and Vehicles",
	"Home and Garden",
	"Fashion and Accessories",
	"Sports and Fitness Equipment",
	"Toys and Games",
	"Fine Wines and Spirits",
}

// ValidCategory reports whether c is one of the fixed lot categories.
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}
