package dto

import (
	"time"

	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/google/uuid"
)

type PlaceBidRequest struct {
	LotID     uuid.UUID `json:"lot_id"`
	BidAmount float64   `json:"bid_amount"`
}

// BidWithLot is one ledger entry joined with the lot and auction fields the
// bids feed renders.
type BidWithLot struct {
	ID           uuid.UUID  `json:"id"`
	Amount       float64    `json:"amount"`
	CreatedAt    time.Time  `json:"created_at"`
	LotID        uuid.UUID  `json:"lot_id"`
	LotNumber    int        `json:"lot_number"`
	LotTitle     string     `json:"lot_title"`
	MinBid       float64    `json:"min_bid"`
	TopBidID     *uuid.UUID `json:"top_bid_id"`
	TopBidderID  *uuid.UUID `json:"top_bidder_id"`
	AuctionTitle string     `json:"auction_title"`
	EndsAt       time.Time  `json:"ends_at"`
}

// UserBids splits the caller's bids into leading and trailing, with the first
// name of whoever currently leads each trailed lot.
type UserBids struct {
	LeadingBids  []BidWithLot `json:"leading_bids"`
	TrailingBids []BidWithLot `json:"trailing_bids"`
	LeaderNames  []string     `json:"leader_names"`
}

// BidderBid is a leading bid with its bidder's contact fields, for the
// seller's results view.
type BidderBid struct {
	ID        uuid.UUID `json:"id"`
	Amount    float64   `json:"amount"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// LotWithTopBids is a lot that has at least one bid, with its best bids.
type LotWithTopBids struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"title"`
	LotNumber  int         `json:"lot_number"`
	MainImgURL *string     `json:"main_img_url"`
	BidCount   int64       `json:"bid_count"`
	TopBids    []BidderBid `json:"top_bids"`
}

// LeaderState is the read projection of a lot's bidding state.
type LeaderState struct {
	Lot      models.Lot `json:"lot"`
	BidCount int64      `json:"bid_count"`
}
