package dto

import (
	"time"

	"github.com/gavelworks/auction-backend/internal/models"
)

type CreateAuctionRequest struct {
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type UpdateAuctionRequest struct {
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// AuctionSummary is an auction plus its lot count, the projection the
// dashboard lists render.
type AuctionSummary struct {
	models.Auction
	LotCount int64 `json:"lot_count"`
}
