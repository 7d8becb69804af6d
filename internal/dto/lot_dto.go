package dto

import (
	"time"

	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/google/uuid"
)

type CreateLotRequest struct {
	AuctionID   uuid.UUID `json:"auction_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	MinBid      float64   `json:"min_bid"`
}

type UpdateLotRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	MinBid      float64 `json:"min_bid"`
}

// LotSummary is a lot plus its bid count.
type LotSummary struct {
	models.Lot
	BidCount int64 `json:"bid_count"`
}

// LotsPage is a cursor-paged slice of an auction's lots.
type LotsPage struct {
	Lots       []LotSummary `json:"lots"`
	NextCursor *uuid.UUID   `json:"next_cursor"`
}

// LotDetail is the public lot projection: the lot, its gallery, the bid count
// and enough of the auction window to compute the effective close client-side.
type LotDetail struct {
	Lot           models.Lot        `json:"lot"`
	Images        []models.LotImage `json:"images"`
	BidCount      int64             `json:"bid_count"`
	AuctionID     uuid.UUID         `json:"auction_id"`
	AuctionUserID uuid.UUID         `json:"auction_user_id"`
	EndsAt        time.Time         `json:"ends_at"`
	ClosesAt      time.Time         `json:"closes_at"`
}

// ImageRef identifies one stored lot image by row id and URL.
type ImageRef struct {
	ID     uuid.UUID `json:"id"`
	ImgURL string    `json:"img_url"`
}

type RemoveImagesRequest struct {
	Images []ImageRef `json:"images"`
}

// UploadRequest describes one file the client wants a presigned PUT URL for.
type UploadRequest struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
}

type LotUploadURLsRequest struct {
	Files []UploadRequest `json:"files"`
}

type UploadURLResponse struct {
	URL string `json:"url"`
}

type UploadURLsResponse struct {
	URLs []string `json:"urls"`
}
