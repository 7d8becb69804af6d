package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gavelworks/auction-backend/internal/cache"
	"github.com/gavelworks/auction-backend/internal/config"
	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOwnLot          = errors.New("sellers cannot bid on their own lots")
	ErrAlreadyLeading  = errors.New("you already hold the leading bid on this lot")
	ErrLotClosed       = errors.New("the lot has closed")
	ErrBidBelowLeader  = errors.New("bid is too low versus the current leading bid")
	ErrBidTooLow       = errors.New("bid is below the lot's minimum bid")
	ErrBidTooHigh      = errors.New("bid exceeds the maximum allowed jump")
	ErrBidConflict     = errors.New("another bid landed first, please retry")
	ErrBidderNotFound  = errors.New("bidder is not a known user")
	ErrLotLeaderBroken = errors.New("lot references a missing leading bid")
)

// bid placement retries the validate-then-swap cycle this many times before
// reporting a conflict to the caller.
const placeBidAttempts = 3

// BidService is the bid ledger and top-bid tracker. Every accepted bid
// appends one ledger row and atomically moves the lot's leader pointer and
// minimum-next-bid floor.
type BidService struct {
	db    *gorm.DB
	cfg   *config.Config
	pages *cache.PageCache
}

func NewBidService(db *gorm.DB, cfg *config.Config, pages *cache.PageCache) *BidService {
	return &BidService{db: db, cfg: cfg, pages: pages}
}

// PlaceBid runs the full precondition chain in order, first failure wins:
// lot exists, caller is not the seller, the lot's staggered close has not
// passed, caller is not already leading, the amount clears the leader plus
// the minimum increment, the amount is within [minBid, minBid+maxJump].
// On success the ledger row and the lot's leader state commit together; the
// leader pointer is swapped with a compare-and-set against the value read
// during validation, so two concurrent bids can never both become leader.
func (s *BidService) PlaceBid(ctx context.Context, userID, lotID uuid.UUID, amount float64) (*models.Bid, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrBidderNotFound
	}

	for attempt := 0; attempt < placeBidAttempts; attempt++ {
		bid, err := s.tryPlaceBid(ctx, userID, lotID, amount)
		if errors.Is(err, ErrBidConflict) {
			continue
		}
		return bid, err
	}
	return nil, ErrBidConflict
}

func (s *BidService) tryPlaceBid(ctx context.Context, userID, lotID uuid.UUID, amount float64) (*models.Bid, error) {
	var lot models.Lot
	if err := s.db.Preload("Auction").First(&lot, "id = ?", lotID).Error; err != nil {
		return nil, ErrNotFound
	}

	if lot.Auction.UserID == userID {
		return nil, ErrOwnLot
	}

	if !time.Now().Before(lot.ClosesAt(lot.Auction.EndsAt, s.cfg.LotStaggerDelay)) {
		return nil, ErrLotClosed
	}

	if lot.TopBidID != nil {
		var topBid models.Bid
		if err := s.db.First(&topBid, "id = ?", *lot.TopBidID).Error; err != nil {
			return nil, ErrLotLeaderBroken
		}
		if topBid.UserID == userID {
			return nil, ErrAlreadyLeading
		}
		if amount < topBid.Amount+s.cfg.MinBidIncrement {
			return nil, ErrBidBelowLeader
		}
	}

	if amount < lot.MinBid {
		return nil, ErrBidTooLow
	}
	if amount > lot.MinBid+s.cfg.MaxBidJump {
		return nil, ErrBidTooHigh
	}

	bid, err := s.commitBid(&lot, userID, amount)
	if err != nil {
		return nil, err
	}

	s.invalidatePages(ctx, lot.AuctionID)
	return bid, nil
}

// commitBid appends the ledger row and swaps the lot's leader state in one
// transaction. The swap compares against the leader pointer read during
// validation; if another bid moved it in between, nothing matches and the
// whole transaction rolls back with ErrBidConflict.
func (s *BidService) commitBid(lot *models.Lot, userID uuid.UUID, amount float64) (*models.Bid, error) {
	bid := models.Bid{
		ID:     uuid.New(),
		LotID:  lot.ID,
		UserID: userID,
		Amount: amount,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bid).Error; err != nil {
			return fmt.Errorf("failed to record bid: %w", err)
		}

		swap := tx.Model(&models.Lot{}).Where("id = ?", lot.ID)
		if lot.TopBidID == nil {
			swap = swap.Where("top_bid_id IS NULL")
		} else {
			swap = swap.Where("top_bid_id = ?", *lot.TopBidID)
		}
		result := swap.Updates(map[string]interface{}{
			"min_bid":       amount + s.cfg.MinBidIncrement,
			"top_bid_id":    bid.ID,
			"top_bidder_id": userID,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update lot leader state: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBidConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (s *BidService) invalidatePages(ctx context.Context, auctionID uuid.UUID) {
	if err := s.pages.InvalidateAuction(ctx, auctionID.String()); err != nil {
		slog.Error("failed to invalidate auction pages", "auction_id", auctionID, "error", err)
	}
}

// LotState returns the lot's current bidding state for polling clients.
func (s *BidService) LotState(lotID uuid.UUID) (*dto.LeaderState, error) {
	var lot models.Lot
	if err := s.db.First(&lot, "id = ?", lotID).Error; err != nil {
		return nil, ErrNotFound
	}
	var bidCount int64
	if err := s.db.Model(&models.Bid{}).Where("lot_id = ?", lotID).Count(&bidCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count bids: %w", err)
	}
	return &dto.LeaderState{Lot: lot, BidCount: bidCount}, nil
}

// UserBids splits the caller's recent bids into leading and trailing. For
// trailed lots only the caller's best bid is kept, and the current leader's
// first name is resolved for display.
func (s *BidService) UserBids(userID uuid.UUID) (*dto.UserBids, error) {
	var bids []models.Bid
	err := s.db.Preload("Lot").Preload("Lot.Auction").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(50).
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bids: %w", err)
	}

	result := &dto.UserBids{
		LeadingBids:  []dto.BidWithLot{},
		TrailingBids: []dto.BidWithLot{},
		LeaderNames:  []string{},
	}

	bestPerLot := make(map[uuid.UUID]models.Bid)
	for _, bid := range bids {
		if bid.Lot.TopBidID != nil && *bid.Lot.TopBidID == bid.ID {
			result.LeadingBids = append(result.LeadingBids, bidWithLot(bid))
			continue
		}
		// caller leads this lot through another bid, skip the older ones
		if bid.Lot.TopBidderID != nil && *bid.Lot.TopBidderID == userID {
			continue
		}
		if best, ok := bestPerLot[bid.LotID]; !ok || bid.Amount > best.Amount {
			bestPerLot[bid.LotID] = bid
		}
	}

	trailing := make([]models.Bid, 0, len(bestPerLot))
	for _, bid := range bestPerLot {
		trailing = append(trailing, bid)
	}
	sort.Slice(trailing, func(i, j int) bool {
		return trailing[i].CreatedAt.After(trailing[j].CreatedAt)
	})

	for _, bid := range trailing {
		result.TrailingBids = append(result.TrailingBids, bidWithLot(bid))

		name := ""
		if bid.Lot.TopBidderID != nil {
			var leader models.User
			if err := s.db.First(&leader, "id = ?", *bid.Lot.TopBidderID).Error; err == nil {
				name = leader.FirstName
			}
		}
		result.LeaderNames = append(result.LeaderNames, name)
	}
	return result, nil
}

// LotsWithBids returns the auction's lots that hold a leading bid, each with
// its bid count and top bids including bidder contact details. Seller view.
func (s *BidService) LotsWithBids(auctionID, userID uuid.UUID) ([]dto.LotWithTopBids, error) {
	var auction models.Auction
	if err := s.db.First(&auction, "id = ?", auctionID).Error; err != nil {
		return nil, ErrNotFound
	}
	if auction.UserID != userID {
		return nil, ErrNotOwner
	}

	var lots []models.Lot
	err := s.db.Where("auction_id = ? AND top_bid_id IS NOT NULL AND top_bidder_id IS NOT NULL", auctionID).
		Order("lot_number ASC").
		Find(&lots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	results := make([]dto.LotWithTopBids, 0, len(lots))
	for _, lot := range lots {
		var bidCount int64
		if err := s.db.Model(&models.Bid{}).Where("lot_id = ?", lot.ID).Count(&bidCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count bids: %w", err)
		}

		var topBids []models.Bid
		err := s.db.Preload("User").
			Where("lot_id = ?", lot.ID).
			Order("amount DESC").
			Limit(5).
			Find(&topBids).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load top bids: %w", err)
		}

		entry := dto.LotWithTopBids{
			ID:         lot.ID,
			Title:      lot.Title,
			LotNumber:  lot.LotNumber,
			MainImgURL: lot.MainImgURL,
			BidCount:   bidCount,
			TopBids:    make([]dto.BidderBid, 0, len(topBids)),
		}
		for _, b := range topBids {
			entry.TopBids = append(entry.TopBids, dto.BidderBid{
				ID:        b.ID,
				Amount:    b.Amount,
				Email:     b.User.Email,
				FirstName: b.User.FirstName,
				LastName:  b.User.LastName,
			})
		}
		results = append(results, entry)
	}
	return results, nil
}

func bidWithLot(bid models.Bid) dto.BidWithLot {
	return dto.BidWithLot{
		ID:           bid.ID,
		Amount:       bid.Amount,
		CreatedAt:    bid.CreatedAt,
		LotID:        bid.LotID,
		LotNumber:    bid.Lot.LotNumber,
		LotTitle:     bid.Lot.Title,
		MinBid:       bid.Lot.MinBid,
		TopBidID:     bid.Lot.TopBidID,
		TopBidderID:  bid.Lot.TopBidderID,
		AuctionTitle: bid.Lot.Auction.Title,
		EndsAt:       bid.Lot.Auction.EndsAt,
	}
}
