package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gavelworks/auction-backend/internal/cache"
	"github.com/gavelworks/auction-backend/internal/config"
	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/gavelworks/auction-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired      = errors.New("a title of at most 50 characters is required")
	ErrLocationRequired   = errors.New("a location of at most 100 characters is required")
	ErrStartDateNotFuture = errors.New("the start date must be in the future")
	ErrStartAfterEnd      = errors.New("the start date must be before or equal to the end date")
	ErrAuctionStarted     = errors.New("the auction has already started")
	ErrAuctionFinished    = errors.New("the auction has already finished")
	ErrAuctionHasLots     = errors.New("the auction still owns lots")
)

// AuctionService owns the auction lifecycle: create, update under the
// scheduled/open/closed state rules, delete once emptied of lots.
type AuctionService struct {
	db    *gorm.DB
	cfg   *config.Config
	store storage.ObjectStore
	pages *cache.PageCache
}

func NewAuctionService(db *gorm.DB, cfg *config.Config, store storage.ObjectStore, pages *cache.PageCache) *AuctionService {
	return &AuctionService{db: db, cfg: cfg, store: store, pages: pages}
}

// Create persists a new auction owned by the caller. The start date must be
// strictly in the future and no later than the end date.
func (s *AuctionService) Create(userID uuid.UUID, req *dto.CreateAuctionRequest) (*models.Auction, error) {
	if err := validateAuctionFields(req.Title, req.Location); err != nil {
		return nil, err
	}
	if !req.StartDate.After(time.Now()) {
		return nil, ErrStartDateNotFuture
	}
	if req.StartDate.After(req.EndDate) {
		return nil, ErrStartAfterEnd
	}

	auction := models.Auction{
		ID:              uuid.New(),
		Title:           req.Title,
		Location:        req.Location,
		StartsAt:        req.StartDate,
		EndsAt:          req.EndDate,
		UserID:          userID,
		ImgUploadStatus: models.UploadStatusNone,
	}

	if err := s.db.Create(&auction).Error; err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}
	return &auction, nil
}

// ListByOwner returns the caller's auctions with their lot counts.
func (s *AuctionService) ListByOwner(userID uuid.UUID) ([]dto.AuctionSummary, error) {
	var auctions []models.Auction
	if err := s.db.Where("user_id = ?", userID).Order("starts_at DESC").Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}

	summaries := make([]dto.AuctionSummary, 0, len(auctions))
	for _, a := range auctions {
		var count int64
		if err := s.db.Model(&models.Lot{}).Where("auction_id = ?", a.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count lots: %w", err)
		}
		summaries = append(summaries, dto.AuctionSummary{Auction: a, LotCount: count})
	}
	return summaries, nil
}

// ListPublic returns every auction with its lot count, soonest start first.
func (s *AuctionService) ListPublic() ([]dto.AuctionSummary, error) {
	var auctions []models.Auction
	if err := s.db.Order("starts_at ASC").Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}

	summaries := make([]dto.AuctionSummary, 0, len(auctions))
	for _, a := range auctions {
		var count int64
		if err := s.db.Model(&models.Lot{}).Where("auction_id = ?", a.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count lots: %w", err)
		}
		summaries = append(summaries, dto.AuctionSummary{Auction: a, LotCount: count})
	}
	return summaries, nil
}

// GetOwned returns one of the caller's auctions.
func (s *AuctionService) GetOwned(auctionID, userID uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	if err := s.db.Where("id = ? AND user_id = ?", auctionID, userID).First(&auction).Error; err != nil {
		return nil, ErrNotFound
	}
	return &auction, nil
}

// Update applies the state-machine rules: a started auction cannot move its
// start date, a finished auction rejects every change, and a changed start
// date must still be in the future.
func (s *AuctionService) Update(ctx context.Context, auctionID, userID uuid.UUID, req *dto.UpdateAuctionRequest) (*models.Auction, error) {
	if err := validateAuctionFields(req.Title, req.Location); err != nil {
		return nil, err
	}
	if req.StartDate.After(req.EndDate) {
		return nil, ErrStartAfterEnd
	}

	var auction models.Auction
	if err := s.db.First(&auction, "id = ?", auctionID).Error; err != nil {
		return nil, ErrNotFound
	}
	if auction.UserID != userID {
		return nil, ErrNotOwner
	}

	now := time.Now()
	changingStart := !req.StartDate.Equal(auction.StartsAt)

	if auction.StartsAt.Before(now) && changingStart {
		return nil, ErrAuctionStarted
	}
	if changingStart && !req.StartDate.After(now) {
		return nil, ErrStartDateNotFuture
	}
	if auction.EndsAt.Before(now) {
		return nil, ErrAuctionFinished
	}

	updates := map[string]interface{}{
		"title":     req.Title,
		"location":  req.Location,
		"starts_at": req.StartDate,
		"ends_at":   req.EndDate,
	}
	if err := s.db.Model(&auction).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update auction: %w", err)
	}

	s.invalidatePages(ctx, auctionID)
	return &auction, nil
}

// Delete removes an auction that owns no lots, then cleans up its cover image
// in object storage.
func (s *AuctionService) Delete(ctx context.Context, auctionID, userID uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	if err := s.db.Where("id = ? AND user_id = ?", auctionID, userID).First(&auction).Error; err != nil {
		return nil, ErrNotFound
	}

	var lotCount int64
	if err := s.db.Model(&models.Lot{}).Where("auction_id = ?", auctionID).Count(&lotCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count lots: %w", err)
	}
	if lotCount > 0 {
		return nil, ErrAuctionHasLots
	}

	if err := s.db.Delete(&auction).Error; err != nil {
		return nil, fmt.Errorf("failed to delete auction: %w", err)
	}
	s.invalidatePages(ctx, auctionID)

	if auction.ImgKey == nil {
		return &auction, nil
	}
	if err := s.store.Delete(ctx, *auction.ImgKey); err != nil {
		slog.Error("unable to delete auction image from storage",
			"auction_id", auctionID, "key", *auction.ImgKey, "error", err)
		return nil, ErrStorageFailure
	}
	return &auction, nil
}

// PresignImageUpload validates the file, issues a presigned PUT URL for the
// auction's cover image, deletes the previous object if one exists and
// records the new URL on the row.
func (s *AuctionService) PresignImageUpload(ctx context.Context, auctionID, userID uuid.UUID, req *dto.UploadRequest) (string, error) {
	if err := validateUpload(s.cfg, req); err != nil {
		return "", err
	}

	var auction models.Auction
	if err := s.db.First(&auction, "id = ?", auctionID).Error; err != nil {
		return "", ErrNotFound
	}
	if auction.UserID != userID {
		return "", ErrNotOwner
	}

	key := storage.NewObjectKey()
	signedURL, err := s.store.PresignUpload(ctx, key, req.ContentType, req.Size, req.Checksum)
	if err != nil {
		slog.Error("unable to presign auction image upload", "auction_id", auctionID, "error", err)
		return "", ErrStorageFailure
	}

	if auction.ImgKey != nil {
		if err := s.store.Delete(ctx, *auction.ImgKey); err != nil {
			slog.Error("unable to delete previous auction image from storage",
				"auction_id", auctionID, "key", *auction.ImgKey, "error", err)
			return "", ErrStorageFailure
		}
	}

	publicURL := storage.PublicURL(signedURL)
	updates := map[string]interface{}{
		"img_url":           publicURL,
		"img_key":           key,
		"img_upload_status": models.UploadStatusSuccess,
	}
	if err := s.db.Model(&auction).Updates(updates).Error; err != nil {
		return "", fmt.Errorf("failed to record auction image: %w", err)
	}

	s.invalidatePages(ctx, auctionID)
	return signedURL, nil
}

func (s *AuctionService) invalidatePages(ctx context.Context, auctionID uuid.UUID) {
	if err := s.pages.InvalidateAuction(ctx, auctionID.String()); err != nil {
		slog.Error("failed to invalidate auction pages", "auction_id", auctionID, "error", err)
	}
}

func validateAuctionFields(title, location string) error {
	if title == "" || len(title) > 50 {
		return ErrTitleRequired
	}
	if location == "" || len(location) > 100 {
		return ErrLocationRequired
	}
	return nil
}
