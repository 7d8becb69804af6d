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
	ErrLotTitleRequired = errors.New("a lot title of at most 100 characters is required")
	ErrInvalidCategory  = errors.New("unknown lot category")
	ErrNegativeMinBid   = errors.New("the minimum bid cannot be negative")
	ErrLotLimitReached  = errors.New("the auction already holds the maximum number of lots")
)

const publicLotsPerPageDefault = 10

// LotService owns the lot lifecycle: sequential numbering on create, dense
// renumbering on delete, the minimum-bid freeze once bidding starts, and the
// image gallery including its object-storage side.
type LotService struct {
	db    *gorm.DB
	cfg   *config.Config
	store storage.ObjectStore
	pages *cache.PageCache
}

func NewLotService(db *gorm.DB, cfg *config.Config, store storage.ObjectStore, pages *cache.PageCache) *LotService {
	return &LotService{db: db, cfg: cfg, store: store, pages: pages}
}

// Create adds a lot to one of the caller's auctions while the auction is
// still scheduled. The lot number is the current count plus one.
func (s *LotService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateLotRequest) (*models.Lot, error) {
	if req.Title == "" || len(req.Title) > 100 {
		return nil, ErrLotTitleRequired
	}
	if !models.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if req.MinBid < 0 {
		return nil, ErrNegativeMinBid
	}

	var auction models.Auction
	if err := s.db.Where("id = ? AND user_id = ?", req.AuctionID, userID).First(&auction).Error; err != nil {
		return nil, ErrNotFound
	}

	if auction.StartsAt.Before(time.Now()) {
		return nil, ErrAuctionStarted
	}

	var count int64
	if err := s.db.Model(&models.Lot{}).Where("auction_id = ?", req.AuctionID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count lots: %w", err)
	}
	if count >= int64(s.cfg.MaxLotsPerAuction) {
		return nil, ErrLotLimitReached
	}

	lot := models.Lot{
		ID:          uuid.New(),
		AuctionID:   req.AuctionID,
		LotNumber:   int(count) + 1,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		MinBid:      req.MinBid,
	}
	if err := s.db.Create(&lot).Error; err != nil {
		return nil, fmt.Errorf("failed to create lot: %w", err)
	}

	s.invalidatePages(ctx, req.AuctionID)
	return &lot, nil
}

// Update changes the lot's listing fields. The minimum bid is frozen once a
// leading bid exists, so existing bidders are never retroactively undercut.
func (s *LotService) Update(ctx context.Context, lotID, userID uuid.UUID, req *dto.UpdateLotRequest) (*models.Lot, error) {
	if req.Title == "" || len(req.Title) > 100 {
		return nil, ErrLotTitleRequired
	}
	if !models.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}
	if req.MinBid < 0 {
		return nil, ErrNegativeMinBid
	}

	var lot models.Lot
	if err := s.db.Preload("Auction").First(&lot, "id = ?", lotID).Error; err != nil {
		return nil, ErrNotFound
	}
	if lot.Auction.UserID != userID {
		return nil, ErrNotOwner
	}

	newMinBid := req.MinBid
	if lot.TopBidID != nil {
		newMinBid = lot.MinBid
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"min_bid":     newMinBid,
	}
	if err := s.db.Model(&lot).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update lot: %w", err)
	}

	s.invalidatePages(ctx, lot.AuctionID)
	return &lot, nil
}

// Delete removes the lot, renumbers every sibling with a higher lot number
// down by one, and purges the lot's images. The database work commits as one
// transaction; storage objects are then deleted best-effort, with failures
// logged to the error sink for a later sweep.
func (s *LotService) Delete(ctx context.Context, lotID, userID uuid.UUID) error {
	var lot models.Lot
	if err := s.db.Preload("Auction").Preload("Images").First(&lot, "id = ?", lotID).Error; err != nil {
		return ErrNotFound
	}
	if lot.Auction.UserID != userID {
		return ErrNotOwner
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lot_id = ?", lotID).Delete(&models.LotImage{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Lot{}, "id = ?", lotID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Lot{}).
			Where("auction_id = ? AND lot_number > ?", lot.AuctionID, lot.LotNumber).
			Update("lot_number", gorm.Expr("lot_number - 1")).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete lot: %w", err)
	}

	s.invalidatePages(ctx, lot.AuctionID)

	for _, img := range lot.Images {
		if err := s.store.Delete(ctx, img.ImgKey); err != nil {
			slog.Error("unable to delete lot image from storage",
				"lot_id", lotID, "image_id", img.ID, "key", img.ImgKey, "error", err)
		}
	}
	return nil
}

// RemoveImages deletes an explicit list of lot images. Ownership is verified
// per image by walking image → lot → auction → owner. Storage deletion and
// the database delete must both succeed.
func (s *LotService) RemoveImages(ctx context.Context, userID uuid.UUID, refs []dto.ImageRef) error {
	images := make([]models.LotImage, 0, len(refs))
	for _, ref := range refs {
		var img models.LotImage
		if err := s.db.Preload("Lot.Auction").First(&img, "id = ?", ref.ID).Error; err != nil {
			return ErrNotFound
		}
		if img.Lot.Auction.UserID != userID {
			return ErrNotOwner
		}
		images = append(images, img)
	}

	var auctionID uuid.UUID
	for _, img := range images {
		if err := s.store.Delete(ctx, img.ImgKey); err != nil {
			slog.Error("unable to delete image from storage",
				"image_id", img.ID, "key", img.ImgKey, "error", err)
			return ErrStorageFailure
		}
		if err := s.db.Delete(&models.LotImage{}, "id = ?", img.ID).Error; err != nil {
			return fmt.Errorf("failed to delete image record: %w", err)
		}
		auctionID = img.Lot.AuctionID
	}

	if auctionID != uuid.Nil {
		s.invalidatePages(ctx, auctionID)
	}
	return nil
}

// PresignImageUploads issues presigned PUT URLs for a batch of lot images,
// records a LotImage row per file and promotes the lot's first image to its
// main image.
func (s *LotService) PresignImageUploads(ctx context.Context, lotID, userID uuid.UUID, req *dto.LotUploadURLsRequest) ([]string, error) {
	var lot models.Lot
	if err := s.db.Preload("Auction").First(&lot, "id = ?", lotID).Error; err != nil {
		return nil, ErrNotFound
	}
	if lot.Auction.UserID != userID {
		return nil, ErrNotOwner
	}

	var existing int64
	if err := s.db.Model(&models.LotImage{}).Where("lot_id = ?", lotID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to count lot images: %w", err)
	}
	if existing+int64(len(req.Files)) > int64(s.cfg.MaxImagesPerLot) {
		return nil, ErrTooManyImages
	}
	for i := range req.Files {
		if err := validateUpload(s.cfg, &req.Files[i]); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(req.Files))
	for i := range req.Files {
		key := storage.NewObjectKey()
		signedURL, err := s.store.PresignUpload(ctx, key, req.Files[i].ContentType, req.Files[i].Size, req.Files[i].Checksum)
		if err != nil {
			slog.Error("unable to presign lot image upload", "lot_id", lotID, "error", err)
			return nil, ErrStorageFailure
		}

		publicURL := storage.PublicURL(signedURL)
		img := models.LotImage{
			ID:     uuid.New(),
			LotID:  lotID,
			ImgURL: publicURL,
			ImgKey: key,
		}
		if err := s.db.Create(&img).Error; err != nil {
			return nil, fmt.Errorf("failed to record lot image: %w", err)
		}

		// the lot's first image becomes its main image
		if existing == 0 && i == 0 && lot.MainImgURL == nil {
			if err := s.db.Model(&lot).Update("main_img_url", publicURL).Error; err != nil {
				return nil, fmt.Errorf("failed to set main image: %w", err)
			}
		}
		urls = append(urls, signedURL)
	}

	s.invalidatePages(ctx, lot.AuctionID)
	return urls, nil
}

// Get returns the public lot projection.
func (s *LotService) Get(lotID uuid.UUID) (*dto.LotDetail, error) {
	var lot models.Lot
	if err := s.db.Preload("Auction").Preload("Images").First(&lot, "id = ?", lotID).Error; err != nil {
		return nil, ErrNotFound
	}

	var bidCount int64
	if err := s.db.Model(&models.Bid{}).Where("lot_id = ?", lotID).Count(&bidCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count bids: %w", err)
	}

	detail := &dto.LotDetail{
		Lot:           lot,
		Images:        lot.Images,
		BidCount:      bidCount,
		AuctionID:     lot.AuctionID,
		AuctionUserID: lot.Auction.UserID,
		EndsAt:        lot.Auction.EndsAt,
		ClosesAt:      lot.ClosesAt(lot.Auction.EndsAt, s.cfg.LotStaggerDelay),
	}
	return detail, nil
}

// ListForOwner returns one page of the auction's lots for the dashboard,
// highest lot number first, keyed by an id cursor.
func (s *LotService) ListForOwner(auctionID, userID uuid.UUID, limit int, cursor *uuid.UUID) (*dto.LotsPage, error) {
	var auction models.Auction
	if err := s.db.Where("id = ? AND user_id = ?", auctionID, userID).First(&auction).Error; err != nil {
		return nil, ErrNotFound
	}

	if limit <= 0 || limit > s.cfg.MaxLotsPerAuction {
		limit = publicLotsPerPageDefault
	}

	query := s.db.Where("auction_id = ?", auctionID).Order("lot_number DESC")
	if cursor != nil {
		var cursorLot models.Lot
		if err := s.db.First(&cursorLot, "id = ?", *cursor).Error; err != nil {
			return nil, ErrNotFound
		}
		query = query.Where("lot_number <= ?", cursorLot.LotNumber)
	}

	var lots []models.Lot
	if err := query.Limit(limit + 1).Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	page := &dto.LotsPage{}
	if len(lots) > limit {
		next := lots[limit].ID
		page.NextCursor = &next
		lots = lots[:limit]
	}

	page.Lots = make([]dto.LotSummary, 0, len(lots))
	for _, lot := range lots {
		var bidCount int64
		if err := s.db.Model(&models.Bid{}).Where("lot_id = ?", lot.ID).Count(&bidCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count bids: %w", err)
		}
		page.Lots = append(page.Lots, dto.LotSummary{Lot: lot, BidCount: bidCount})
	}
	return page, nil
}

// ListPublic returns one page of an auction's lots for visitors, served from
// the page cache when warm.
func (s *LotService) ListPublic(ctx context.Context, auctionID uuid.UUID, page, perPage int) ([]dto.LotSummary, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 5 || perPage > 20 {
		perPage = publicLotsPerPageDefault
	}

	key := cache.LotsPageKey(auctionID.String(), page, perPage)
	var cached []dto.LotSummary
	if hit, err := s.pages.Get(ctx, key, &cached); err != nil {
		slog.Error("page cache read failed", "key", key, "error", err)
	} else if hit {
		return cached, nil
	}

	var lots []models.Lot
	err := s.db.Where("auction_id = ?", auctionID).
		Order("lot_number ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&lots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	summaries := make([]dto.LotSummary, 0, len(lots))
	for _, lot := range lots {
		var bidCount int64
		if err := s.db.Model(&models.Bid{}).Where("lot_id = ?", lot.ID).Count(&bidCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count bids: %w", err)
		}
		summaries = append(summaries, dto.LotSummary{Lot: lot, BidCount: bidCount})
	}

	if err := s.pages.Set(ctx, key, summaries); err != nil {
		slog.Error("page cache write failed", "key", key, "error", err)
	}
	return summaries, nil
}

func (s *LotService) invalidatePages(ctx context.Context, auctionID uuid.UUID) {
	if err := s.pages.InvalidateAuction(ctx, auctionID.String()); err != nil {
		slog.Error("failed to invalidate auction pages", "auction_id", auctionID, "error", err)
	}
}
