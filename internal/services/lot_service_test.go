package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLotFixture(t *testing.T) (*LotService, *fakeStore, *models.User, *models.Auction) {
	t.Helper()
	db := newTestDB(t)
	store := newFakeStore()
	svc := NewLotService(db, testConfig(), store, nil)

	owner := seedUser(t, db, "owner@example.com")
	auction := seedAuction(t, db, owner.ID,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	return svc, store, owner, auction
}

func createRequest(auctionID uuid.UUID, title string) *dto.CreateLotRequest {
	return &dto.CreateLotRequest{
		AuctionID: auctionID,
		Title:     title,
		Category:  "Art and Collectibles",
		MinBid:    10,
	}
}

func TestCreateLotAssignsSequentialNumbers(t *testing.T) {
	svc, _, owner, auction := newLotFixture(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		lot, err := svc.Create(ctx, owner.ID, createRequest(auction.ID, "Lot "+strconv.Itoa(i)))
		require.NoError(t, err)
		assert.Equal(t, i, lot.LotNumber)
	}
}

func TestCreateLotValidation(t *testing.T) {
	svc, _, owner, auction := newLotFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*dto.CreateLotRequest)
		wantErr error
	}{
		{"empty title", func(r *dto.CreateLotRequest) { r.Title = "" }, ErrLotTitleRequired},
		{"unknown category", func(r *dto.CreateLotRequest) { r.Category = "Livestock" }, ErrInvalidCategory},
		{"negative min bid", func(r *dto.CreateLotRequest) { r.MinBid = -1 }, ErrNegativeMinBid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest(auction.ID, "Vase")
			tt.mutate(req)
			_, err := svc.Create(ctx, owner.ID, req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateLotOwnershipAndState(t *testing.T) {
	svc, _, owner, auction := newLotFixture(t)
	ctx := context.Background()
	stranger := seedUser(t, svc.db, "stranger@example.com")

	// Someone else's auction looks like a missing one.
	_, err := svc.Create(ctx, stranger.ID, createRequest(auction.ID, "Vase"))
	require.ErrorIs(t, err, ErrNotFound)

	started := seedAuction(t, svc.db, owner.ID,
		time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	_, err = svc.Create(ctx, owner.ID, createRequest(started.ID, "Vase"))
	require.ErrorIs(t, err, ErrAuctionStarted)
}

func TestCreateLotEnforcesLimit(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.MaxLotsPerAuction = 2
	svc := NewLotService(db, cfg, newFakeStore(), nil)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	auction := seedAuction(t, db, owner.ID,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, owner.ID, createRequest(auction.ID, "Lot"))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, owner.ID, createRequest(auction.ID, "One too many"))
	require.ErrorIs(t, err, ErrLotLimitReached)
}

func TestUpdateLotFreezesMinBidOnceLed(t *testing.T) {
	svc, _, owner, auction := newLotFixture(t)
	ctx := context.Background()

	lot := seedLot(t, svc.db, auction.ID, 1, 10)

	req := &dto.UpdateLotRequest{
		Title:    "Repriced",
		Category: "Jewelry and Watches",
		MinBid:   25,
	}
	_, err := svc.Update(ctx, lot.ID, owner.ID, req)
	require.NoError(t, err)

	var updated models.Lot
	require.NoError(t, svc.db.First(&updated, "id = ?", lot.ID).Error)
	assert.Equal(t, 25.0, updated.MinBid)
	assert.Equal(t, "Repriced", updated.Title)

	// A leading bid pins the floor; other fields still move.
	bidID := uuid.New()
	require.NoError(t, svc.db.Model(&updated).Updates(map[string]interface{}{
		"top_bid_id": bidID, "top_bidder_id": uuid.New(),
	}).Error)

	req.Title = "Repriced again"
	req.MinBid = 5
	_, err = svc.Update(ctx, lot.ID, owner.ID, req)
	require.NoError(t, err)

	require.NoError(t, svc.db.First(&updated, "id = ?", lot.ID).Error)
	assert.Equal(t, 25.0, updated.MinBid)
	assert.Equal(t, "Repriced again", updated.Title)
}

func TestUpdateLotRequiresOwner(t *testing.T) {
	svc, _, _, auction := newLotFixture(t)
	ctx := context.Background()
	stranger := seedUser(t, svc.db, "stranger@example.com")
	lot := seedLot(t, svc.db, auction.ID, 1, 10)

	req := &dto.UpdateLotRequest{Title: "Hijacked", Category: "Toys and Games"}
	_, err := svc.Update(ctx, lot.ID, stranger.ID, req)
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestDeleteLotRenumbersSiblings(t *testing.T) {
	svc, store, owner, auction := newLotFixture(t)
	ctx := context.Background()

	lots := make([]*models.Lot, 0, 4)
	for i := 1; i <= 4; i++ {
		lots = append(lots, seedLot(t, svc.db, auction.ID, i, 10))
	}

	// Give the doomed lot an image so storage cleanup is exercised.
	img := models.LotImage{
		ID: uuid.New(), LotID: lots[1].ID,
		ImgURL: "https://bucket.s3.test/k1", ImgKey: "k1",
	}
	require.NoError(t, svc.db.Create(&img).Error)

	require.NoError(t, svc.Delete(ctx, lots[1].ID, owner.ID))

	var remaining []models.Lot
	require.NoError(t, svc.db.Where("auction_id = ?", auction.ID).
		Order("lot_number ASC").Find(&remaining).Error)
	require.Len(t, remaining, 3)
	for i, lot := range remaining {
		assert.Equal(t, i+1, lot.LotNumber)
	}
	// lots 3 and 4 shifted down, lot 1 kept its number
	assert.Equal(t, lots[0].ID, remaining[0].ID)
	assert.Equal(t, lots[2].ID, remaining[1].ID)
	assert.Equal(t, lots[3].ID, remaining[2].ID)

	assert.Equal(t, []string{"k1"}, store.deleted)

	var imgCount int64
	require.NoError(t, svc.db.Model(&models.LotImage{}).Where("lot_id = ?", lots[1].ID).Count(&imgCount).Error)
	assert.Zero(t, imgCount)
}

func TestDeleteLotSurvivesStorageFailure(t *testing.T) {
	svc, store, owner, auction := newLotFixture(t)
	ctx := context.Background()
	store.failOn["delete"] = assert.AnError

	lot := seedLot(t, svc.db, auction.ID, 1, 10)
	img := models.LotImage{
		ID: uuid.New(), LotID: lot.ID,
		ImgURL: "https://bucket.s3.test/k1", ImgKey: "k1",
	}
	require.NoError(t, svc.db.Create(&img).Error)

	// The database delete commits even when the object store is down.
	require.NoError(t, svc.Delete(ctx, lot.ID, owner.ID))

	err := svc.db.First(&models.Lot{}, "id = ?", lot.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPresignImageUploads(t *testing.T) {
	svc, store, owner, auction := newLotFixture(t)
	ctx := context.Background()
	lot := seedLot(t, svc.db, auction.ID, 1, 10)

	req := &dto.LotUploadURLsRequest{Files: []dto.UploadRequest{
		{ContentType: "image/jpeg", Size: 1024, Checksum: "c1"},
		{ContentType: "image/png", Size: 2048, Checksum: "c2"},
	}}
	urls, err := svc.PresignImageUploads(ctx, lot.ID, owner.ID, req)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Len(t, store.presigned, 2)

	var images []models.LotImage
	require.NoError(t, svc.db.Where("lot_id = ?", lot.ID).Find(&images).Error)
	require.Len(t, images, 2)

	// The first image of an empty gallery becomes the lot's main image.
	var updated models.Lot
	require.NoError(t, svc.db.First(&updated, "id = ?", lot.ID).Error)
	require.NotNil(t, updated.MainImgURL)
	assert.Equal(t, images[0].ImgURL, *updated.MainImgURL)
}

func TestPresignImageUploadsEnforcesRules(t *testing.T) {
	svc, _, owner, auction := newLotFixture(t)
	ctx := context.Background()
	lot := seedLot(t, svc.db, auction.ID, 1, 10)

	tooMany := &dto.LotUploadURLsRequest{Files: make([]dto.UploadRequest, 6)}
	_, err := svc.PresignImageUploads(ctx, lot.ID, owner.ID, tooMany)
	require.ErrorIs(t, err, ErrTooManyImages)

	badType := &dto.LotUploadURLsRequest{Files: []dto.UploadRequest{
		{ContentType: "application/pdf", Size: 1024, Checksum: "c"},
	}}
	_, err = svc.PresignImageUploads(ctx, lot.ID, owner.ID, badType)
	require.ErrorIs(t, err, ErrBadImageType)

	tooBig := &dto.LotUploadURLsRequest{Files: []dto.UploadRequest{
		{ContentType: "image/jpeg", Size: 10485761, Checksum: "c"},
	}}
	_, err = svc.PresignImageUploads(ctx, lot.ID, owner.ID, tooBig)
	require.ErrorIs(t, err, ErrImageTooLarge)
}

func TestRemoveImages(t *testing.T) {
	svc, store, owner, auction := newLotFixture(t)
	ctx := context.Background()
	stranger := seedUser(t, svc.db, "stranger@example.com")
	lot := seedLot(t, svc.db, auction.ID, 1, 10)

	img := models.LotImage{
		ID: uuid.New(), LotID: lot.ID,
		ImgURL: "https://bucket.s3.test/k1", ImgKey: "k1",
	}
	require.NoError(t, svc.db.Create(&img).Error)
	refs := []dto.ImageRef{{ID: img.ID, ImgURL: img.ImgURL}}

	err := svc.RemoveImages(ctx, stranger.ID, refs)
	require.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.RemoveImages(ctx, owner.ID, refs))
	assert.Equal(t, []string{"k1"}, store.deleted)

	err = svc.db.First(&models.LotImage{}, "id = ?", img.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemoveImagesAbortsOnStorageFailure(t *testing.T) {
	svc, store, owner, auction := newLotFixture(t)
	ctx := context.Background()
	store.failOn["delete"] = assert.AnError
	lot := seedLot(t, svc.db, auction.ID, 1, 10)

	img := models.LotImage{
		ID: uuid.New(), LotID: lot.ID,
		ImgURL: "https://bucket.s3.test/k1", ImgKey: "k1",
	}
	require.NoError(t, svc.db.Create(&img).Error)

	err := svc.RemoveImages(ctx, owner.ID, []dto.ImageRef{{ID: img.ID, ImgURL: img.ImgURL}})
	require.ErrorIs(t, err, ErrStorageFailure)

	// The record stays so the client can retry.
	require.NoError(t, svc.db.First(&models.LotImage{}, "id = ?", img.ID).Error)
}

func TestGetLotDetail(t *testing.T) {
	svc, _, _, auction := newLotFixture(t)
	lot := seedLot(t, svc.db, auction.ID, 2, 10)

	detail, err := svc.Get(lot.ID)
	require.NoError(t, err)
	assert.Equal(t, lot.ID, detail.Lot.ID)
	assert.Equal(t, auction.ID, detail.AuctionID)
	assert.Equal(t, auction.UserID, detail.AuctionUserID)

	// Lot 2 closes two stagger intervals after the auction ends.
	wantClose := auction.EndsAt.Add(60 * time.Second)
	assert.WithinDuration(t, wantClose, detail.ClosesAt, time.Second)

	_, err = svc.Get(uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListForOwnerPagination(t *testing.T) {
	svc, _, owner, auction := newLotFixture(t)
	for i := 1; i <= 5; i++ {
		seedLot(t, svc.db, auction.ID, i, 10)
	}

	page, err := svc.ListForOwner(auction.ID, owner.ID, 2, nil)
	require.NoError(t, err)
	require.Len(t, page.Lots, 2)
	assert.Equal(t, 5, page.Lots[0].LotNumber)
	assert.Equal(t, 4, page.Lots[1].LotNumber)
	require.NotNil(t, page.NextCursor)

	page, err = svc.ListForOwner(auction.ID, owner.ID, 2, page.NextCursor)
	require.NoError(t, err)
	require.Len(t, page.Lots, 2)
	assert.Equal(t, 3, page.Lots[0].LotNumber)
	assert.Equal(t, 2, page.Lots[1].LotNumber)
	require.NotNil(t, page.NextCursor)

	page, err = svc.ListForOwner(auction.ID, owner.ID, 2, page.NextCursor)
	require.NoError(t, err)
	require.Len(t, page.Lots, 1)
	assert.Equal(t, 1, page.Lots[0].LotNumber)
	assert.Nil(t, page.NextCursor)
}

func TestListPublicPagesInOrder(t *testing.T) {
	svc, _, _, auction := newLotFixture(t)
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		seedLot(t, svc.db, auction.ID, i, 10)
	}

	lots, err := svc.ListPublic(ctx, auction.ID, 1, 5)
	require.NoError(t, err)
	require.Len(t, lots, 5)
	assert.Equal(t, 1, lots[0].LotNumber)

	lots, err = svc.ListPublic(ctx, auction.ID, 2, 5)
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, 6, lots[0].LotNumber)
}
