package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gavelworks/auction-backend/internal/config"
	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Auction{},
		&models.Lot{},
		&models.LotImage{},
		&models.Bid{},
	)
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   15 * time.Minute,
		JWTRefreshExpiry:  168 * time.Hour,
		LotStaggerDelay:   30 * time.Second,
		MinBidIncrement:   1,
		MaxBidJump:        1000,
		MaxLotsPerAuction: 100,
		MaxImagesPerLot:   5,
		MaxUploadBytes:    10485760,
		AcceptedMIMEs:     []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	}
}

// fakeStore records storage calls instead of talking to S3.
type fakeStore struct {
	presigned []string
	deleted   []string
	failOn    map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{failOn: map[string]error{}}
}

func (f *fakeStore) PresignUpload(_ context.Context, key, _ string, _ int64, _ string) (string, error) {
	if err := f.failOn["presign"]; err != nil {
		return "", err
	}
	f.presigned = append(f.presigned, key)
	return "https://bucket.s3.test/" + key + "?X-Amz-Signature=abc", nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if err := f.failOn["delete"]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
		Role:      models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAuction(t *testing.T, db *gorm.DB, ownerID uuid.UUID, startsAt, endsAt time.Time) *models.Auction {
	t.Helper()
	auction := &models.Auction{
		ID:       uuid.New(),
		Title:    "Estate Sale",
		Location: "Portland, OR",
		StartsAt: startsAt,
		EndsAt:   endsAt,
		UserID:   ownerID,
	}
	require.NoError(t, db.Create(auction).Error)
	return auction
}

func seedLot(t *testing.T, db *gorm.DB, auctionID uuid.UUID, number int, minBid float64) *models.Lot {
	t.Helper()
	lot := &models.Lot{
		ID:        uuid.New(),
		AuctionID: auctionID,
		LotNumber: number,
		Title:     fmt.Sprintf("Lot %d", number),
		Category:  "Art and Collectibles",
		MinBid:    minBid,
	}
	require.NoError(t, db.Create(lot).Error)
	return lot
}
