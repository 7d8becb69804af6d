package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.LotStaggerDelay)
	assert.Equal(t, 1.0, cfg.MinBidIncrement)
	assert.Equal(t, 1000.0, cfg.MaxBidJump)
	assert.Equal(t, 100, cfg.MaxLotsPerAuction)
	assert.Equal(t, 5, cfg.MaxImagesPerLot)
	assert.Equal(t, int64(10485760), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/webp", "image/gif"}, cfg.AcceptedMIMEs)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOT_STAGGER_DELAY", "45s")
	t.Setenv("MAX_LOTS_PER_AUCTION", "25")
	t.Setenv("ACCEPTED_IMAGE_TYPES", "image/png , image/webp")

	cfg := Load()
	assert.Equal(t, 45*time.Second, cfg.LotStaggerDelay)
	assert.Equal(t, 25, cfg.MaxLotsPerAuction)
	assert.Equal(t, []string{"image/png", "image/webp"}, cfg.AcceptedMIMEs)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("LOT_STAGGER_DELAY", "not-a-duration")
	t.Setenv("MIN_BID_INCREMENT", "abc")

	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.LotStaggerDelay)
	assert.Equal(t, 1.0, cfg.MinBidIncrement)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db", DBPort: "5433", DBUser: "svc",
		DBPassword: "pw", DBName: "auctions", DBSSLMode: "require",
	}
	assert.Equal(t,
		"host=db user=svc password=pw dbname=auctions port=5433 sslmode=require TimeZone=UTC",
		cfg.DSN())
}
