package models

import (
	"time"

	"github.com/google/uuid"
)

// Bid is one row of the append-only bid ledger. Bids are never updated or
// deleted; superseded bids stay in place as trailing-bid history.
type Bid struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LotID     uuid.UUID `gorm:"type:uuid;not null;index" json:"lot_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`

	Lot  Lot  `gorm:"foreignKey:LotID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
