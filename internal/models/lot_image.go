package models

import (
	"time"

	"github.com/google/uuid"
)

// LotImage is one stored photo of a lot. ImgKey is the object-storage key the
// URL points at, kept so deletion does not have to parse it back out.
type LotImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LotID     uuid.UUID `gorm:"type:uuid;not null;index" json:"lot_id"`
	ImgURL    string    `gorm:"type:text;not null" json:"img_url"`
	ImgKey    string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Lot Lot `gorm:"foreignKey:LotID" json:"-"`
}
