package services

import (
	"errors"

	"github.com/gavelworks/auction-backend/internal/config"
	"github.com/gavelworks/auction-backend/internal/dto"
)

var (
	ErrBadImageType  = errors.New("file type is not an accepted image type")
	ErrImageTooLarge = errors.New("file exceeds the maximum upload size")
	ErrTooManyImages = errors.New("the lot already holds the maximum number of images")
)

// validateUpload checks a requested upload against the MIME allow-list and
// the byte ceiling before any presigned URL is issued.
func validateUpload(cfg *config.Config, req *dto.UploadRequest) error {
	accepted := false
	for _, m := range cfg.AcceptedMIMEs {
		if m == req.ContentType {
			accepted = true
			break
		}
	}
	if !accepted {
		return ErrBadImageType
	}
	if req.Size <= 0 || req.Size > cfg.MaxUploadBytes {
		return ErrImageTooLarge
	}
	return nil
}
