package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"stayhub/internal/database"
	"stayhub/internal/domain"
	"stayhub/internal/models"
)

type SavedPropertyService struct {
	saved  domain.SavedPropertyStore
	logger *zerolog.Logger
}

func NewSavedPropertyService(saved domain.SavedPropertyStore, logger *zerolog.Logger) *SavedPropertyService {
	return &SavedPropertyService{saved: saved, logger: logger}
}

func (s *SavedPropertyService) SaveProperty(ctx context.Context, id models.Identity, propertyID int64, notes string) (*models.SavedProperty, error) {
	saved := &models.SavedProperty{
		UserID:     id.UserID,
		PropertyID: propertyID,
		Notes:      notes,
	}
	if err := s.saved.SaveProperty(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SavedPropertyService) ListSaved(ctx context.Context, id models.Identity, page models.Page) ([]*models.SavedProperty, int, error) {
	return s.saved.ListSavedProperties(ctx, id.UserID, page)
}

// IsSaved answers the bookmark probe on property detail pages.
func (s *SavedPropertyService) IsSaved(ctx context.Context, id models.Identity, propertyID int64) (bool, error) {
	_, err := s.saved.GetSavedProperty(ctx, id.UserID, propertyID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *SavedPropertyService) CountSaved(ctx context.Context, id models.Identity) (int, error) {
	return s.saved.CountSavedForUser(ctx, id.UserID)
}

func (s *SavedPropertyService) UpdateNotes(ctx context.Context, id models.Identity, propertyID int64, notes string) error {
	return s.saved.UpdateSavedPropertyNotes(ctx, id.UserID, propertyID, notes)
}

func (s *SavedPropertyService) UnsaveProperty(ctx context.Context, id models.Identity, propertyID int64) error {
	return s.saved.UnsaveProperty(ctx, id.UserID, propertyID)
}
