package service

import (
	"context"

	"github.com/rs/zerolog"

	"stayhub/internal/database"
	"stayhub/internal/domain"
	"stayhub/internal/models"
)

type PropertyService struct {
	properties domain.PropertyStore
	logger     *zerolog.Logger
}

func NewPropertyService(properties domain.PropertyStore, logger *zerolog.Logger) *PropertyService {
	return &PropertyService{properties: properties, logger: logger}
}

func (s *PropertyService) CreateProperty(ctx context.Context, id models.Identity, p *models.Property) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return s.properties.CreateProperty(ctx, p)
}

// GetProperty loads one property and bumps its view counter.
func (s *PropertyService) GetProperty(ctx context.Context, propertyID int64) (*models.Property, error) {
	p, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.properties.IncrementViewCount(ctx, propertyID); err != nil {
		s.logger.Warn().Err(err).Int64("property_id", propertyID).Msg("failed to bump view count")
	}
	p.ViewCount++
	return p, nil
}

func (s *PropertyService) UpdateProperty(ctx context.Context, id models.Identity, p *models.Property) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return s.properties.UpdateProperty(ctx, p)
}

// DeleteProperty refuses to orphan pending or confirmed bookings.
func (s *PropertyService) DeleteProperty(ctx context.Context, id models.Identity, propertyID int64) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	active, err := s.properties.CountActiveBookingsForProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	if active > 0 {
		return database.ErrActiveBookings
	}
	return s.properties.DeleteProperty(ctx, propertyID)
}

func (s *PropertyService) ListProperties(ctx context.Context, filter database.PropertyFilter) ([]*models.Property, int, error) {
	return s.properties.ListProperties(ctx, filter)
}

func (s *PropertyService) GetFeaturedProperties(ctx context.Context, limit int) ([]*models.Property, error) {
	return s.properties.GetFeaturedProperties(ctx, limit)
}

func (s *PropertyService) GetPropertyStats(ctx context.Context, id models.Identity, propertyID int64) (*models.PropertyStats, error) {
	if !id.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.properties.GetPropertyStats(ctx, propertyID)
}
