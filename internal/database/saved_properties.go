package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stayhub/internal/models"
)

// SaveProperty bookmarks a property for a user. The unique index on
// (user_id, property_id) rejects duplicate saves.
func (db *DB) SaveProperty(ctx context.Context, saved *models.SavedProperty) error {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM properties WHERE id = ?`, saved.PropertyID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check property: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO saved_properties (user_id, property_id, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		saved.UserID, saved.PropertyID, saved.Notes, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadySaved
		}
		return fmt.Errorf("failed to save property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	saved.ID = id
	saved.CreatedAt = now
	saved.UpdatedAt = now
	return nil
}

// ListSavedProperties returns a user's bookmarks with the full
// property attached to each row.
func (db *DB) ListSavedProperties(ctx context.Context, userID int64, page models.Page) ([]*models.SavedProperty, int, error) {
	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_properties WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count saved properties: %w", err)
	}

	query := `SELECT s.id, s.user_id, s.property_id, s.notes, s.created_at, s.updated_at,
				` + propertyColumns + `,
				COALESCE(r.avg_rating, 0), COALESCE(r.review_count, 0)
			  FROM saved_properties s
			  JOIN properties p ON p.id = s.property_id ` + ratingJoin + `
			  WHERE s.user_id = ?
			  ORDER BY s.created_at DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list saved properties: %w", err)
	}
	defer rows.Close()

	var saved []*models.SavedProperty
	for rows.Next() {
		var s models.SavedProperty
		var p models.Property
		var images, amenities, houseRules string
		err := rows.Scan(
			&s.ID, &s.UserID, &s.PropertyID, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
			&p.ID, &p.Title, &p.Description, &p.Location, &p.Address, &p.Price,
			&p.PricePerRoom, &p.PropertyType, &p.AccommodationType, &p.Bedrooms, &p.Bathrooms,
			&p.MaxOccupancy, &images, &amenities, &houseRules,
			&p.IsAvailable, &p.IsFeatured, &p.ViewCount, &p.BookingCount,
			&p.CreatedAt, &p.UpdatedAt,
			&p.AvgRating, &p.ReviewCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan saved property: %w", err)
		}
		p.Images = unmarshalStrings(images)
		p.Amenities = unmarshalStrings(amenities)
		p.HouseRules = unmarshalStrings(houseRules)
		p.AvgRating = roundRating(p.AvgRating)
		s.Property = &p
		saved = append(saved, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate saved properties: %w", err)
	}
	return saved, total, nil
}

func (db *DB) GetSavedProperty(ctx context.Context, userID, propertyID int64) (*models.SavedProperty, error) {
	var s models.SavedProperty
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, property_id, notes, created_at, updated_at
		 FROM saved_properties WHERE user_id = ? AND property_id = ?`,
		userID, propertyID,
	).Scan(&s.ID, &s.UserID, &s.PropertyID, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved property: %w", err)
	}
	return &s, nil
}

func (db *DB) UpdateSavedPropertyNotes(ctx context.Context, userID, propertyID int64, notes string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE saved_properties SET notes = ?, updated_at = ?
		 WHERE user_id = ? AND property_id = ?`,
		notes, time.Now(), userID, propertyID)
	if err != nil {
		return fmt.Errorf("failed to update saved property notes: %w", err)
	}
	return requireRows(res)
}

func (db *DB) UnsaveProperty(ctx context.Context, userID, propertyID int64) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM saved_properties WHERE user_id = ? AND property_id = ?`,
		userID, propertyID)
	if err != nil {
		return fmt.Errorf("failed to unsave property: %w", err)
	}
	return requireRows(res)
}

func (db *DB) CountSavedForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_properties WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count saved properties: %w", err)
	}
	return count, nil
}
