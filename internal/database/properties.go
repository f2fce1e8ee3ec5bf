package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stayhub/internal/models"
)

const propertyColumns = `p.id, p.title, p.description, p.location, p.address, p.price,
	p.price_per_room, p.property_type, p.accommodation_type, p.bedrooms, p.bathrooms,
	p.max_occupancy, p.images, p.amenities, p.house_rules, p.is_available, p.is_featured,
	p.view_count, p.booking_count, p.created_at, p.updated_at`

// ratingJoin adds per-property aggregates over approved reviews.
const ratingJoin = `LEFT JOIN (
		SELECT property_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count
		FROM reviews WHERE status = 'approved' GROUP BY property_id
	) r ON r.property_id = p.id`

func (db *DB) CreateProperty(ctx context.Context, p *models.Property) error {
	query := `INSERT INTO properties (title, description, location, address, price,
				price_per_room, property_type, accommodation_type, bedrooms, bathrooms,
				max_occupancy, images, amenities, house_rules, is_available, is_featured,
				created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		p.Location,
		p.Address,
		p.Price,
		p.PricePerRoom,
		p.PropertyType,
		p.AccommodationType,
		p.Bedrooms,
		p.Bathrooms,
		p.MaxOccupancy,
		marshalStrings(p.Images),
		marshalStrings(p.Amenities),
		marshalStrings(p.HouseRules),
		p.IsAvailable,
		p.IsFeatured,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (db *DB) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + `,
				COALESCE(r.avg_rating, 0), COALESCE(r.review_count, 0)
			  FROM properties p ` + ratingJoin + ` WHERE p.id = ?`
	row := db.QueryRowContext(ctx, query, id)
	p, err := scanProperty(row)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (db *DB) UpdateProperty(ctx context.Context, p *models.Property) error {
	query := `UPDATE properties SET title = ?, description = ?, location = ?, address = ?,
				price = ?, price_per_room = ?, property_type = ?, accommodation_type = ?,
				bedrooms = ?, bathrooms = ?, max_occupancy = ?, images = ?, amenities = ?,
				house_rules = ?, is_available = ?, is_featured = ?, updated_at = ?
			  WHERE id = ?`
	res, err := db.ExecContext(ctx, query,
		p.Title, p.Description, p.Location, p.Address,
		p.Price, p.PricePerRoom, p.PropertyType, p.AccommodationType,
		p.Bedrooms, p.Bathrooms, p.MaxOccupancy,
		marshalStrings(p.Images), marshalStrings(p.Amenities), marshalStrings(p.HouseRules),
		p.IsAvailable, p.IsFeatured, time.Now(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return requireRows(res)
}

func (db *DB) DeleteProperty(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return requireRows(res)
}

func (db *DB) IncrementViewCount(ctx context.Context, id int64) error {
	query := `UPDATE properties SET view_count = view_count + 1 WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	return err
}

// CountActiveBookingsForProperty guards property deletion the same
// way user deletion is guarded.
func (db *DB) CountActiveBookingsForProperty(ctx context.Context, propertyID int64) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE property_id = ? AND status IN (?, ?)`
	var count int
	err := db.QueryRowContext(ctx, query, propertyID, models.StatusPending, models.StatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

// PropertyFilter narrows property listings; zero values are ignored.
type PropertyFilter struct {
	Search            string
	Location          string
	PropertyType      string
	AccommodationType string
	MinPrice          float64
	MaxPrice          float64
	MinBedrooms       int
	MinBathrooms      int
	MinOccupancy      int
	Featured          *bool
	Available         *bool
	Page              models.Page
}

func (db *DB) ListProperties(ctx context.Context, filter PropertyFilter) ([]*models.Property, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if filter.Search != "" {
		where = append(where, "(p.title LIKE ? OR p.description LIKE ? OR p.location LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Location != "" {
		where = append(where, "p.location LIKE ?")
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.PropertyType != "" {
		where = append(where, "p.property_type = ?")
		args = append(args, filter.PropertyType)
	}
	if filter.AccommodationType != "" {
		where = append(where, "p.accommodation_type = ?")
		args = append(args, filter.AccommodationType)
	}
	if filter.MinPrice > 0 {
		where = append(where, "p.price >= ?")
		args = append(args, filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		where = append(where, "p.price <= ?")
		args = append(args, filter.MaxPrice)
	}
	if filter.MinBedrooms > 0 {
		where = append(where, "p.bedrooms >= ?")
		args = append(args, filter.MinBedrooms)
	}
	if filter.MinBathrooms > 0 {
		where = append(where, "p.bathrooms >= ?")
		args = append(args, filter.MinBathrooms)
	}
	if filter.MinOccupancy > 0 {
		where = append(where, "p.max_occupancy >= ?")
		args = append(args, filter.MinOccupancy)
	}
	if filter.Featured != nil {
		where = append(where, "p.is_featured = ?")
		args = append(args, *filter.Featured)
	}
	if filter.Available != nil {
		where = append(where, "p.is_available = ?")
		args = append(args, *filter.Available)
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM properties p WHERE ` + cond
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	query := `SELECT ` + propertyColumns + `,
				COALESCE(r.avg_rating, 0), COALESCE(r.review_count, 0)
			  FROM properties p ` + ratingJoin + `
			  WHERE ` + cond + `
			  ORDER BY p.is_featured DESC, p.created_at DESC
			  LIMIT ? OFFSET ?`
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties, err := collectProperties(rows)
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

func (db *DB) GetFeaturedProperties(ctx context.Context, limit int) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + `,
				COALESCE(r.avg_rating, 0), COALESCE(r.review_count, 0)
			  FROM properties p ` + ratingJoin + `
			  WHERE p.is_featured = 1 AND p.is_available = 1
			  ORDER BY p.created_at DESC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get featured properties: %w", err)
	}
	defer rows.Close()
	return collectProperties(rows)
}

// GetTopProperties returns the most-booked properties for the admin
// dashboard.
func (db *DB) GetTopProperties(ctx context.Context, limit int) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + `,
				COALESCE(r.avg_rating, 0), COALESCE(r.review_count, 0)
			  FROM properties p ` + ratingJoin + `
			  ORDER BY p.booking_count DESC, p.view_count DESC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top properties: %w", err)
	}
	defer rows.Close()
	return collectProperties(rows)
}

func (db *DB) GetPropertyStats(ctx context.Context, propertyID int64) (*models.PropertyStats, error) {
	var stats models.PropertyStats

	query := `SELECT COUNT(*),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status IN (?, ?) THEN total_amount ELSE 0 END), 0)
			  FROM bookings WHERE property_id = ?`
	err := db.QueryRowContext(ctx, query,
		models.StatusConfirmed, models.StatusConfirmed, models.StatusCompleted, propertyID).
		Scan(&stats.TotalBookings, &stats.ConfirmedBookings, &stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to get property booking stats: %w", err)
	}

	query = `SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews
			 WHERE property_id = ? AND status = ?`
	err = db.QueryRowContext(ctx, query, propertyID, models.ModerationApproved).
		Scan(&stats.TotalReviews, &stats.AvgRating)
	if err != nil {
		return nil, fmt.Errorf("failed to get property review stats: %w", err)
	}

	query = `SELECT view_count FROM properties WHERE id = ?`
	if err := db.QueryRowContext(ctx, query, propertyID).Scan(&stats.ViewCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get view count: %w", err)
	}

	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*models.Property, error) {
	var p models.Property
	var images, amenities, houseRules string
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Location, &p.Address, &p.Price,
		&p.PricePerRoom, &p.PropertyType, &p.AccommodationType, &p.Bedrooms, &p.Bathrooms,
		&p.MaxOccupancy, &images, &amenities, &houseRules, &p.IsAvailable, &p.IsFeatured,
		&p.ViewCount, &p.BookingCount, &p.CreatedAt, &p.UpdatedAt,
		&p.AvgRating, &p.ReviewCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}
	p.Images = unmarshalStrings(images)
	p.Amenities = unmarshalStrings(amenities)
	p.HouseRules = unmarshalStrings(houseRules)
	p.AvgRating = roundRating(p.AvgRating)
	return &p, nil
}

func collectProperties(rows *sql.Rows) ([]*models.Property, error) {
	var properties []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return properties, nil
}

// String slices are persisted as JSON text columns.
func marshalStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalStrings(data string) []string {
	values := []string{}
	if data == "" {
		return values
	}
	_ = json.Unmarshal([]byte(data), &values)
	return values
}

// roundRating keeps averages at one decimal place, matching what the
// listing API reports.
func roundRating(r float64) float64 {
	return float64(int(r*10+0.5)) / 10
}
