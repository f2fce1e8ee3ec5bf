package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stayhub/internal/models"
)

const reviewColumns = `r.id, r.user_id, r.property_id, r.booking_id, r.rating, r.title,
	r.comment, r.cleanliness, r.communication, r.location_rating, r.value_rating,
	r.would_recommend, r.status, r.admin_response, r.helpful_count, r.created_at, r.updated_at`

// CreateReview verifies eligibility inside a transaction: the booking
// must belong to the reviewer, match the property, and be completed.
// The unique index on (user_id, booking_id) backstops double submits.
func (db *DB) CreateReview(ctx context.Context, review *models.Review) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var bookingUserID, bookingPropertyID int64
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, property_id, status FROM bookings WHERE id = ?`,
		review.BookingID).Scan(&bookingUserID, &bookingPropertyID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReviewNotEligible
	}
	if err != nil {
		return fmt.Errorf("failed to load booking in tx: %w", err)
	}
	if bookingUserID != review.UserID || bookingPropertyID != review.PropertyID ||
		status != models.StatusCompleted {
		return ErrReviewNotEligible
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE user_id = ? AND booking_id = ?`,
		review.UserID, review.BookingID).Scan(&existing)
	if err != nil {
		return fmt.Errorf("failed to check existing review in tx: %w", err)
	}
	if existing > 0 {
		return ErrAlreadyReviewed
	}

	now := time.Now()
	if review.Status == "" {
		review.Status = models.ModerationPending
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (user_id, property_id, booking_id, rating, title, comment,
			cleanliness, communication, location_rating, value_rating, would_recommend,
			status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		review.UserID, review.PropertyID, review.BookingID, review.Rating,
		review.Title, review.Comment, review.Cleanliness, review.Communication,
		review.LocationRating, review.ValueRating, review.WouldRecommend,
		review.Status, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to insert review in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	review.ID = id
	review.CreatedAt = now
	review.UpdatedAt = now
	return tx.Commit()
}

func (db *DB) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + `, u.name, p.title, p.location
			  FROM reviews r
			  JOIN users u ON u.id = r.user_id
			  JOIN properties p ON p.id = r.property_id
			  WHERE r.id = ?`
	row := db.QueryRowContext(ctx, query, id)
	return scanReview(row)
}

// ReviewFilter narrows review listings; zero values are ignored.
type ReviewFilter struct {
	PropertyID int64
	UserID     int64
	Status     string
	MinRating  int
	Sort       string
	Page       models.Page
}

func (db *DB) ListReviews(ctx context.Context, filter ReviewFilter) ([]*models.Review, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if filter.PropertyID != 0 {
		where = append(where, "r.property_id = ?")
		args = append(args, filter.PropertyID)
	}
	if filter.UserID != 0 {
		where = append(where, "r.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		where = append(where, "r.status = ?")
		args = append(args, filter.Status)
	}
	if filter.MinRating != 0 {
		where = append(where, "r.rating >= ?")
		args = append(args, filter.MinRating)
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM reviews r WHERE ` + cond
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	order := "r.created_at DESC"
	switch filter.Sort {
	case "rating_high":
		order = "r.rating DESC, r.created_at DESC"
	case "rating_low":
		order = "r.rating ASC, r.created_at DESC"
	case "helpful":
		order = "r.helpful_count DESC, r.created_at DESC"
	case "oldest":
		order = "r.created_at ASC"
	}

	query := `SELECT ` + reviewColumns + `, u.name, p.title, p.location
			  FROM reviews r
			  JOIN users u ON u.id = r.user_id
			  JOIN properties p ON p.id = r.property_id
			  WHERE ` + cond + `
			  ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return reviews, total, nil
}

func (db *DB) UpdateReview(ctx context.Context, review *models.Review) error {
	query := `UPDATE reviews SET rating = ?, title = ?, comment = ?, cleanliness = ?,
				communication = ?, location_rating = ?, value_rating = ?,
				would_recommend = ?, status = ?, updated_at = ?
			  WHERE id = ?`
	res, err := db.ExecContext(ctx, query,
		review.Rating, review.Title, review.Comment, review.Cleanliness,
		review.Communication, review.LocationRating, review.ValueRating,
		review.WouldRecommend, review.Status, time.Now(), review.ID)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return requireRows(res)
}

// UpdateReviewStatus moderates a review and optionally records an
// admin response.
func (db *DB) UpdateReviewStatus(ctx context.Context, id int64, status, adminResponse string) error {
	sets := []string{"status = ?", "updated_at = ?"}
	args := []any{status, time.Now()}
	if adminResponse != "" {
		sets = append(sets, "admin_response = ?")
		args = append(args, adminResponse)
	}
	args = append(args, id)

	query := `UPDATE reviews SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}
	return requireRows(res)
}

func (db *DB) MarkReviewHelpful(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx,
		`UPDATE reviews SET helpful_count = helpful_count + 1, updated_at = ? WHERE id = ?`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark review helpful: %w", err)
	}
	return requireRows(res)
}

func (db *DB) DeleteReview(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return requireRows(res)
}

// GetPropertyRatingStats summarizes approved reviews for one property,
// including the per-star breakdown.
func (db *DB) GetPropertyRatingStats(ctx context.Context, propertyID int64) (*models.PropertyRatingStats, error) {
	stats := &models.PropertyRatingStats{Breakdown: models.RatingBreakdown{}}

	err := db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*)
		 FROM reviews WHERE property_id = ? AND status = ?`,
		propertyID, models.ModerationApproved,
	).Scan(&stats.AvgRating, &stats.TotalReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating stats: %w", err)
	}
	stats.AvgRating = roundRating(stats.AvgRating)

	rows, err := db.QueryContext(ctx,
		`SELECT rating, COUNT(*) FROM reviews
		 WHERE property_id = ? AND status = ?
		 GROUP BY rating`,
		propertyID, models.ModerationApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating breakdown: %w", err)
		}
		stats.Breakdown[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rating breakdown: %w", err)
	}
	return stats, nil
}

func (db *DB) GetReviewStats(ctx context.Context) (*models.ReviewStats, error) {
	var stats models.ReviewStats
	query := `SELECT COUNT(*),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(AVG(CASE WHEN status = ? THEN rating END), 0)
			  FROM reviews`
	err := db.QueryRowContext(ctx, query,
		models.ModerationPending, models.ModerationApproved, models.ModerationRejected,
		models.ModerationApproved,
	).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected, &stats.AvgRating)
	if err != nil {
		return nil, fmt.Errorf("failed to get review stats: %w", err)
	}
	stats.AvgRating = roundRating(stats.AvgRating)
	return &stats, nil
}

func scanReview(row rowScanner) (*models.Review, error) {
	var r models.Review
	err := row.Scan(
		&r.ID, &r.UserID, &r.PropertyID, &r.BookingID, &r.Rating, &r.Title,
		&r.Comment, &r.Cleanliness, &r.Communication, &r.LocationRating, &r.ValueRating,
		&r.WouldRecommend, &r.Status, &r.AdminResponse, &r.HelpfulCount, &r.CreatedAt, &r.UpdatedAt,
		&r.UserName, &r.PropertyTitle, &r.PropertyLocation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return &r, nil
}
