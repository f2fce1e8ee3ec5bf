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

const bookingColumns = `b.id, b.user_id, b.property_id, b.start_date, b.end_date,
	b.guests, b.rooms, b.total_amount, b.status, b.payment_status, b.special_requests,
	b.contact_phone, b.contact_email, b.cancellation_reason, b.admin_notes,
	b.created_at, b.updated_at`

// CreateBooking runs the availability check and the insert inside a
// single transaction so two concurrent requests for overlapping dates
// cannot both pass the check. The booking counter increment commits
// atomically with the insert.
//
// Two half-open ranges [s1,e1) and [s2,e2) overlap iff
// s1 < e2 AND s2 < e1; adjacent stays (checkout day == checkin day)
// do not conflict.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var isAvailable bool
	var maxOccupancy int
	err = tx.QueryRowContext(ctx,
		`SELECT is_available, max_occupancy FROM properties WHERE id = ?`,
		booking.PropertyID).Scan(&isAvailable, &maxOccupancy)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load property in tx: %w", err)
	}
	if !isAvailable {
		return ErrPropertyUnavailable
	}
	if booking.Guests > maxOccupancy {
		return &OccupancyError{Max: maxOccupancy}
	}

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE property_id = ? AND status IN (?, ?)
		 AND start_date < ? AND ? < end_date`,
		booking.PropertyID, models.StatusPending, models.StatusConfirmed,
		booking.EndDate.Format(models.DateLayout),
		booking.StartDate.Format(models.DateLayout),
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("failed to check date conflicts in tx: %w", err)
	}
	if conflicts > 0 {
		return ErrDateConflict
	}

	now := time.Now()
	if booking.Status == "" {
		booking.Status = models.StatusPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentPending
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, property_id, start_date, end_date, guests, rooms,
			total_amount, status, payment_status, special_requests, contact_phone,
			contact_email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.UserID,
		booking.PropertyID,
		booking.StartDate.Format(models.DateLayout),
		booking.EndDate.Format(models.DateLayout),
		booking.Guests,
		booking.Rooms,
		booking.TotalAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.SpecialRequests,
		booking.ContactPhone,
		booking.ContactEmail,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE properties SET booking_count = booking_count + 1 WHERE id = ?`,
		booking.PropertyID)
	if err != nil {
		return fmt.Errorf("failed to increment booking count in tx: %w", err)
	}

	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return tx.Commit()
}

// HasDateConflict is the read-only variant used by availability
// probes; booking creation re-checks inside its transaction.
func (db *DB) HasDateConflict(ctx context.Context, propertyID int64, start, end time.Time) (bool, error) {
	var conflicts int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE property_id = ? AND status IN (?, ?)
		 AND start_date < ? AND ? < end_date`,
		propertyID, models.StatusPending, models.StatusConfirmed,
		end.Format(models.DateLayout), start.Format(models.DateLayout),
	).Scan(&conflicts)
	if err != nil {
		return false, fmt.Errorf("failed to check date conflict: %w", err)
	}
	return conflicts > 0, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `, p.title, p.location, u.name, u.email
			  FROM bookings b
			  JOIN properties p ON p.id = b.property_id
			  JOIN users u ON u.id = b.user_id
			  WHERE b.id = ?`
	row := db.QueryRowContext(ctx, query, id)
	return scanBooking(row)
}

// BookingFilter narrows booking listings; zero values are ignored.
type BookingFilter struct {
	UserID     int64
	PropertyID int64
	Status     string
	Page       models.Page
}

func (db *DB) ListBookings(ctx context.Context, filter BookingFilter) ([]*models.Booking, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if filter.UserID != 0 {
		where = append(where, "b.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.PropertyID != 0 {
		where = append(where, "b.property_id = ?")
		args = append(args, filter.PropertyID)
	}
	if filter.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, filter.Status)
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM bookings b WHERE ` + cond
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := `SELECT ` + bookingColumns + `, p.title, p.location, u.name, u.email
			  FROM bookings b
			  JOIN properties p ON p.id = b.property_id
			  JOIN users u ON u.id = b.user_id
			  WHERE ` + cond + `
			  ORDER BY b.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, total, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status, adminNotes string) error {
	sets := []string{"status = ?", "updated_at = ?"}
	args := []any{status, time.Now()}
	if adminNotes != "" {
		sets = append(sets, "admin_notes = ?")
		args = append(args, adminNotes)
	}
	args = append(args, id)

	query := `UPDATE bookings SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return requireRows(res)
}

func (db *DB) CancelBooking(ctx context.Context, id int64, reason string) error {
	query := `UPDATE bookings SET status = ?, cancellation_reason = ?, updated_at = ?
			  WHERE id = ?`
	res, err := db.ExecContext(ctx, query, models.StatusCancelled, reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	return requireRows(res)
}

func (db *DB) GetBookingStats(ctx context.Context) (*models.BookingStats, error) {
	var stats models.BookingStats
	query := `SELECT COUNT(*),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status IN (?, ?) THEN total_amount ELSE 0 END), 0)
			  FROM bookings`
	err := db.QueryRowContext(ctx, query,
		models.StatusPending, models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted,
		models.StatusConfirmed, models.StatusCompleted,
	).Scan(&stats.Total, &stats.Pending, &stats.Confirmed, &stats.Cancelled,
		&stats.Completed, &stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}
	return &stats, nil
}

// GetMonthlyBookingStats groups confirmed/completed bookings of the
// current year by creation month.
func (db *DB) GetMonthlyBookingStats(ctx context.Context) ([]models.MonthlyBookingStats, error) {
	yearStart := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	query := `SELECT strftime('%Y-%m', created_at) AS month, COUNT(*), COALESCE(SUM(total_amount), 0)
			  FROM bookings
			  WHERE status IN (?, ?) AND created_at >= ?
			  GROUP BY month ORDER BY month ASC`
	rows, err := db.QueryContext(ctx, query,
		models.StatusConfirmed, models.StatusCompleted, yearStart)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly booking stats: %w", err)
	}
	defer rows.Close()

	var stats []models.MonthlyBookingStats
	for rows.Next() {
		var m models.MonthlyBookingStats
		if err := rows.Scan(&m.Month, &m.Bookings, &m.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan monthly stats: %w", err)
		}
		stats = append(stats, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly stats: %w", err)
	}
	return stats, nil
}

func (db *DB) GetRecentBookings(ctx context.Context, limit int) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `, p.title, p.location, u.name, u.email
			  FROM bookings b
			  JOIN properties p ON p.id = b.property_id
			  JOIN users u ON u.id = b.user_id
			  ORDER BY b.created_at DESC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent bookings: %w", err)
	}
	return bookings, nil
}

// GetBookingsByDateRange returns bookings whose stay intersects the
// given period, used by the admin export.
func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `, p.title, p.location, u.name, u.email
			  FROM bookings b
			  JOIN properties p ON p.id = b.property_id
			  JOIN users u ON u.id = b.user_id
			  WHERE b.start_date < ? AND ? < b.end_date
			  ORDER BY b.start_date, b.created_at`
	rows, err := db.QueryContext(ctx, query,
		end.Format(models.DateLayout), start.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.PropertyID, &b.StartDate, &b.EndDate,
		&b.Guests, &b.Rooms, &b.TotalAmount, &b.Status, &b.PaymentStatus, &b.SpecialRequests,
		&b.ContactPhone, &b.ContactEmail, &b.CancellationReason, &b.AdminNotes,
		&b.CreatedAt, &b.UpdatedAt,
		&b.PropertyTitle, &b.PropertyLocation, &b.UserName, &b.UserEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}
