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

const userColumns = `id, name, email, password_hash, phone, address, avatar,
	role, status, verified, last_active, created_at, updated_at`

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email, password_hash, phone, address, avatar,
				role, status, verified, last_active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now()
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.UserActive
	}
	result, err := db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Address,
		user.Avatar,
		user.Role,
		user.Status,
		user.Verified,
		now,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.LastActive = now
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return db.queryUser(ctx, query, id)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return db.queryUser(ctx, query, email)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Address,
		&user.Avatar, &user.Role, &user.Status, &user.Verified, &user.LastActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// UpdateUserProfile persists only profile fields; role, status and
// credentials have dedicated updates.
func (db *DB) UpdateUserProfile(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = ?, phone = ?, address = ?, avatar = ?, updated_at = ?
			  WHERE id = ?`
	res, err := db.ExecContext(ctx, query,
		user.Name, user.Phone, user.Address, user.Avatar, time.Now(), user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return requireRows(res)
}

func (db *DB) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return requireRows(res)
}

// UpdateUserStatus applies the admin-editable account fields. Nil
// pointers leave the corresponding column untouched.
func (db *DB) UpdateUserStatus(ctx context.Context, id int64, status *string, verified *bool) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now()}
	if status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *status)
	}
	if verified != nil {
		sets = append(sets, "verified = ?")
		args = append(args, *verified)
	}
	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return requireRows(res)
}

func (db *DB) UpdateUserLastActive(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_active = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	_, err := db.ExecContext(ctx, query, now, now, id)
	return err
}

// DeleteUser removes the row. Guards (admin accounts, active
// bookings) are enforced by the caller before this point.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRows(res)
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search string
	Status string
	Role   string
	Page   models.Page
}

func (db *DB) ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if filter.Search != "" {
		where = append(where, "(name LIKE ? OR email LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Role != "" {
		where = append(where, "role = ?")
		args = append(args, filter.Role)
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM users WHERE ` + cond
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + cond + `
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Address,
			&user.Avatar, &user.Role, &user.Status, &user.Verified, &user.LastActive,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, total, nil
}

// CountActiveBookingsForUser counts pending/confirmed bookings; a
// non-zero result blocks user deletion.
func (db *DB) CountActiveBookingsForUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = ? AND status IN (?, ?)`
	var count int
	err := db.QueryRowContext(ctx, query, userID, models.StatusPending, models.StatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

func (db *DB) GetUserStatistics(ctx context.Context, userID int64) (*models.UserStatistics, error) {
	var stats models.UserStatistics

	query := `SELECT COUNT(*),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN total_amount ELSE 0 END), 0)
			  FROM bookings WHERE user_id = ?`
	err := db.QueryRowContext(ctx, query,
		models.StatusCompleted, models.StatusCancelled, models.StatusCompleted, userID).
		Scan(&stats.TotalBookings, &stats.CompletedBookings, &stats.CancelledBookings, &stats.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("failed to get user booking stats: %w", err)
	}

	query = `SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE user_id = ?`
	if err := db.QueryRowContext(ctx, query, userID).Scan(&stats.TotalReviews, &stats.AvgRating); err != nil {
		return nil, fmt.Errorf("failed to get user review stats: %w", err)
	}

	query = `SELECT COUNT(*) FROM saved_properties WHERE user_id = ?`
	if err := db.QueryRowContext(ctx, query, userID).Scan(&stats.SavedProperties); err != nil {
		return nil, fmt.Errorf("failed to get saved property count: %w", err)
	}

	return &stats, nil
}

// requireRows converts a zero-row update/delete into ErrNotFound.
func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
