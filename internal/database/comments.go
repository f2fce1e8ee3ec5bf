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

const commentColumns = `c.id, c.user_id, c.property_id, c.comment, c.status,
	c.admin_response, c.created_at, c.updated_at`

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now()
	if comment.Status == "" {
		comment.Status = models.ModerationPending
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO comments (user_id, property_id, comment, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.UserID, comment.PropertyID, comment.Comment, comment.Status, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.CreatedAt = now
	comment.UpdatedAt = now
	return nil
}

func (db *DB) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + `, u.name, p.title
			  FROM comments c
			  JOIN users u ON u.id = c.user_id
			  JOIN properties p ON p.id = c.property_id
			  WHERE c.id = ?`
	row := db.QueryRowContext(ctx, query, id)
	return scanComment(row)
}

// CommentFilter narrows comment listings; zero values are ignored.
type CommentFilter struct {
	PropertyID int64
	UserID     int64
	Status     string
	Page       models.Page
}

func (db *DB) ListComments(ctx context.Context, filter CommentFilter) ([]*models.Comment, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if filter.PropertyID != 0 {
		where = append(where, "c.property_id = ?")
		args = append(args, filter.PropertyID)
	}
	if filter.UserID != 0 {
		where = append(where, "c.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		where = append(where, "c.status = ?")
		args = append(args, filter.Status)
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM comments c WHERE ` + cond
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `SELECT ` + commentColumns + `, u.name, p.title
			  FROM comments c
			  JOIN users u ON u.id = c.user_id
			  JOIN properties p ON p.id = c.property_id
			  WHERE ` + cond + `
			  ORDER BY c.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, total, nil
}

func (db *DB) UpdateComment(ctx context.Context, id int64, text string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE comments SET comment = ?, status = ?, updated_at = ? WHERE id = ?`,
		text, models.ModerationPending, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return requireRows(res)
}

func (db *DB) UpdateCommentStatus(ctx context.Context, id int64, status, adminResponse string) error {
	sets := []string{"status = ?", "updated_at = ?"}
	args := []any{status, time.Now()}
	if adminResponse != "" {
		sets = append(sets, "admin_response = ?")
		args = append(args, adminResponse)
	}
	args = append(args, id)

	query := `UPDATE comments SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update comment status: %w", err)
	}
	return requireRows(res)
}

func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return requireRows(res)
}

func (db *DB) GetCommentStats(ctx context.Context) (*models.CommentStats, error) {
	var stats models.CommentStats
	query := `SELECT COUNT(*),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
			  FROM comments`
	err := db.QueryRowContext(ctx, query,
		models.ModerationPending, models.ModerationApproved, models.ModerationRejected,
	).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment stats: %w", err)
	}
	return &stats, nil
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(
		&c.ID, &c.UserID, &c.PropertyID, &c.Comment, &c.Status,
		&c.AdminResponse, &c.CreatedAt, &c.UpdatedAt,
		&c.UserName, &c.PropertyTitle,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}
	return &c, nil
}
