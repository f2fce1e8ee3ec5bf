package database

import (
	"context"
	"testing"

	"stayhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	comment := &models.Comment{
		UserID:     user.ID,
		PropertyID: property.ID,
		Comment:    "Is the pool open in winter?",
	}
	require.NoError(t, db.CreateComment(ctx, comment))
	assert.NotZero(t, comment.ID)
	assert.Equal(t, models.ModerationPending, comment.Status)

	got, err := db.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, got.UserName)
	assert.Equal(t, property.Title, got.PropertyTitle)
}

func TestListComments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	c1 := &models.Comment{UserID: user.ID, PropertyID: property.ID, Comment: "First question here."}
	c2 := &models.Comment{UserID: user.ID, PropertyID: property.ID, Comment: "Second question here."}
	require.NoError(t, db.CreateComment(ctx, c1))
	require.NoError(t, db.CreateComment(ctx, c2))
	require.NoError(t, db.UpdateCommentStatus(ctx, c1.ID, models.ModerationApproved, ""))

	page := models.Page{Page: 1, Limit: 10}

	_, total, err := db.ListComments(ctx, CommentFilter{PropertyID: property.ID, Page: page})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	comments, total, err := db.ListComments(ctx, CommentFilter{
		PropertyID: property.ID, Status: models.ModerationApproved, Page: page,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, c1.ID, comments[0].ID)
}

func TestUpdateComment_ResetsModeration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	comment := &models.Comment{UserID: user.ID, PropertyID: property.ID, Comment: "Original text."}
	require.NoError(t, db.CreateComment(ctx, comment))
	require.NoError(t, db.UpdateCommentStatus(ctx, comment.ID, models.ModerationApproved, ""))

	// Edits go back through moderation.
	require.NoError(t, db.UpdateComment(ctx, comment.ID, "Edited text."))

	got, err := db.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited text.", got.Comment)
	assert.Equal(t, models.ModerationPending, got.Status)
}

func TestDeleteComment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	comment := &models.Comment{UserID: user.ID, PropertyID: property.ID, Comment: "Short lived."}
	require.NoError(t, db.CreateComment(ctx, comment))
	require.NoError(t, db.DeleteComment(ctx, comment.ID))

	_, err := db.GetComment(ctx, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCommentStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	c1 := &models.Comment{UserID: user.ID, PropertyID: property.ID, Comment: "One."}
	c2 := &models.Comment{UserID: user.ID, PropertyID: property.ID, Comment: "Two."}
	require.NoError(t, db.CreateComment(ctx, c1))
	require.NoError(t, db.CreateComment(ctx, c2))
	require.NoError(t, db.UpdateCommentStatus(ctx, c1.ID, models.ModerationRejected, "spam"))

	stats, err := db.GetCommentStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Rejected)
}
