package database

import (
	"context"
	"testing"

	"stayhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveProperty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)

	saved := &models.SavedProperty{
		UserID:     user.ID,
		PropertyID: property.ID,
		Notes:      "close to the beach",
	}
	require.NoError(t, db.SaveProperty(ctx, saved))
	assert.NotZero(t, saved.ID)

	// Saving the same property again is rejected.
	err := db.SaveProperty(ctx, &models.SavedProperty{UserID: user.ID, PropertyID: property.ID})
	assert.ErrorIs(t, err, ErrAlreadySaved)

	// Saving a nonexistent property is rejected.
	err = db.SaveProperty(ctx, &models.SavedProperty{UserID: user.ID, PropertyID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSavedProperties(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	other := createTestUser(t, db, "other@example.com")
	p1 := createTestProperty(t, db, 4)
	p2 := createTestProperty(t, db, 2)

	require.NoError(t, db.SaveProperty(ctx, &models.SavedProperty{UserID: user.ID, PropertyID: p1.ID}))
	require.NoError(t, db.SaveProperty(ctx, &models.SavedProperty{UserID: user.ID, PropertyID: p2.ID}))
	require.NoError(t, db.SaveProperty(ctx, &models.SavedProperty{UserID: other.ID, PropertyID: p1.ID}))

	saved, total, err := db.ListSavedProperties(ctx, user.ID, models.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, saved, 2)

	// The full property rides along with each bookmark.
	require.NotNil(t, saved[0].Property)
	assert.NotEmpty(t, saved[0].Property.Title)
}

func TestUpdateSavedPropertyNotes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)
	require.NoError(t, db.SaveProperty(ctx, &models.SavedProperty{UserID: user.ID, PropertyID: property.ID}))

	require.NoError(t, db.UpdateSavedPropertyNotes(ctx, user.ID, property.ID, "ask about parking"))

	got, err := db.GetSavedProperty(ctx, user.ID, property.ID)
	require.NoError(t, err)
	assert.Equal(t, "ask about parking", got.Notes)

	assert.ErrorIs(t, db.UpdateSavedPropertyNotes(ctx, user.ID, 9999, "x"), ErrNotFound)
}

func TestUnsaveProperty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "guest@example.com")
	property := createTestProperty(t, db, 4)
	require.NoError(t, db.SaveProperty(ctx, &models.SavedProperty{UserID: user.ID, PropertyID: property.ID}))

	require.NoError(t, db.UnsaveProperty(ctx, user.ID, property.ID))

	_, err := db.GetSavedProperty(ctx, user.ID, property.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.UnsaveProperty(ctx, user.ID, property.ID), ErrNotFound)
}
