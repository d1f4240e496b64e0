package repository

import (
	"context"
	"testing"

	"abusebin/internal/authz"
	"abusebin/internal/database"
	"abusebin/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite()
	require.NoError(t, err)
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, uid uint, username string, role authz.Role) *models.User {
	t.Helper()
	user := &models.User{
		UID:      uid,
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func mustCreatePaste(t *testing.T, db *gorm.DB, slug, title, authorID string) *models.Paste {
	t.Helper()
	paste := &models.Paste{
		ID:       slug,
		Title:    title,
		Content:  "content of " + title,
		AuthorID: authorID,
	}
	require.NoError(t, NewPasteRepository(db).Create(context.Background(), paste))
	return paste
}
