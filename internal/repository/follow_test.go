package repository

import (
	"context"
	"testing"

	"abusebin/internal/authz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	a := mustCreateUser(t, db, 1, "alpha", authz.RoleUser)
	b := mustCreateUser(t, db, 2, "beta", authz.RoleUser)

	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))

	following, err := repo.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Duplicate follow is idempotent.
	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))

	followers, err := repo.FollowerIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, followers)

	require.NoError(t, repo.Unfollow(ctx, a.ID, b.ID))
	following, err = repo.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowRepositoryRemoveAllFor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	a := mustCreateUser(t, db, 1, "alpha", authz.RoleUser)
	b := mustCreateUser(t, db, 2, "beta", authz.RoleUser)
	c := mustCreateUser(t, db, 3, "gamma", authz.RoleUser)

	require.NoError(t, repo.Follow(ctx, a.ID, b.ID))
	require.NoError(t, repo.Follow(ctx, b.ID, c.ID))
	require.NoError(t, repo.Follow(ctx, c.ID, a.ID))

	require.NoError(t, repo.RemoveAllFor(ctx, b.ID))

	followers, err := repo.FollowerIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)

	followingB, err := repo.FollowingIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, followingB)

	// Unrelated edge survives.
	stillFollowing, err := repo.IsFollowing(ctx, c.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, stillFollowing)
}
