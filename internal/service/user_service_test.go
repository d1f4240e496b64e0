package service

import (
	"context"
	"testing"
	"time"

	"abusebin/internal/authz"
	"abusebin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func registeredUser(id string, role authz.Role) *models.User {
	return &models.User{
		ID:        id,
		UID:       2,
		Username:  "someone",
		Role:      role,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates user with defaults and follows founder", func(t *testing.T) {
		t.Parallel()
		founder := &models.User{ID: "founder-id", UID: 1, Username: "wounds"}
		var created *models.User
		users := &userRepoStub{
			createFn: func(_ context.Context, u *models.User) error {
				created = u
				u.ID = "new-id"
				return nil
			},
			getByUIDFn: func(_ context.Context, uid uint) (*models.User, error) {
				if uid == 1 {
					return founder, nil
				}
				return nil, models.NewNotFoundError("user not found")
			},
			nextUIDFn: func(_ context.Context) (uint, error) { return 7, nil },
		}
		var followed [][2]string
		follows := &followRepoStub{
			followFn: func(_ context.Context, followerID, followingID string) error {
				followed = append(followed, [2]string{followerID, followingID})
				return nil
			},
		}
		svc := NewUserService(users, follows, &pasteRepoStub{})

		user, err := svc.Register(context.Background(), RegisterInput{
			Username: "newbie",
			Email:    "newbie@example.com",
			Password: "SecurePass12!@",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, uint(7), user.UID)
		assert.Equal(t, authz.RoleUser, user.Role)
		assert.Equal(t, authz.BasicNameColors[0], user.NameColor)
		assert.NotEqual(t, "SecurePass12!@", created.Password, "password must be hashed")
		require.Len(t, followed, 1)
		assert.Equal(t, [2]string{"new-id", "founder-id"}, followed[0])
	})

	t.Run("rejects taken username", func(t *testing.T) {
		t.Parallel()
		users := &userRepoStub{
			getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
				return &models.User{ID: "holder", Username: "taken"}, nil
			},
		}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "taken",
			Email:    "x@example.com",
			Password: "SecurePass12!@",
		})
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("banned holder frees the username", func(t *testing.T) {
		t.Parallel()
		holder := &models.User{ID: "holder", UID: 3, Username: "ghost", Banned: true}
		var renamed string
		users := &userRepoStub{
			getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
				if username == "ghost" {
					return holder, nil
				}
				return nil, nil
			},
			updateFn: func(_ context.Context, u *models.User) error {
				if u.ID == "holder" {
					renamed = u.Username
				}
				return nil
			},
		}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "ghost",
			Email:    "ghost@example.com",
			Password: "SecurePass12!@",
		})
		require.NoError(t, err)
		assert.Equal(t, "ghost#banned3", renamed)
	})

	t.Run("banned holder frees the email", func(t *testing.T) {
		t.Parallel()
		holder := &models.User{ID: "holder", UID: 4, Email: "ghost@example.com", Banned: true}
		var freed string
		users := &userRepoStub{
			getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
				if email == "ghost@example.com" {
					return holder, nil
				}
				return nil, nil
			},
			updateFn: func(_ context.Context, u *models.User) error {
				if u.ID == "holder" {
					freed = u.Email
				}
				return nil
			},
		}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "newcomer",
			Email:    "ghost@example.com",
			Password: "SecurePass12!@",
		})
		require.NoError(t, err)
		assert.Equal(t, "ghost@example.com#banned4", freed)
	})

	t.Run("live holder's email still blocks", func(t *testing.T) {
		t.Parallel()
		users := &userRepoStub{
			getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
				return &models.User{ID: "holder", UID: 5, Email: "ghost@example.com"}, nil
			},
		}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "newcomer",
			Email:    "ghost@example.com",
			Password: "SecurePass12!@",
		})
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(&userRepoStub{}, &followRepoStub{}, &pasteRepoStub{})
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "newbie",
			Email:    "newbie@example.com",
			Password: "short",
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!@"), bcrypt.MinCost)
	require.NoError(t, err)

	makeUsers := func(u *models.User) *userRepoStub {
		return &userRepoStub{
			getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
				if username == u.Username {
					return u, nil
				}
				return nil, nil
			},
		}
	}

	t.Run("success marks online", func(t *testing.T) {
		t.Parallel()
		u := &models.User{ID: "u1", Username: "wounds", Password: string(hash)}
		svc := NewUserService(makeUsers(u), &followRepoStub{}, &pasteRepoStub{})
		got, err := svc.Authenticate(context.Background(), LoginInput{Username: "wounds", Password: "SecurePass12!@"})
		require.NoError(t, err)
		assert.True(t, got.IsOnline)
		assert.NotNil(t, got.LastSeen)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		u := &models.User{ID: "u1", Username: "wounds", Password: string(hash)}
		svc := NewUserService(makeUsers(u), &followRepoStub{}, &pasteRepoStub{})
		_, err := svc.Authenticate(context.Background(), LoginInput{Username: "wounds", Password: "nope"})
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("banned account is rejected with reason", func(t *testing.T) {
		t.Parallel()
		u := &models.User{ID: "u1", Username: "wounds", Password: string(hash), Banned: true, BanReason: "spam"}
		svc := NewUserService(makeUsers(u), &followRepoStub{}, &pasteRepoStub{})
		_, err := svc.Authenticate(context.Background(), LoginInput{Username: "wounds", Password: "SecurePass12!@"})
		assertAppErrorCode(t, err, models.CodeForbidden)
		assert.Contains(t, err.Error(), "spam")
	})
}

func TestUserService_UpdateProfile_Rename(t *testing.T) {
	t.Parallel()

	t.Run("weekly role blocked inside window with remaining days", func(t *testing.T) {
		t.Parallel()
		threeDaysAgo := time.Now().Add(-3 * 24 * time.Hour)
		u := registeredUser("u1", authz.RoleKitty)
		u.LastUsernameChange = &threeDaysAgo
		users := &userRepoStub{getByIDFn: userByID(u)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   "u1",
			Username: strPtr("freshname"),
		})
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeForbidden, appErr.Code)
		assert.Equal(t, 4, appErr.RemainingDays)
	})

	t.Run("weekly role allowed past window", func(t *testing.T) {
		t.Parallel()
		eightDaysAgo := time.Now().Add(-8 * 24 * time.Hour)
		u := registeredUser("u1", authz.RoleKitty)
		u.LastUsernameChange = &eightDaysAgo
		users := &userRepoStub{getByIDFn: userByID(u)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})

		got, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   "u1",
			Username: strPtr("freshname"),
		})
		require.NoError(t, err)
		assert.Equal(t, "freshname", got.Username)
		require.NotNil(t, got.LastUsernameChange)
		assert.WithinDuration(t, time.Now(), *got.LastUsernameChange, 5*time.Second)
	})

	t.Run("lowest tier never renames", func(t *testing.T) {
		t.Parallel()
		u := registeredUser("u1", authz.RoleUser)
		users := &userRepoStub{getByIDFn: userByID(u)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   "u1",
			Username: strPtr("freshname"),
		})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

func TestUserService_UpdateProfile_Cosmetics(t *testing.T) {
	t.Parallel()

	t.Run("locked role cannot change color", func(t *testing.T) {
		t.Parallel()
		u := registeredUser("u1", authz.RoleRich)
		users := &userRepoStub{getByIDFn: userByID(u)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:    "u1",
			NameColor: strPtr("rgb(255, 0, 0)"),
		})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("basic role limited to basic palette", func(t *testing.T) {
		t.Parallel()
		u := registeredUser("u1", authz.RoleUser)
		users := &userRepoStub{getByIDFn: userByID(u)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:    "u1",
			NameColor: strPtr("rgb(255, 0, 0)"),
		})
		assertAppErrorCode(t, err, models.CodeForbidden)

		got, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:    "u1",
			NameColor: strPtr(authz.BasicNameColors[1]),
		})
		require.NoError(t, err)
		assert.Equal(t, authz.BasicNameColors[1], got.NameColor)
	})

	t.Run("privileged role gets full palette", func(t *testing.T) {
		t.Parallel()
		u := registeredUser("u1", authz.RoleKitty)
		users := &userRepoStub{getByIDFn: userByID(u)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})

		got, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:    "u1",
			NameColor: strPtr("rgb(255, 0, 0)"),
		})
		require.NoError(t, err)
		assert.Equal(t, "rgb(255, 0, 0)", got.NameColor)
	})

	t.Run("effects require effect access", func(t *testing.T) {
		t.Parallel()
		u := registeredUser("u1", authz.RoleUser)
		users := &userRepoStub{getByIDFn: userByID(u)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:       "u1",
			ActiveEffect: strPtr("sparkle"),
		})
		assertAppErrorCode(t, err, models.CodeForbidden)

		u.HasEffectPermission = true
		got, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:       "u1",
			ActiveEffect: strPtr("sparkle"),
		})
		require.NoError(t, err)
		assert.Equal(t, "sparkle", got.ActiveEffect)
	})
}

func TestUserService_FollowRules(t *testing.T) {
	t.Parallel()

	t.Run("self follow rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(&userRepoStub{}, &followRepoStub{}, &pasteRepoStub{})
		err := svc.Follow(context.Background(), "u1", "u1")
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("admin to admin follow rejected", func(t *testing.T) {
		t.Parallel()
		a := &models.User{ID: "a", Role: authz.RoleAdmin}
		b := &models.User{ID: "b", Role: authz.RoleAdmin}
		users := &userRepoStub{getByIDFn: userByID(a, b)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})
		err := svc.Follow(context.Background(), "a", "b")
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("unfollowing the founder always fails", func(t *testing.T) {
		t.Parallel()
		founder := &models.User{ID: "f", UID: 1, Role: authz.RoleAdmin}
		caller := &models.User{ID: "c", UID: 9, Role: authz.RoleAdmin, SuperAdmin: true}
		users := &userRepoStub{getByIDFn: userByID(founder, caller)}
		svc := NewUserService(users, &followRepoStub{}, &pasteRepoStub{})
		err := svc.Unfollow(context.Background(), "c", "f")
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("regular unfollow succeeds", func(t *testing.T) {
		t.Parallel()
		target := &models.User{ID: "t", UID: 5}
		users := &userRepoStub{getByIDFn: userByID(target)}
		removed := false
		follows := &followRepoStub{
			unfollowFn: func(_ context.Context, _, _ string) error {
				removed = true
				return nil
			},
		}
		svc := NewUserService(users, follows, &pasteRepoStub{})
		require.NoError(t, svc.Unfollow(context.Background(), "c", "t"))
		assert.True(t, removed)
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!@"), bcrypt.MinCost)
	require.NoError(t, err)

	newService := func(deleted *string) *UserService {
		user := registeredUser("u1", authz.RoleUser)
		user.Password = string(hash)
		users := &userRepoStub{
			getByIDFn: userByID(user),
			deleteFn: func(_ context.Context, id string) error {
				*deleted = id
				return nil
			},
		}
		return NewUserService(users, &followRepoStub{}, &pasteRepoStub{})
	}

	t.Run("correct password deletes", func(t *testing.T) {
		t.Parallel()
		var deleted string
		svc := newService(&deleted)

		require.NoError(t, svc.DeleteAccount(context.Background(), "u1", "SecurePass12!@"))
		assert.Equal(t, "u1", deleted)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		t.Parallel()
		var deleted string
		svc := newService(&deleted)

		err := svc.DeleteAccount(context.Background(), "u1", "not-my-password")
		assertAppErrorCode(t, err, models.CodeUnauthorized)
		assert.Empty(t, deleted)
	})
}

func TestUserService_Stats(t *testing.T) {
	t.Parallel()

	u := registeredUser("u1", authz.RoleUser)
	users := &userRepoStub{getByIDFn: userByID(u)}
	pastes := &pasteRepoStub{
		countByAuthorFn:      func(_ context.Context, _ string) (int64, error) { return 4, nil },
		totalLikesByAuthorFn: func(_ context.Context, _ string) (int64, error) { return 11, nil },
	}
	svc := NewUserService(users, &followRepoStub{}, pastes)

	stats, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.PasteCount)
	assert.Equal(t, int64(11), stats.TotalLikes)
}
