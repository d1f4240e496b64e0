package service

import (
	"context"
	"testing"
	"time"

	"abusebin/internal/models"

	"github.com/stretchr/testify/assert"
)

// Stub repositories with overridable behavior per test. Nil funcs fall back
// to empty results.

type userRepoStub struct {
	createFn        func(ctx context.Context, user *models.User) error
	getByIDFn       func(ctx context.Context, id string) (*models.User, error)
	getByUIDFn      func(ctx context.Context, uid uint) (*models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	updateFn        func(ctx context.Context, user *models.User) error
	deleteFn        func(ctx context.Context, id string) error
	listFn          func(ctx context.Context, limit, offset int) ([]models.User, error)
	nextUIDFn       func(ctx context.Context) (uint, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return nil
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("user not found")
}

func (s *userRepoStub) GetByUID(ctx context.Context, uid uint) (*models.User, error) {
	if s.getByUIDFn != nil {
		return s.getByUIDFn(ctx, uid)
	}
	return nil, models.NewNotFoundError("user not found")
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getByUsernameFn != nil {
		return s.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}

func (s *userRepoStub) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *userRepoStub) NextUID(ctx context.Context) (uint, error) {
	if s.nextUIDFn != nil {
		return s.nextUIDFn(ctx)
	}
	return 1, nil
}

type followRepoStub struct {
	followFn       func(ctx context.Context, followerID, followingID string) error
	unfollowFn     func(ctx context.Context, followerID, followingID string) error
	isFollowingFn  func(ctx context.Context, followerID, followingID string) (bool, error)
	followerIDsFn  func(ctx context.Context, userID string) ([]string, error)
	followingIDsFn func(ctx context.Context, userID string) ([]string, error)
	removeAllForFn func(ctx context.Context, userID string) error
}

func (s *followRepoStub) Follow(ctx context.Context, followerID, followingID string) error {
	if s.followFn != nil {
		return s.followFn(ctx, followerID, followingID)
	}
	return nil
}

func (s *followRepoStub) Unfollow(ctx context.Context, followerID, followingID string) error {
	if s.unfollowFn != nil {
		return s.unfollowFn(ctx, followerID, followingID)
	}
	return nil
}

func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if s.isFollowingFn != nil {
		return s.isFollowingFn(ctx, followerID, followingID)
	}
	return false, nil
}

func (s *followRepoStub) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	if s.followerIDsFn != nil {
		return s.followerIDsFn(ctx, userID)
	}
	return []string{}, nil
}

func (s *followRepoStub) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	if s.followingIDsFn != nil {
		return s.followingIDsFn(ctx, userID)
	}
	return []string{}, nil
}

func (s *followRepoStub) RemoveAllFor(ctx context.Context, userID string) error {
	if s.removeAllForFn != nil {
		return s.removeAllForFn(ctx, userID)
	}
	return nil
}

type pasteRepoStub struct {
	createFn             func(ctx context.Context, paste *models.Paste) error
	getByIDFn            func(ctx context.Context, id string) (*models.Paste, error)
	slugExistsFn         func(ctx context.Context, slug string) (bool, error)
	titleExistsFn        func(ctx context.Context, title string) (bool, error)
	lastCreatedAtFn      func(ctx context.Context, authorID string) (*time.Time, error)
	listFn               func(ctx context.Context, limit, offset int) ([]models.Paste, error)
	listByAuthorFn       func(ctx context.Context, authorID string) ([]models.Paste, error)
	updateFn             func(ctx context.Context, paste *models.Paste) error
	deleteFn             func(ctx context.Context, id string) error
	incrementViewsFn     func(ctx context.Context, id string) error
	resetViewsFn         func(ctx context.Context, id string) error
	setPinnedFn          func(ctx context.Context, id string, pinned bool) error
	countByAuthorFn      func(ctx context.Context, authorID string) (int64, error)
	totalLikesByAuthorFn func(ctx context.Context, authorID string) (int64, error)
	getReactionFn        func(ctx context.Context, pasteID, userID string) (*models.PasteReaction, error)
	setReactionFn        func(ctx context.Context, reaction *models.PasteReaction) error
	removeReactionFn     func(ctx context.Context, pasteID, userID string) error
	reactionUserIDsFn    func(ctx context.Context, pasteID string, kind models.ReactionType) ([]string, error)
}

func (s *pasteRepoStub) Create(ctx context.Context, paste *models.Paste) error {
	if s.createFn != nil {
		return s.createFn(ctx, paste)
	}
	return nil
}

func (s *pasteRepoStub) GetByID(ctx context.Context, id string) (*models.Paste, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("paste not found")
}

func (s *pasteRepoStub) SlugExists(ctx context.Context, slug string) (bool, error) {
	if s.slugExistsFn != nil {
		return s.slugExistsFn(ctx, slug)
	}
	return false, nil
}

func (s *pasteRepoStub) TitleExists(ctx context.Context, title string) (bool, error) {
	if s.titleExistsFn != nil {
		return s.titleExistsFn(ctx, title)
	}
	return false, nil
}

func (s *pasteRepoStub) LastCreatedAt(ctx context.Context, authorID string) (*time.Time, error) {
	if s.lastCreatedAtFn != nil {
		return s.lastCreatedAtFn(ctx, authorID)
	}
	return nil, nil
}

func (s *pasteRepoStub) List(ctx context.Context, limit, offset int) ([]models.Paste, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *pasteRepoStub) ListByAuthor(ctx context.Context, authorID string) ([]models.Paste, error) {
	if s.listByAuthorFn != nil {
		return s.listByAuthorFn(ctx, authorID)
	}
	return nil, nil
}

func (s *pasteRepoStub) Update(ctx context.Context, paste *models.Paste) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, paste)
	}
	return nil
}

func (s *pasteRepoStub) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *pasteRepoStub) IncrementViews(ctx context.Context, id string) error {
	if s.incrementViewsFn != nil {
		return s.incrementViewsFn(ctx, id)
	}
	return nil
}

func (s *pasteRepoStub) ResetViews(ctx context.Context, id string) error {
	if s.resetViewsFn != nil {
		return s.resetViewsFn(ctx, id)
	}
	return nil
}

func (s *pasteRepoStub) SetPinned(ctx context.Context, id string, pinned bool) error {
	if s.setPinnedFn != nil {
		return s.setPinnedFn(ctx, id, pinned)
	}
	return nil
}

func (s *pasteRepoStub) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	if s.countByAuthorFn != nil {
		return s.countByAuthorFn(ctx, authorID)
	}
	return 0, nil
}

func (s *pasteRepoStub) TotalLikesByAuthor(ctx context.Context, authorID string) (int64, error) {
	if s.totalLikesByAuthorFn != nil {
		return s.totalLikesByAuthorFn(ctx, authorID)
	}
	return 0, nil
}

func (s *pasteRepoStub) GetReaction(ctx context.Context, pasteID, userID string) (*models.PasteReaction, error) {
	if s.getReactionFn != nil {
		return s.getReactionFn(ctx, pasteID, userID)
	}
	return nil, nil
}

func (s *pasteRepoStub) SetReaction(ctx context.Context, reaction *models.PasteReaction) error {
	if s.setReactionFn != nil {
		return s.setReactionFn(ctx, reaction)
	}
	return nil
}

func (s *pasteRepoStub) RemoveReaction(ctx context.Context, pasteID, userID string) error {
	if s.removeReactionFn != nil {
		return s.removeReactionFn(ctx, pasteID, userID)
	}
	return nil
}

func (s *pasteRepoStub) ReactionUserIDs(ctx context.Context, pasteID string, kind models.ReactionType) ([]string, error) {
	if s.reactionUserIDsFn != nil {
		return s.reactionUserIDsFn(ctx, pasteID, kind)
	}
	return []string{}, nil
}

type commentRepoStub struct {
	createFn      func(ctx context.Context, comment *models.Comment) error
	getByIDFn     func(ctx context.Context, id uint) (*models.Comment, error)
	updateFn      func(ctx context.Context, comment *models.Comment) error
	listByPasteFn func(ctx context.Context, pasteID string) ([]models.Comment, error)
	deleteFn      func(ctx context.Context, id uint) error
}

func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, comment)
	}
	return nil
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	if s.createFn != nil {
		return s.createFn(ctx, comment)
	}
	return nil
}

func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("comment not found")
}

func (s *commentRepoStub) ListByPaste(ctx context.Context, pasteID string) ([]models.Comment, error) {
	if s.listByPasteFn != nil {
		return s.listByPasteFn(ctx, pasteID)
	}
	return nil, nil
}

func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type hallRepoStub struct {
	createFn  func(ctx context.Context, post *models.HallPost) error
	getByIDFn func(ctx context.Context, id uint) (*models.HallPost, error)
	listFn    func(ctx context.Context, limit, offset int) ([]models.HallPost, error)
	deleteFn  func(ctx context.Context, id uint) error
}

func (s *hallRepoStub) Create(ctx context.Context, post *models.HallPost) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	return nil
}

func (s *hallRepoStub) GetByID(ctx context.Context, id uint) (*models.HallPost, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("hall post not found")
}

func (s *hallRepoStub) List(ctx context.Context, limit, offset int) ([]models.HallPost, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (s *hallRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, code, appErr.Code)
	}
}

func userByID(users ...*models.User) func(ctx context.Context, id string) (*models.User, error) {
	return func(_ context.Context, id string) (*models.User, error) {
		for _, u := range users {
			if u.ID == id {
				return u, nil
			}
		}
		return nil, models.NewNotFoundError("user not found")
	}
}
