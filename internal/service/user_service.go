// Package service implements the application's business logic on top of the
// repository layer. Handlers call into services and translate the returned
// result objects into HTTP responses.
package service

import (
	"context"
	"fmt"
	"time"

	"abusebin/internal/authz"
	"abusebin/internal/models"
	"abusebin/internal/repository"
	"abusebin/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// FounderUID is the display number of the site founder. Every new account
// follows the founder, and that edge can never be removed.
const FounderUID uint = 1

type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	pastes  repository.PasteRepository
}

func NewUserService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	pastes repository.PasteRepository,
) *UserService {
	return &UserService{users: users, follows: follows, pastes: pastes}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileInput struct {
	UserID        string
	Username      *string `json:"username"`
	Bio           *string `json:"bio"`
	Avatar        *string `json:"avatar"`
	NameColor     *string `json:"name_color"`
	ActiveEffect  *string `json:"active_effect"`
	EffectEnabled *bool   `json:"effect_enabled"`
}

// Register creates a new account. The username and email of a banned account
// do not block registration: the banned holder is renamed out of the way
// first.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.Banned {
			return nil, models.NewConflictError("username already taken")
		}
		// Free the name by renaming the banned holder.
		existing.Username = fmt.Sprintf("%s#banned%d", existing.Username, existing.UID)
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, err
		}
	}

	byEmail, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if byEmail != nil {
		if !byEmail.Banned {
			return nil, models.NewConflictError("email already registered")
		}
		byEmail.Email = fmt.Sprintf("%s#banned%d", byEmail.Email, byEmail.UID)
		if err := s.users.Update(ctx, byEmail); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	uid, err := s.users.NextUID(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UID:       uid,
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		Role:      authz.RoleUser,
		NameColor: authz.BasicNameColors[0],
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// Every account starts out following the founder.
	if founder, ferr := s.users.GetByUID(ctx, FounderUID); ferr == nil && founder.ID != user.ID {
		_ = s.follows.Follow(ctx, user.ID, founder.ID)
	}

	return s.withGraph(ctx, user)
}

// Authenticate verifies credentials. Username may also be an email address.
func (s *UserService) Authenticate(ctx context.Context, in LoginInput) (*models.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.GetByEmail(ctx, in.Username)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("invalid credentials")
	}

	if user.Banned {
		msg := "account is banned"
		if user.BanReason != "" {
			msg = fmt.Sprintf("account is banned: %s", user.BanReason)
		}
		return nil, models.NewForbiddenError(msg)
	}

	now := time.Now()
	user.IsOnline = true
	user.LastSeen = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.withGraph(ctx, user)
}

// Logout marks the user offline.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	now := time.Now()
	user.IsOnline = false
	user.LastSeen = &now
	return s.users.Update(ctx, user)
}

// Get returns a user with the follow graph populated.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withGraph(ctx, user)
}

// GetByUsername returns a user by name with the follow graph populated.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("user not found")
	}
	return s.withGraph(ctx, user)
}

// List returns users ordered by registration number.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}

// Stats returns a user's public counters.
func (s *UserService) Stats(ctx context.Context, userID string) (*models.UserStats, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	pasteCount, err := s.pastes.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalLikes, err := s.pastes.TotalLikesByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserStats{PasteCount: pasteCount, TotalLikes: totalLikes}, nil
}

// UpdateProfile applies the caller's own profile changes, enforcing the
// rename cooldown and cosmetic gating.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != user.Username {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		verdict := authz.CanChangeUsername(user.Role, user.LastUsernameChange, time.Now())
		if !verdict.Allowed {
			appErr := models.NewForbiddenError(verdict.Reason)
			appErr.RemainingDays = verdict.RemainingDays
			return nil, appErr
		}
		taken, err := s.users.GetByUsername(ctx, *in.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil && taken.ID != user.ID {
			return nil, models.NewConflictError("username already taken")
		}
		now := time.Now()
		user.Username = *in.Username
		user.LastUsernameChange = &now
	}

	if in.Bio != nil {
		if len(*in.Bio) > validation.MaxBioLen {
			return nil, models.NewValidationError("bio is too long")
		}
		user.Bio = *in.Bio
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if in.NameColor != nil && *in.NameColor != user.NameColor {
		if !authz.CanChangeNameColor(user.Role) {
			return nil, models.NewForbiddenError("your role's name color is locked")
		}
		if err := validation.ValidateNameColor(*in.NameColor); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if !authz.CanAccessAllNameColors(user.Role) && !authz.InBasicPalette(*in.NameColor) {
			return nil, models.NewForbiddenError("this color requires a privileged role")
		}
		user.NameColor = *in.NameColor
	}

	if in.ActiveEffect != nil || in.EffectEnabled != nil {
		if !user.HasEffectAccess() {
			return nil, models.NewForbiddenError("you don't have effect permission")
		}
		if in.ActiveEffect != nil {
			user.ActiveEffect = *in.ActiveEffect
		}
		if in.EffectEnabled != nil {
			user.EffectEnabled = *in.EffectEnabled
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.withGraph(ctx, user)
}

// DeleteAccount removes the caller's own account and everything it owns. The
// current password must be confirmed.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.NewUnauthorizedError("password is incorrect")
	}
	return s.users.Delete(ctx, userID)
}

// Follow adds a follow edge. Self-follows and admin-to-admin follows are
// rejected.
func (s *UserService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return models.NewValidationError("you cannot follow yourself")
	}
	follower, err := s.users.GetByID(ctx, followerID)
	if err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, followingID)
	if err != nil {
		return err
	}
	if follower.Role == authz.RoleAdmin && target.Role == authz.RoleAdmin {
		return models.NewForbiddenError("admins cannot follow each other")
	}
	return s.follows.Follow(ctx, followerID, followingID)
}

// IsFollowing reports whether follower currently follows the target.
func (s *UserService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		return false, err
	}
	return s.follows.IsFollowing(ctx, followerID, followingID)
}

// Unfollow removes a follow edge. The founder can never be unfollowed.
func (s *UserService) Unfollow(ctx context.Context, followerID, followingID string) error {
	target, err := s.users.GetByID(ctx, followingID)
	if err != nil {
		return err
	}
	if target.UID == FounderUID {
		return models.NewForbiddenError("you cannot unfollow the founder")
	}
	return s.follows.Unfollow(ctx, followerID, followingID)
}

func (s *UserService) withGraph(ctx context.Context, user *models.User) (*models.User, error) {
	followers, err := s.follows.FollowerIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.FollowingIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Followers = followers
	user.Following = following
	return user, nil
}
