package service

import (
	"context"

	"abusebin/internal/authz"
	"abusebin/internal/models"
	"abusebin/internal/repository"
)

// ModerationService implements the privileged operations: bans, role
// assignment, account deletion and paste pinning.
type ModerationService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	pastes  repository.PasteRepository
}

func NewModerationService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	pastes repository.PasteRepository,
) *ModerationService {
	return &ModerationService{users: users, follows: follows, pastes: pastes}
}

func (s *ModerationService) actor(ctx context.Context, actorID string) (*models.User, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return actor, nil
}

func canModerate(actor *models.User) bool {
	return actor.SuperAdmin || authz.IsModeratorTier(actor.Role)
}

// Ban bans a user and eagerly strips them out of the follow graph. Banning an
// Admin, a super admin or an already banned user is a no-op.
func (s *ModerationService) Ban(ctx context.Context, actorID, targetID, reason string) (*models.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor) {
		return nil, models.NewForbiddenError("you cannot ban users")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == authz.RoleAdmin || target.SuperAdmin || target.Banned {
		// State unchanged by contract.
		return target, nil
	}

	target.Banned = true
	target.BanReason = reason
	target.IsOnline = false
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	if err := s.follows.RemoveAllFor(ctx, targetID); err != nil {
		return nil, err
	}
	return target, nil
}

// Unban lifts a ban. Unbanning a user who is not banned is a no-op.
func (s *ModerationService) Unban(ctx context.Context, actorID, targetID string) (*models.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor) {
		return nil, models.NewForbiddenError("you cannot unban users")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !target.Banned {
		return target, nil
	}

	target.Banned = false
	target.BanReason = ""
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// AssignRole changes a user's role. Super admins only.
func (s *ModerationService) AssignRole(ctx context.Context, actorID, targetID string, role authz.Role) (*models.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.SuperAdmin {
		return nil, models.NewForbiddenError("only super admins can assign roles")
	}
	if !authz.Valid(role) {
		return nil, models.NewValidationError("unknown role")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	target.Role = role
	// A role with a locked color overrides any custom color the user had.
	if !authz.CanChangeNameColor(role) {
		target.NameColor = ""
	}
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// DeleteUser removes an account and cascades to everything it owns. Super
// admins only; Admin and super admin accounts cannot be deleted this way.
func (s *ModerationService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.SuperAdmin {
		return models.NewForbiddenError("only super admins can delete accounts")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == authz.RoleAdmin || target.SuperAdmin {
		return models.NewForbiddenError("admin accounts cannot be deleted")
	}
	return s.users.Delete(ctx, targetID)
}

// RemoveAvatar clears a user's avatar.
func (s *ModerationService) RemoveAvatar(ctx context.Context, actorID, targetID string) (*models.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor) {
		return nil, models.NewForbiddenError("you cannot remove avatars")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	target.Avatar = ""
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// SetEffectPermission grants or revokes the visual effect unlock.
func (s *ModerationService) SetEffectPermission(ctx context.Context, actorID, targetID string, granted bool) (*models.User, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.SuperAdmin {
		return nil, models.NewForbiddenError("only super admins can manage effect permissions")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	target.HasEffectPermission = granted
	if !granted {
		target.ActiveEffect = ""
		target.EffectEnabled = false
	}
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// SetPinned pins or unpins a paste on the front page. Pinning resets the view
// counter so the pinned run starts counting from zero.
func (s *ModerationService) SetPinned(ctx context.Context, actorID, pasteID string, pinned bool) (*models.Paste, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !canModerate(actor) {
		return nil, models.NewForbiddenError("you cannot pin pastes")
	}
	paste, err := s.pastes.GetByID(ctx, pasteID)
	if err != nil {
		return nil, err
	}

	if err := s.pastes.SetPinned(ctx, pasteID, pinned); err != nil {
		return nil, err
	}
	paste.Pinned = pinned
	if pinned {
		if err := s.pastes.ResetViews(ctx, pasteID); err != nil {
			return nil, err
		}
		paste.Views = 0
	}
	return paste, nil
}

// ResetViews zeroes a paste's view counter.
func (s *ModerationService) ResetViews(ctx context.Context, actorID, pasteID string) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if !canModerate(actor) {
		return models.NewForbiddenError("you cannot reset views")
	}
	if _, err := s.pastes.GetByID(ctx, pasteID); err != nil {
		return err
	}
	return s.pastes.ResetViews(ctx, pasteID)
}
