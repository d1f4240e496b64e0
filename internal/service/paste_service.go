package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"abusebin/internal/authz"
	"abusebin/internal/cache"
	"abusebin/internal/models"
	"abusebin/internal/observability"
	"abusebin/internal/repository"
	"abusebin/internal/validation"
)

// FrontPageLimit is the page size the cached front page is stored at. Other
// page shapes always go to the database.
const FrontPageLimit = 50

type PasteService struct {
	pastes repository.PasteRepository
	users  repository.UserRepository
}

func NewPasteService(pastes repository.PasteRepository, users repository.UserRepository) *PasteService {
	return &PasteService{pastes: pastes, users: users}
}

type CreatePasteInput struct {
	AuthorID string
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type UpdatePasteInput struct {
	UserID  string
	PasteID string
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

var (
	slugStripRegex     = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparatorRegex = regexp.MustCompile(`[\s-]+`)
)

// Slugify derives a URL slug from a paste title: lowercase, strip everything
// that is not alphanumeric or a separator, collapse separators to single
// hyphens, trim hyphens at the ends. Underscores are stripped, not turned
// into separators.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripRegex.ReplaceAllString(s, "")
	s = slugSeparatorRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CanPost reports whether the user may create a paste right now. The check is
// advisory; Create re-validates before committing.
func (s *PasteService) CanPost(ctx context.Context, userID string) (*models.CooldownStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.cooldownRemaining(ctx, user)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return &models.CooldownStatus{
			CanPost:          false,
			RemainingSeconds: int(math.Ceil(remaining.Seconds())),
		}, nil
	}
	return &models.CooldownStatus{CanPost: true}, nil
}

func (s *PasteService) cooldownRemaining(ctx context.Context, user *models.User) (time.Duration, error) {
	if authz.Can(user.Role, authz.PermBypassPasteCooldown) {
		return 0, nil
	}
	last, err := s.pastes.LastCreatedAt(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	return authz.CooldownRemaining(user.Role, last, time.Now()), nil
}

// Create validates, enforces the cooldown, derives a unique slug and stores
// the paste.
func (s *PasteService) Create(ctx context.Context, in CreatePasteInput) (*models.Paste, error) {
	if err := validation.ValidatePasteTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePasteContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.users.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	remaining, err := s.cooldownRemaining(ctx, user)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		observability.PasteCooldownRejections.Inc()
		return nil, models.NewRateLimitError(int(math.Ceil(remaining.Seconds())))
	}

	title := strings.TrimSpace(in.Title)
	exists, err := s.pastes.TitleExists(ctx, title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("a paste with this title already exists")
	}

	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	paste := &models.Paste{
		ID:       slug,
		Title:    title,
		Content:  in.Content,
		AuthorID: user.ID,
	}
	if err := s.pastes.Create(ctx, paste); err != nil {
		return nil, err
	}
	paste.Author = user
	paste.Likes = []string{}
	paste.Dislikes = []string{}
	return paste, nil
}

func (s *PasteService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "paste"
	}
	slug := base
	if validation.SlugReserved(slug) {
		slug = base + "-1"
	}
	for n := 2; ; n++ {
		exists, err := s.pastes.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

// Get returns a paste with reactions populated. A view by anyone other than
// the author increments the counter.
func (s *PasteService) Get(ctx context.Context, pasteID, viewerID string) (*models.Paste, error) {
	paste, err := s.pastes.GetByID(ctx, pasteID)
	if err != nil {
		return nil, err
	}
	if viewerID != paste.AuthorID {
		if err := s.pastes.IncrementViews(ctx, pasteID); err != nil {
			return nil, err
		}
		paste.Views++
	}
	if err := s.attachReactions(ctx, paste); err != nil {
		return nil, err
	}
	return paste, nil
}

// List returns the front page, pinned pastes first. The result is served from
// cache when fresh.
func (s *PasteService) List(ctx context.Context, limit, offset int) ([]models.Paste, error) {
	var pastes []models.Paste
	if offset != 0 || limit != FrontPageLimit {
		// Only the canonical first page is cached.
		return s.listFresh(ctx, limit, offset)
	}
	err := cache.Aside(ctx, cache.PastesListKey(), &pastes, cache.PastesListTTL, func() error {
		fresh, ferr := s.listFresh(ctx, limit, offset)
		if ferr != nil {
			return ferr
		}
		pastes = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pastes, nil
}

func (s *PasteService) listFresh(ctx context.Context, limit, offset int) ([]models.Paste, error) {
	pastes, err := s.pastes.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range pastes {
		if err := s.attachReactions(ctx, &pastes[i]); err != nil {
			return nil, err
		}
	}
	return pastes, nil
}

// ListByAuthor returns all pastes by a user, newest first.
func (s *PasteService) ListByAuthor(ctx context.Context, authorID string) ([]models.Paste, error) {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.pastes.ListByAuthor(ctx, authorID)
}

// canManage reports whether the user may edit or delete the paste: super
// admins always, authors when their role grants self-management.
func canManagePaste(user *models.User, paste *models.Paste) bool {
	if user.SuperAdmin {
		return true
	}
	return paste.AuthorID == user.ID && authz.Can(user.Role, authz.PermManageOwnPastes)
}

// Update edits a paste's title and content. The slug never changes after
// creation, even when the title does.
func (s *PasteService) Update(ctx context.Context, in UpdatePasteInput) (*models.Paste, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	paste, err := s.pastes.GetByID(ctx, in.PasteID)
	if err != nil {
		return nil, err
	}
	if !canManagePaste(user, paste) {
		return nil, models.NewForbiddenError("you cannot edit this paste")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.ValidatePasteTitle(title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if !strings.EqualFold(title, paste.Title) {
			exists, err := s.pastes.TitleExists(ctx, title)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, models.NewConflictError("a paste with this title already exists")
			}
		}
		paste.Title = title
	}
	if in.Content != nil {
		if err := validation.ValidatePasteContent(*in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		paste.Content = *in.Content
	}

	if err := s.pastes.Update(ctx, paste); err != nil {
		return nil, err
	}
	if err := s.attachReactions(ctx, paste); err != nil {
		return nil, err
	}
	return paste, nil
}

// Delete removes a paste along with its comments and reactions.
func (s *PasteService) Delete(ctx context.Context, userID, pasteID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	paste, err := s.pastes.GetByID(ctx, pasteID)
	if err != nil {
		return err
	}
	if !canManagePaste(user, paste) {
		return models.NewForbiddenError("you cannot delete this paste")
	}
	return s.pastes.Delete(ctx, pasteID)
}

// React toggles a like or dislike. Setting one removes the other; repeating
// the same reaction removes it.
func (s *PasteService) React(ctx context.Context, userID, pasteID string, reaction models.ReactionType) (*models.Paste, error) {
	if !models.ValidReactionType(reaction) {
		return nil, models.NewValidationError("reaction must be like or dislike")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Accounts without a creation timestamp are not fully registered.
	if user.CreatedAt.IsZero() {
		return nil, models.NewForbiddenError("account is not fully registered")
	}
	paste, err := s.pastes.GetByID(ctx, pasteID)
	if err != nil {
		return nil, err
	}

	current, err := s.pastes.GetReaction(ctx, pasteID, userID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.Type == reaction {
		if err := s.pastes.RemoveReaction(ctx, pasteID, userID); err != nil {
			return nil, err
		}
	} else {
		if err := s.pastes.SetReaction(ctx, &models.PasteReaction{
			PasteID: pasteID,
			UserID:  userID,
			Type:    reaction,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.attachReactions(ctx, paste); err != nil {
		return nil, err
	}
	return paste, nil
}

func (s *PasteService) attachReactions(ctx context.Context, paste *models.Paste) error {
	likes, err := s.pastes.ReactionUserIDs(ctx, paste.ID, models.ReactionLike)
	if err != nil {
		return err
	}
	dislikes, err := s.pastes.ReactionUserIDs(ctx, paste.ID, models.ReactionDislike)
	if err != nil {
		return err
	}
	paste.Likes = likes
	paste.Dislikes = dislikes
	return nil
}
