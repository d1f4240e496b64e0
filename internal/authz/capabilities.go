package authz

import (
	"math"
	"time"
)

// Permission names a discrete capability a role may hold.
type Permission string

const (
	// PermManageOwnPastes grants edit/delete on one's own pastes and
	// management of the comments under them.
	PermManageOwnPastes Permission = "manage_own_pastes"
	// PermDeleteAnyComment grants deletion of any comment site-wide.
	PermDeleteAnyComment Permission = "delete_any_comment"
	// PermBypassPasteCooldown exempts a role from the paste-creation cooldown.
	PermBypassPasteCooldown Permission = "bypass_paste_cooldown"
	// PermAllNameColors unlocks the full name color palette.
	PermAllNameColors Permission = "all_name_colors"
	// PermRenameAnytime allows username changes with no cooldown.
	PermRenameAnytime Permission = "rename_anytime"
	// PermRenameWeekly allows one username change per rolling 7-day window.
	PermRenameWeekly Permission = "rename_weekly"
)

// capabilities is the authoritative role -> permission table. It replaces the
// ad hoc role-list membership checks the feature set grew up with; every
// authorization decision outside of super-admin bypass reads from here.
var capabilities = map[Role]map[Permission]bool{
	RoleAdmin:    set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameAnytime),
	RoleManager:  set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	RoleMod:      set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	RoleJudicial: set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	RoleCouncil:  set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	RoleHelper:   set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	RoleCorrupt:  set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	RoleClique:   set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	// Rich appears both here (full palette) and in lockedNameColor below.
	// The two rules contradict each other; see CanChangeNameColor.
	RoleRich:  set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	RoleKitty: set(PermManageOwnPastes, PermDeleteAnyComment, PermBypassPasteCooldown, PermAllNameColors, PermRenameWeekly),
	// Sloth may moderate comments but is still cooldown-restricted.
	RoleSloth:       set(PermDeleteAnyComment),
	RoleEffectPerms: set(PermBypassPasteCooldown),
	RoleCriminal:    {},
	RoleUser:        {},
}

func set(perms ...Permission) map[Permission]bool {
	m := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

// Can reports whether the role holds the given permission. Unknown roles hold
// nothing.
func Can(r Role, p Permission) bool {
	return capabilities[r][p]
}

// lockedNameColor lists roles permanently bound to their role color. Rich is
// listed here and also holds PermAllNameColors; the lock is checked first, so
// the lock wins. Kept as-is deliberately rather than silently resolving the
// conflict.
var lockedNameColor = map[Role]bool{
	RoleAdmin:   true,
	RoleCouncil: true,
	RoleRich:    true,
}

// CanChangeNameColor reports whether the role may customize its name color at
// all.
func CanChangeNameColor(r Role) bool {
	return !lockedNameColor[r]
}

// CanAccessAllNameColors reports whether the role unlocks the full palette.
// Roles without it are limited to BasicNameColors.
func CanAccessAllNameColors(r Role) bool {
	return Can(r, PermAllNameColors)
}

// BasicNameColors is the palette available to unprivileged roles. The first
// entry is the default assigned at registration.
var BasicNameColors = []string{
	"rgb(156, 163, 175)", // default grey
	"rgb(209, 213, 219)",
	"rgb(107, 114, 128)",
	"rgb(75, 85, 99)",
}

// InBasicPalette reports whether the color is one of the basic palette entries.
func InBasicPalette(color string) bool {
	for _, c := range BasicNameColors {
		if c == color {
			return true
		}
	}
	return false
}

// UsernameChangeWindow is the rolling window limiting username changes for
// roles holding PermRenameWeekly.
const UsernameChangeWindow = 7 * 24 * time.Hour

// RenameVerdict is the result of a username-change permission check. When
// blocked by the cooldown, RemainingDays carries the whole days left.
type RenameVerdict struct {
	Allowed       bool
	RemainingDays int
	Reason        string
}

// CanChangeUsername decides whether a role may change its username now, given
// the time of the last change (nil = never changed).
func CanChangeUsername(r Role, lastChange *time.Time, now time.Time) RenameVerdict {
	if Can(r, PermRenameAnytime) {
		return RenameVerdict{Allowed: true}
	}
	if !Can(r, PermRenameWeekly) {
		return RenameVerdict{Allowed: false, Reason: "your role doesn't have permission to change username"}
	}
	if lastChange == nil {
		return RenameVerdict{Allowed: true}
	}
	elapsed := now.Sub(*lastChange)
	if elapsed < UsernameChangeWindow {
		remaining := UsernameChangeWindow - elapsed
		days := int(math.Ceil(remaining.Hours() / 24))
		return RenameVerdict{
			Allowed:       false,
			RemainingDays: days,
			Reason:        "username change is on cooldown",
		}
	}
	return RenameVerdict{Allowed: true}
}

// PasteCooldown is the minimum interval between paste creations for roles
// that do not hold PermBypassPasteCooldown.
const PasteCooldown = 90 * time.Second

// CooldownRemaining returns how long the role must still wait before creating
// another paste, given the creation time of its latest paste (nil = none).
// Zero means posting is allowed.
func CooldownRemaining(r Role, lastPaste *time.Time, now time.Time) time.Duration {
	if Can(r, PermBypassPasteCooldown) {
		return 0
	}
	if lastPaste == nil {
		return 0
	}
	elapsed := now.Sub(*lastPaste)
	if elapsed >= PasteCooldown {
		return 0
	}
	return PasteCooldown - elapsed
}
