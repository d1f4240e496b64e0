// Package authz implements the role hierarchy and capability checks that
// gate moderation actions, cosmetic unlocks, and the paste-creation cooldown.
package authz

// Role is a member of the site's fixed role enumeration.
type Role string

// All roles, referenced by the capability table below.
const (
	RoleAdmin       Role = "Admin"
	RoleManager     Role = "Manager"
	RoleMod         Role = "Mod"
	RoleJudicial    Role = "Judicial"
	RoleCouncil     Role = "Council"
	RoleHelper      Role = "Helper"
	RoleCorrupt     Role = "Corrupt"
	RoleClique      Role = "Clique"
	RoleRich        Role = "Rich"
	RoleKitty       Role = "Kitty"
	RoleCriminal    Role = "Criminal"
	RoleSloth       Role = "Sloth"
	RoleEffectPerms Role = "Effect Perms"
	RoleUser        Role = "User"
)

// Hierarchy lists every role from most to least privileged. The ordering is
// used for display sorting and for Rank; capability checks go through the
// capability table, not through rank comparisons.
var Hierarchy = []Role{
	RoleAdmin,
	RoleManager,
	RoleMod,
	RoleJudicial,
	RoleCouncil,
	RoleHelper,
	RoleCorrupt,
	RoleClique,
	RoleRich,
	RoleKitty,
	RoleCriminal,
	RoleSloth,
	RoleEffectPerms,
	RoleUser,
}

var rankByRole = func() map[Role]int {
	m := make(map[Role]int, len(Hierarchy))
	for i, r := range Hierarchy {
		m[r] = i
	}
	return m
}()

// Rank returns the position of a role in the hierarchy (0 = most privileged).
// Unknown roles rank below every known role.
func Rank(r Role) int {
	if rank, ok := rankByRole[r]; ok {
		return rank
	}
	return len(Hierarchy)
}

// Valid reports whether r is a member of the role enumeration.
func Valid(r Role) bool {
	_, ok := rankByRole[r]
	return ok
}

// IsModeratorTier reports whether a role belongs to the staff tier that
// handles bans (Admin, Manager, Mod).
func IsModeratorTier(r Role) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleMod
}
