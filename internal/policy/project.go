package policy

import "github.com/ludicboard/ludicboard-api/internal/models"

// HasRole reports whether role is one of allowed.
func HasRole(role models.ProjectRole, allowed ...models.ProjectRole) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func CanViewProject(role models.ProjectRole) bool {
	return role.Valid()
}

func CanDeleteProject(role models.ProjectRole) bool {
	return role == models.RoleOwner
}

func CanManageMembers(role models.ProjectRole) bool {
	return HasRole(role, models.RoleOwner, models.RoleAdmin)
}

func CanCreateTask(role models.ProjectRole) bool {
	return HasRole(role, models.RoleOwner, models.RoleAdmin, models.RoleMember)
}

// CanGrantRole reports whether actor may give target someone currently
// holding current (empty for a new member). Only owners touch ownership.
func CanGrantRole(actor, current, target models.ProjectRole) bool {
	if !CanManageMembers(actor) || !target.Valid() {
		return false
	}
	if actor == models.RoleOwner {
		return true
	}
	return current != models.RoleOwner && target != models.RoleOwner
}

// CanRemoveMember reports whether actor may remove a member holding target.
func CanRemoveMember(actor, target models.ProjectRole) bool {
	if !CanManageMembers(actor) {
		return false
	}
	return actor == models.RoleOwner || target != models.RoleOwner
}

// LeavesOwner reports whether a project with ownerCount owners still has one
// after the member holding current becomes next (empty when removed).
func LeavesOwner(ownerCount int64, current, next models.ProjectRole) bool {
	if current != models.RoleOwner || next == models.RoleOwner {
		return true
	}
	return ownerCount > 1
}
