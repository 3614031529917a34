package domain

// CanEdit reports whether actor may edit a user holding targetRole.
// Editing requires strictly outranking the target.
func CanEdit(actorRole, targetRole UserRole) bool {
	return rank(actorRole) > rank(targetRole)
}

// CanDelete reports whether actor may delete a user holding targetRole.
// Only admins delete users, and admins cannot be deleted.
func CanDelete(actorRole, targetRole UserRole) bool {
	return actorRole == RoleAdmin && targetRole != RoleAdmin
}

// CanGrantRole reports whether actor may assign targetRole to another user.
// Only managers and above assign roles; non-admins cannot grant admin or
// high_manager, and the granted role must be below the actor's own.
func CanGrantRole(actorRole, targetRole UserRole) bool {
	switch actorRole {
	case RoleAdmin, RoleHighManager, RoleManager:
	default:
		return false
	}
	if actorRole != RoleAdmin && (targetRole == RoleAdmin || targetRole == RoleHighManager) {
		return false
	}
	return rank(actorRole) > rank(targetRole)
}

// CanViewSalary reports whether actor may view salary figures.
func CanViewSalary(actorRole UserRole) bool {
	return actorRole == RoleAdmin || actorRole == RoleHighManager || actorRole == RoleAccountant
}

// CanCountSalary reports whether actor may run salary calculations.
func CanCountSalary(actorRole UserRole) bool {
	return actorRole == RoleAccountant
}

// CanChangeSubsetStatus reports whether actor may change contract subset statuses.
func CanChangeSubsetStatus(actorRole UserRole) bool {
	switch actorRole {
	case RoleAccountant, RoleManager, RoleHighManager, RoleAdmin:
		return true
	}
	return false
}

// CanViewWorkingHours reports whether actor may view a target user's hours.
// Accountants see everyone, engineers only themselves, managers anyone they
// outrank.
func CanViewWorkingHours(actorRole UserRole, actorIsTarget bool, targetRole UserRole) bool {
	if actorRole == RoleAccountant {
		return true
	}
	if rank(actorRole) == 0 {
		return actorIsTarget
	}
	return CanEdit(actorRole, targetRole)
}

func rank(r UserRole) int {
	if v, ok := RoleRank[r]; ok {
		return v
	}
	return -1
}
