// Package authz holds the ownership predicate used before every mutating
// operation on a review or comment. Pure functions, no I/O.
package authz

// IsOwner reports whether the actor owns a resource. A nil owner (the
// authoring account was removed) is owned by nobody, so the check fails
// closed. A zero actor is never an owner.
func IsOwner(actorID uint, ownerID *uint) bool {
	if actorID == 0 || ownerID == nil {
		return false
	}
	return actorID == *ownerID
}
