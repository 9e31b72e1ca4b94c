package auth

// Decision is the outcome of an ownership check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == Allow
}

// OwnerDecision allows the actor only when it is the owner of the resource.
// An anonymous actor or an unowned resource is always denied.
func OwnerDecision(actorID, ownerID string) Decision {
	if actorID == "" || ownerID == "" {
		return Deny
	}
	if actorID == ownerID {
		return Allow
	}
	return Deny
}

// PartyDecision allows the actor when it is any of the given parties, for resources
// visible to more than one user (a booking is visible to its booker and the item owner).
func PartyDecision(actorID string, partyIDs ...string) Decision {
	for _, id := range partyIDs {
		if OwnerDecision(actorID, id).Allowed() {
			return Allow
		}
	}
	return Deny
}
