package authz

import "slices"

type requirementKind int

const (
	kindAdminOnly requirementKind = iota
	kindOwner
	kindRoles
)

// Requirement describes what a mutation demands of its caller. Construct
// one with AdminOnly, Owner or Roles and pass it to Authorize before any
// persistence write.
type Requirement struct {
	kind    requirementKind
	ownerID uint
	roles   []string
}

// AdminOnly requires a principal derived from the admin credential.
func AdminOnly() Requirement {
	return Requirement{kind: kindAdminOnly}
}

// Owner requires the principal to own the resource. An admin credential
// satisfies any ownership check.
func Owner(resourceOwnerID uint) Requirement {
	return Requirement{kind: kindOwner, ownerID: resourceOwnerID}
}

// Roles requires the principal's role to be one of the allowed set.
func Roles(allowed ...string) Requirement {
	return Requirement{kind: kindRoles, roles: allowed}
}

func Authorize(p *Principal, req Requirement) error {
	if p == nil {
		return ErrUnauthorized
	}

	switch req.kind {
	case kindAdminOnly:
		if !p.Admin {
			return ErrForbidden
		}
	case kindOwner:
		if p.Admin {
			return nil
		}
		if p.ID != req.ownerID {
			return ErrForbidden
		}
	case kindRoles:
		if !slices.Contains(req.roles, p.Role) {
			return ErrForbidden
		}
	}

	return nil
}
