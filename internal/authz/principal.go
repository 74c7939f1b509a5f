package authz

import "github.com/ekaraca/campuslink/internal/models"

// Principal is the authenticated actor a request runs as. Admin is set only
// when the actor was derived from the admin credential cookie, which is a
// separate trust domain from the primary user session.
type Principal struct {
	ID    uint
	Email string
	Role  string
	Admin bool
}

// FromUser builds a session principal from a stored user row.
func FromUser(u *models.User) *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// AdminPrincipal builds a principal from a verified admin credential.
func AdminPrincipal(username string) *Principal {
	return &Principal{Email: username, Role: models.RoleAdmin, Admin: true}
}
