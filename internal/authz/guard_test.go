package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ekaraca/campuslink/internal/models"
)

func TestAuthorizeNilPrincipal(t *testing.T) {
	for _, req := range []Requirement{AdminOnly(), Owner(1), Roles(models.RoleClub)} {
		require.ErrorIs(t, Authorize(nil, req), ErrUnauthorized)
	}
}

func TestAuthorizeAdminOnly(t *testing.T) {
	admin := AdminPrincipal("root")
	student := &Principal{ID: 1, Role: models.RoleStudent}

	require.NoError(t, Authorize(admin, AdminOnly()))
	require.ErrorIs(t, Authorize(student, AdminOnly()), ErrForbidden)
}

func TestAuthorizeOwner(t *testing.T) {
	owner := &Principal{ID: 7, Role: models.RoleStudent}
	other := &Principal{ID: 8, Role: models.RoleStudent}
	admin := AdminPrincipal("root")

	require.NoError(t, Authorize(owner, Owner(7)))
	require.ErrorIs(t, Authorize(other, Owner(7)), ErrForbidden)
	require.NoError(t, Authorize(admin, Owner(7)))
}

func TestAuthorizeRoles(t *testing.T) {
	club := &Principal{ID: 3, Role: models.RoleClub}
	student := &Principal{ID: 4, Role: models.RoleStudent}

	require.NoError(t, Authorize(club, Roles(models.RoleClub)))
	require.ErrorIs(t, Authorize(student, Roles(models.RoleClub)), ErrForbidden)
	require.NoError(t, Authorize(student, Roles(models.RoleClub, models.RoleStudent)))
}
