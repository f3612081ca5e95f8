package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/testutil"
	"github.com/heliocrm/api-leads/internal/user"
)

func TestListActiveByRole(t *testing.T) {
	db := testutil.NewDB(t)
	repo := user.NewRepository()

	active := testutil.NewUser(t, db, user.RoleCallOperator, "Rui")
	retired := testutil.NewUser(t, db, user.RoleCallOperator, "Gone")
	testutil.NewUser(t, db, user.RoleSalesman, "Marta")
	require.NoError(t, repo.SetActive(db, retired.ID, false))

	ops, err := repo.ListActiveByRole(db, user.RoleCallOperator)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, active.ID, ops[0].ID)
}

func TestFindByEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := user.NewRepository()

	u := testutil.NewUser(t, db, user.RoleTeamLead, "Lia")

	got, err := repo.FindByEmail(db, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByEmail(db, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetActiveNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := user.NewRepository()

	err := repo.SetActive(db, 9999, false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoleValid(t *testing.T) {
	for _, r := range []user.Role{user.RoleSalesman, user.RoleCallOperator, user.RoleTechnician, user.RoleTeamLead, user.RoleSuperAdmin} {
		assert.True(t, r.Valid())
	}
	assert.False(t, user.Role("manager").Valid())
}
