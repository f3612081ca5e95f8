package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/lead"
	"github.com/heliocrm/api-leads/internal/user"
)

var emailSeq atomic.Uint64

// NewUser inserts an active user with the given role and a unique email.
func NewUser(t *testing.T, db *gorm.DB, role user.Role, name string) *user.User {
	t.Helper()

	u := &user.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%d@example.com", role, emailSeq.Add(1)),
		Phone:    "5550000000",
		Role:     role,
		Active:   true,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// NewLead inserts a lead created by the given salesman with status new.
func NewLead(t *testing.T, db *gorm.DB, salesman *user.User) *lead.Lead {
	t.Helper()

	l := &lead.Lead{
		Name:         "Ana Ribeiro",
		Phone:        fmt.Sprintf("55511%07d", emailSeq.Add(1)),
		Address:      "12 Solar Ave",
		PropertyType: lead.PropertyResidential,
		Likelihood:   lead.LikelihoodWarm,
		Status:       lead.StatusNew,
		SalesmanID:   salesman.ID,
		SalesmanName: salesman.Name,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
