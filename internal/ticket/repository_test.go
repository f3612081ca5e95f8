package ticket_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/testutil"
	"github.com/heliocrm/api-leads/internal/ticket"
	"github.com/heliocrm/api-leads/internal/user"
)

func newTicket(t *testing.T, db *gorm.DB, repo ticket.Repository, status ticket.Status, priority ticket.Priority) *ticket.Ticket {
	t.Helper()
	tk := &ticket.Ticket{
		CustomerName:  "Ana Ribeiro",
		CustomerPhone: "5551234567",
		Subject:       "inverter offline",
		Description:   "display dark since yesterday",
		Status:        status,
		Priority:      priority,
		CreatedByID:   1,
		CreatedByName: "Rui",
	}
	require.NoError(t, repo.Create(db, tk))
	return tk
}

func TestCreateAssignsUUID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := ticket.NewRepository()

	tk := newTicket(t, db, repo, ticket.StatusOpen, ticket.PriorityMedium)
	assert.NotEqual(t, uuid.Nil, tk.UUID)

	other := newTicket(t, db, repo, ticket.StatusOpen, ticket.PriorityLow)
	assert.NotEqual(t, tk.UUID, other.UUID)
}

func TestByFilter(t *testing.T) {
	db := testutil.NewDB(t)
	repo := ticket.NewRepository()
	tech := testutil.NewUser(t, db, user.RoleTechnician, "Dinis")

	open := newTicket(t, db, repo, ticket.StatusOpen, ticket.PriorityHigh)
	newTicket(t, db, repo, ticket.StatusResolved, ticket.PriorityLow)
	assigned := newTicket(t, db, repo, ticket.StatusInProgress, ticket.PriorityUrgent)
	require.NoError(t, repo.UpdateTechnician(db, assigned.ID, tech.ID, tech.Name))

	all, err := repo.ByFilter(db, ticket.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	st := ticket.StatusOpen
	byStatus, err := repo.ByFilter(db, ticket.Filter{Status: &st})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, open.ID, byStatus[0].ID)

	pr := ticket.PriorityUrgent
	byPriority, err := repo.ByFilter(db, ticket.Filter{Priority: &pr})
	require.NoError(t, err)
	require.Len(t, byPriority, 1)
	assert.Equal(t, assigned.ID, byPriority[0].ID)

	byTech, err := repo.ByFilter(db, ticket.Filter{TechnicianID: &tech.ID})
	require.NoError(t, err)
	require.Len(t, byTech, 1)
	assert.Equal(t, assigned.ID, byTech[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := ticket.NewRepository()

	tk := newTicket(t, db, repo, ticket.StatusOpen, ticket.PriorityMedium)
	require.NoError(t, repo.UpdateStatus(db, tk.ID, ticket.StatusInProgress))

	got, err := repo.FindByID(db, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusInProgress, got.Status)

	err = repo.UpdateStatus(db, 9999, ticket.StatusClosed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateTechnicianNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := ticket.NewRepository()

	err := repo.UpdateTechnician(db, 9999, 1, "Dinis")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
