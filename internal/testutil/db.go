// Package testutil provides database setup and fixtures shared by the test suites.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/heliocrm/api-leads/internal/calllog"
	"github.com/heliocrm/api-leads/internal/lead"
	"github.com/heliocrm/api-leads/internal/ticket"
	"github.com/heliocrm/api-leads/internal/user"
)

// NewDB opens a fresh in-memory database with the full schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&lead.Lead{},
		&calllog.CallLog{},
		&calllog.CallLaterLog{},
		&ticket.Ticket{},
	))
	return db
}
