package postgresql_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	testDBErr  error
	testDBOnce sync.Once
)

// setupTestDB connects to TEST_DATABASE_URL, applies migrations once and
// empties every table. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	testDBOnce.Do(func() {
		testDB, testDBErr = database.NewPostgreSQLDB(context.Background(), dsn)
		if testDBErr == nil {
			testDBErr = database.RunMigrations(testDB)
		}
	})
	require.NoError(t, testDBErr)

	truncateAllTables(t)
	t.Cleanup(func() { truncateAllTables(t) })

	return testDB
}

func truncateAllTables(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(),
		"TRUNCATE TABLE attendances, schedules, attendance_settings, users CASCADE")
	require.NoError(t, err)
}
