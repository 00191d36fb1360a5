package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT version`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 16.0"))

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db, mock
}

func TestTaskStatusCounts_GroupsByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "tasks" WHERE project_id = \$1 GROUP BY "status"`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("todo", 3).
			AddRow("done", 2))

	counts, err := repo.TaskStatusCounts(7)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, models.TaskStatusTodo, counts[0].Status)
	require.EqualValues(t, 3, counts[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSprintTaskCounts_SingleBatchedQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(`SELECT sprint_id, status, COUNT\(\*\) AS count FROM "tasks" WHERE sprint_id IN \(\$1,\$2\) GROUP BY sprint_id, status`).
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"sprint_id", "status", "count"}).
			AddRow(1, "done", 4).
			AddRow(1, "todo", 1).
			AddRow(2, "done", 2))

	counts, err := repo.SprintTaskCounts([]uint64{1, 2})
	require.NoError(t, err)
	require.Len(t, counts, 3)
	require.EqualValues(t, 1, counts[0].SprintID)
	require.Equal(t, models.TaskStatusDone, counts[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSprintTaskCounts_EmptyInputShortCircuits(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	counts, err := repo.SprintTaskCounts(nil)
	require.NoError(t, err)
	require.Empty(t, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSumSprintCompletedPoints_NullSumIsZero(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(`SELECT SUM\(story_points_completed\) FROM "sprints" WHERE project_id IN \(\$1\)`).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))

	total, err := repo.SumSprintCompletedPoints([]uint64{9})
	require.NoError(t, err)
	require.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
