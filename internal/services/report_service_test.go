package services

import (
	"testing"
	"time"

	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"github.com/stretchr/testify/require"
)

type reportTestEnv struct {
	projectTestEnv
	reports *ReportService
}

func setupReportTestEnv(t *testing.T) reportTestEnv {
	t.Helper()
	env := setupProjectTestEnv(t)

	reports := NewReportService(
		repository.NewReportRepository(env.db),
		repository.NewProjectRepository(env.db),
	)
	return reportTestEnv{projectTestEnv: env, reports: reports}
}

func (env reportTestEnv) createTask(t *testing.T, projectID uint64, status models.TaskStatus, points *int, sprintID *uint64) models.Task {
	t.Helper()
	task := models.Task{
		Title:       "Task",
		Status:      status,
		Priority:    models.TaskPriorityMedium,
		StoryPoints: points,
		ProjectID:   projectID,
		SprintID:    sprintID,
	}
	require.NoError(t, env.db.Create(&task).Error)
	return task
}

func intPtr(v int) *int { return &v }

func TestAggregatedOverview_ZeroVisibleProjects(t *testing.T) {
	env := setupReportTestEnv(t)

	report, err := env.reports.AggregatedOverview(env.member.ID)
	require.NoError(t, err)
	require.Zero(t, report.Stats.TotalTasks)
	require.Zero(t, report.Stats.CompletedTasks)
	require.Zero(t, report.Stats.CompletedPercent)
	require.Zero(t, report.Stats.AvgCompletionDays)
	require.Zero(t, report.Velocity)
}

func TestAggregatedOverview_HalfDone(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	env.createTask(t, project.ID, models.TaskStatusTodo, nil, nil)
	env.createTask(t, project.ID, models.TaskStatusDoing, nil, nil)
	env.createTask(t, project.ID, models.TaskStatusDone, nil, nil)
	env.createTask(t, project.ID, models.TaskStatusDone, nil, nil)

	report, err := env.reports.AggregatedOverview(env.owner.ID)
	require.NoError(t, err)
	require.Equal(t, 4, report.Stats.TotalTasks)
	require.Equal(t, 2, report.Stats.CompletedTasks)
	require.Equal(t, 50, report.Stats.CompletedPercent)
}

func TestAggregatedOverview_Idempotent(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	env.createTask(t, project.ID, models.TaskStatusDone, intPtr(5), nil)
	env.createTask(t, project.ID, models.TaskStatusTodo, nil, nil)

	first, err := env.reports.AggregatedOverview(env.owner.ID)
	require.NoError(t, err)
	second, err := env.reports.AggregatedOverview(env.owner.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAggregatedOverview_VelocityIsSumOfSprintCounters(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	require.NoError(t, env.db.Create(&models.Sprint{
		Name: "Sprint 1", ProjectID: project.ID, StoryPointsCompleted: 13,
	}).Error)
	require.NoError(t, env.db.Create(&models.Sprint{
		Name: "Sprint 2", ProjectID: project.ID, StoryPointsCompleted: 8,
	}).Error)

	report, err := env.reports.AggregatedOverview(env.owner.ID)
	require.NoError(t, err)
	require.Equal(t, 21, report.Velocity)
}

func TestProjectSummary_TaskStats(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	env.createTask(t, project.ID, models.TaskStatusTodo, nil, nil)
	env.createTask(t, project.ID, models.TaskStatusDoing, nil, nil)
	env.createTask(t, project.ID, models.TaskStatusDone, nil, nil)
	env.createTask(t, project.ID, models.TaskStatusDone, nil, nil)

	summary, err := env.reports.ProjectSummary(project.ID)
	require.NoError(t, err)

	require.Equal(t, 1, summary.TaskStats[models.TaskStatusTodo])
	require.Equal(t, 1, summary.TaskStats[models.TaskStatusDoing])
	require.Equal(t, 2, summary.TaskStats[models.TaskStatusDone])
	require.Equal(t, 0, summary.TaskStats[models.TaskStatusCanceled])

	total := 0
	for _, count := range summary.TaskStats {
		total += count
	}
	require.Equal(t, 4, total)
}

func TestProjectSummary_MembersFlattened(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	_, err := env.svc.AddMember(project.ID, env.member.ID, env.editorID)
	require.NoError(t, err)

	summary, err := env.reports.ProjectSummary(project.ID)
	require.NoError(t, err)
	require.Len(t, summary.Members, 1)
	require.Equal(t, env.member.ID, summary.Members[0].ID)
	require.Equal(t, "member@example.com", summary.Members[0].Email)
	require.Equal(t, "Editor", summary.Members[0].ProjectRole)
}

func TestProjectSummary_SprintVelocityFromEndedSprints(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	endedAt := time.Now().Add(-48 * time.Hour)
	sprint := models.Sprint{Name: "Sprint 1", ProjectID: project.ID, EndDate: &endedAt}
	require.NoError(t, env.db.Create(&sprint).Error)

	env.createTask(t, project.ID, models.TaskStatusDone, intPtr(3), &sprint.ID)
	env.createTask(t, project.ID, models.TaskStatusDone, intPtr(5), &sprint.ID)
	env.createTask(t, project.ID, models.TaskStatusTodo, intPtr(2), &sprint.ID)

	summary, err := env.reports.ProjectSummary(project.ID)
	require.NoError(t, err)
	require.Equal(t, 8, summary.SprintVelocity)
}

func TestProjectSummary_RunningSprintDoesNotCount(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	endsLater := time.Now().Add(72 * time.Hour)
	sprint := models.Sprint{Name: "Sprint 1", ProjectID: project.ID, EndDate: &endsLater}
	require.NoError(t, env.db.Create(&sprint).Error)

	env.createTask(t, project.ID, models.TaskStatusDone, intPtr(8), &sprint.ID)

	summary, err := env.reports.ProjectSummary(project.ID)
	require.NoError(t, err)
	require.Zero(t, summary.SprintVelocity)
}

func TestAggregatedSprints_BatchedCountsAndNaming(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	older := time.Now().Add(-96 * time.Hour)
	newer := time.Now().Add(-24 * time.Hour)
	first := models.Sprint{Name: "Sprint 1", ProjectID: project.ID, EndDate: &older}
	second := models.Sprint{Name: "Sprint 2", ProjectID: project.ID, EndDate: &newer}
	require.NoError(t, env.db.Create(&first).Error)
	require.NoError(t, env.db.Create(&second).Error)

	env.createTask(t, project.ID, models.TaskStatusDone, nil, &first.ID)
	env.createTask(t, project.ID, models.TaskStatusTodo, nil, &first.ID)
	env.createTask(t, project.ID, models.TaskStatusDone, nil, &second.ID)

	report, err := env.reports.AggregatedSprints(env.owner.ID)
	require.NoError(t, err)
	require.Len(t, report.Sprints, 2)

	// Most recently ending first.
	require.Equal(t, "Sprint 2 (Apollo)", report.Sprints[0].Name)
	require.Equal(t, 1, report.Sprints[0].TotalTasks)
	require.Equal(t, 1, report.Sprints[0].CompletedTasks)

	require.Equal(t, "Sprint 1 (Apollo)", report.Sprints[1].Name)
	require.Equal(t, 2, report.Sprints[1].TotalTasks)
	require.Equal(t, 1, report.Sprints[1].CompletedTasks)
}

func TestAggregatedTeamPerformance(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	_, err := env.svc.AddMember(project.ID, env.member.ID, env.editorID)
	require.NoError(t, err)

	for _, status := range []models.TaskStatus{
		models.TaskStatusDone, models.TaskStatusDone, models.TaskStatusTodo, models.TaskStatusDoing,
	} {
		task := env.createTask(t, project.ID, status, nil, nil)
		require.NoError(t, env.db.Model(&task).Update("assignee_id", env.member.ID).Error)
	}

	report, err := env.reports.AggregatedTeamPerformance(env.owner.ID)
	require.NoError(t, err)
	require.Len(t, report.TeamPerformance, 1)

	row := report.TeamPerformance[0]
	require.Equal(t, env.member.ID, row.ID)
	require.Equal(t, 4, row.TotalTasks)
	require.Equal(t, 2, row.CompletedTasks)
	require.Equal(t, 2, row.PendingTasks)
	require.Equal(t, 50, row.Efficiency)
}

func TestUserPerformance(t *testing.T) {
	env := setupReportTestEnv(t)
	project := env.createProject(t, "Apollo")

	_, err := env.svc.AddMember(project.ID, env.member.ID, env.editorID)
	require.NoError(t, err)

	done := env.createTask(t, project.ID, models.TaskStatusDone, nil, nil)
	todo := env.createTask(t, project.ID, models.TaskStatusTodo, nil, nil)
	require.NoError(t, env.db.Model(&done).Update("assignee_id", env.member.ID).Error)
	require.NoError(t, env.db.Model(&todo).Update("assignee_id", env.member.ID).Error)

	rows, err := env.reports.UserPerformance(project.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2, rows[0].TotalTasks)
	require.Equal(t, 1, rows[0].CompletedTasks)
	require.Equal(t, 50, rows[0].CompletionRate)
}
