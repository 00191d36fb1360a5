package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pmoura/scrumboard-api/internal/dto"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"gorm.io/gorm"
)

// lastSprintWindow is how many ended sprints feed the per-project velocity
const lastSprintWindow = 3

// ReportService computes per-project and cross-project aggregations. Cross-
// project reports cover every project the user owns or is a member of; the
// sums are taken over real rows, so repeated calls with no writes in between
// return identical numbers.
type ReportService struct {
	reportRepo  repository.ReportRepository
	projectRepo repository.ProjectRepository
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.ReportRepository, projectRepo repository.ProjectRepository) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		projectRepo: projectRepo,
	}
}

// ProjectSummary builds the per-project summary: task counts per status,
// sprint count, the flattened member list, the velocity over the last ended
// sprints and the average lead time of done tasks.
func (s *ReportService) ProjectSummary(projectID uint64) (*dto.ProjectSummaryReport, error) {
	project, err := s.projectRepo.FindByIDWithDetails(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	statusCounts, err := s.reportRepo.TaskStatusCounts(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	taskStats := map[models.TaskStatus]int{
		models.TaskStatusTodo:     0,
		models.TaskStatusDoing:    0,
		models.TaskStatusDone:     0,
		models.TaskStatusCanceled: 0,
	}
	for _, row := range statusCounts {
		taskStats[row.Status] = int(row.Count)
	}

	sprintCount, err := s.reportRepo.SprintCount(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sprints: %w", err)
	}

	velocity, err := s.sprintVelocity(projectID)
	if err != nil {
		return nil, err
	}

	members := make([]dto.ProjectSummaryMember, len(project.Members))
	for i, member := range project.Members {
		members[i] = dto.ProjectSummaryMember{
			ID:          member.User.ID,
			Name:        member.User.Name,
			Email:       member.User.Email,
			ProjectRole: member.Role.Name,
		}
	}

	return &dto.ProjectSummaryReport{
		ID:              project.ID,
		Name:            project.Name,
		Status:          project.Status,
		TaskStats:       taskStats,
		SprintCount:     sprintCount,
		Members:         members,
		SprintVelocity:  velocity,
		AverageLeadTime: averageLeadTimeDays(project.Tasks),
	}, nil
}

// sprintVelocity averages the story points of done tasks over the most
// recently ended sprints.
func (s *ReportService) sprintVelocity(projectID uint64) (int, error) {
	sprints, err := s.reportRepo.LastEndedSprints(projectID, lastSprintWindow)
	if err != nil {
		return 0, fmt.Errorf("failed to load ended sprints: %w", err)
	}
	if len(sprints) == 0 {
		return 0, nil
	}

	total := 0
	for _, sprint := range sprints {
		for _, task := range sprint.Tasks {
			if task.Status == models.TaskStatusDone && task.StoryPoints != nil {
				total += *task.StoryPoints
			}
		}
	}
	return roundToInt(float64(total) / float64(len(sprints))), nil
}

// SprintProgress returns task and story point totals for each sprint of the
// project, ordered by start date.
func (s *ReportService) SprintProgress(projectID uint64) ([]dto.SprintProgressRow, error) {
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	sprints, err := s.reportRepo.SprintsWithTasks(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprints: %w", err)
	}

	rows := make([]dto.SprintProgressRow, len(sprints))
	for i, sprint := range sprints {
		row := dto.SprintProgressRow{
			ID:              sprint.ID,
			Name:            sprint.Name,
			StartDate:       sprint.StartDate,
			EndDate:         sprint.EndDate,
			TotalTasks:      len(sprint.Tasks),
			CommittedPoints: sprint.StoryPointsCommitted,
		}
		for _, task := range sprint.Tasks {
			if task.Status != models.TaskStatusDone {
				continue
			}
			row.CompletedTasks++
			if task.StoryPoints != nil {
				row.CompletedPoints += *task.StoryPoints
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// UserPerformance returns total, done and completion rate per assignee of the
// project's tasks.
func (s *ReportService) UserPerformance(projectID uint64) ([]dto.UserPerformanceRow, error) {
	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	tasks, err := s.reportRepo.TasksWithAssignees(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	type tally struct {
		user  models.User
		total int
		done  int
	}
	tallies := make(map[uint64]*tally)
	order := make([]uint64, 0)
	for _, task := range tasks {
		if task.AssigneeID == nil || task.Assignee == nil {
			continue
		}
		t, ok := tallies[*task.AssigneeID]
		if !ok {
			t = &tally{user: *task.Assignee}
			tallies[*task.AssigneeID] = t
			order = append(order, *task.AssigneeID)
		}
		t.total++
		if task.Status == models.TaskStatusDone {
			t.done++
		}
	}

	rows := make([]dto.UserPerformanceRow, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		rows = append(rows, dto.UserPerformanceRow{
			User:           dto.ToUserDTO(t.user),
			TotalTasks:     t.total,
			CompletedTasks: t.done,
			CompletionRate: percentage(t.done, t.total),
		})
	}
	return rows, nil
}

// AggregatedOverview computes the dashboard totals over every project the
// user can see. A user with no visible projects gets all zeros.
func (s *ReportService) AggregatedOverview(userID uint64) (*dto.OverviewReport, error) {
	projectIDs, err := s.projectRepo.VisibleProjectIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve visible projects: %w", err)
	}

	report := &dto.OverviewReport{}
	if len(projectIDs) == 0 {
		return report, nil
	}

	tasks, err := s.reportRepo.TasksByProjectIDs(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	done := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == models.TaskStatusDone {
			done = append(done, task)
		}
	}

	report.Stats = dto.OverviewStats{
		TotalTasks:        len(tasks),
		CompletedTasks:    len(done),
		CompletedPercent:  percentage(len(done), len(tasks)),
		AvgCompletionDays: averageLeadTimeDays(tasks),
	}

	// Velocity here is the sum of the denormalized per-sprint counters, not
	// the per-project average derived from task story points. The two can
	// disagree when the counters drift.
	velocity, err := s.reportRepo.SumSprintCompletedPoints(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sprint points: %w", err)
	}
	report.Velocity = velocity

	return report, nil
}

// AggregatedSprints lists every visible sprint, most recently ending first,
// with task totals resolved through one grouped query over all sprint ids.
func (s *ReportService) AggregatedSprints(userID uint64) (*dto.SprintsReport, error) {
	projectIDs, err := s.projectRepo.VisibleProjectIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve visible projects: %w", err)
	}

	report := &dto.SprintsReport{Sprints: []dto.SprintReportRow{}}
	if len(projectIDs) == 0 {
		return report, nil
	}

	sprints, err := s.reportRepo.SprintsByProjectIDs(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load sprints: %w", err)
	}

	sprintIDs := make([]uint64, len(sprints))
	for i, sprint := range sprints {
		sprintIDs[i] = sprint.ID
	}
	counts, err := s.reportRepo.SprintTaskCounts(sprintIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count sprint tasks: %w", err)
	}

	totals := make(map[uint64]int, len(sprints))
	doneCounts := make(map[uint64]int, len(sprints))
	for _, row := range counts {
		totals[row.SprintID] += int(row.Count)
		if row.Status == models.TaskStatusDone {
			doneCounts[row.SprintID] += int(row.Count)
		}
	}

	for _, sprint := range sprints {
		report.Sprints = append(report.Sprints, dto.SprintReportRow{
			ID:             sprint.ID,
			Name:           fmt.Sprintf("%s (%s)", sprint.Name, sprint.Project.Name),
			StartDate:      sprint.StartDate,
			EndDate:        sprint.EndDate,
			TotalTasks:     totals[sprint.ID],
			CompletedTasks: doneCounts[sprint.ID],
		})
	}
	return report, nil
}

// AggregatedTeamPerformance reports task totals and efficiency for every user
// holding a membership in a visible project.
func (s *ReportService) AggregatedTeamPerformance(userID uint64) (*dto.TeamReport, error) {
	projectIDs, err := s.projectRepo.VisibleProjectIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve visible projects: %w", err)
	}

	report := &dto.TeamReport{TeamPerformance: []dto.TeamMemberReportRow{}}
	if len(projectIDs) == 0 {
		return report, nil
	}

	members, err := s.reportRepo.MembersByProjectIDs(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	if len(members) == 0 {
		return report, nil
	}

	memberIDs := make([]uint64, len(members))
	for i, member := range members {
		memberIDs[i] = member.ID
	}
	counts, err := s.reportRepo.AssigneeTaskCounts(projectIDs, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count assigned tasks: %w", err)
	}

	totals := make(map[uint64]int, len(members))
	doneCounts := make(map[uint64]int, len(members))
	for _, row := range counts {
		totals[row.AssigneeID] += int(row.Count)
		if row.Status == models.TaskStatusDone {
			doneCounts[row.AssigneeID] += int(row.Count)
		}
	}

	for _, member := range members {
		total := totals[member.ID]
		done := doneCounts[member.ID]
		report.TeamPerformance = append(report.TeamPerformance, dto.TeamMemberReportRow{
			ID:             member.ID,
			Name:           member.Name,
			TotalTasks:     total,
			CompletedTasks: done,
			PendingTasks:   total - done,
			Efficiency:     percentage(done, total),
		})
	}
	return report, nil
}

// VisibleProjectSummaries builds the summary report for each project the user
// can see.
func (s *ReportService) VisibleProjectSummaries(userID uint64) ([]dto.ProjectSummaryReport, error) {
	projectIDs, err := s.projectRepo.VisibleProjectIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve visible projects: %w", err)
	}

	summaries := make([]dto.ProjectSummaryReport, 0, len(projectIDs))
	for _, projectID := range projectIDs {
		summary, err := s.ProjectSummary(projectID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *ReportService) requireProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}
	return nil
}

// percentage is round(done/total*100), 0 when total is 0
func percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return roundToInt(float64(done) / float64(total) * 100)
}

// averageLeadTimeDays is the mean age in whole days of the done tasks among
// the given tasks, measured from creation to last update. 0 without done
// tasks.
func averageLeadTimeDays(tasks []models.Task) int {
	var total time.Duration
	count := 0
	for _, task := range tasks {
		if task.Status != models.TaskStatusDone {
			continue
		}
		total += task.UpdatedAt.Sub(task.CreatedAt)
		count++
	}
	if count == 0 {
		return 0
	}
	days := total.Hours() / 24 / float64(count)
	return roundToInt(days)
}

// roundToInt rounds half away from zero
func roundToInt(v float64) int {
	return int(math.Round(v))
}
