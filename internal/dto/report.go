package dto

import (
	"time"

	"github.com/pmoura/scrumboard-api/internal/models"
)

// OverviewStats carries cross-project task totals. The JSON keys are part of
// the wire contract consumed by the dashboard frontend.
type OverviewStats struct {
	TotalTasks        int `json:"totalTarefas"`
	CompletedTasks    int `json:"tarefasConcluidas"`
	CompletedPercent  int `json:"percentualConcluidas"`
	AvgCompletionDays int `json:"tempoMedioConclusao"`
}

// OverviewReport is the cross-project dashboard payload
type OverviewReport struct {
	Stats    OverviewStats `json:"stats"`
	Velocity int           `json:"velocity"`
}

// SprintReportRow is one sprint line in the cross-project sprint report
type SprintReportRow struct {
	ID             uint64     `json:"id"`
	Name           string     `json:"nome"`
	StartDate      *time.Time `json:"dataInicio"`
	EndDate        *time.Time `json:"dataFim"`
	TotalTasks     int        `json:"totalTarefas"`
	CompletedTasks int        `json:"tarefasConcluidas"`
}

// SprintsReport is the cross-project sprint report payload
type SprintsReport struct {
	Sprints []SprintReportRow `json:"sprints"`
}

// TeamMemberReportRow is one member line in the team performance report
type TeamMemberReportRow struct {
	ID             uint64 `json:"id"`
	Name           string `json:"nome"`
	TotalTasks     int    `json:"totalTarefas"`
	CompletedTasks int    `json:"tarefasConcluidas"`
	PendingTasks   int    `json:"tarefasPendentes"`
	Efficiency     int    `json:"eficiencia"`
}

// TeamReport is the cross-project team performance payload
type TeamReport struct {
	TeamPerformance []TeamMemberReportRow `json:"teamPerformance"`
}

// ProjectSummaryMember is a member entry in the per-project summary
type ProjectSummaryMember struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProjectRole string `json:"projectRole"`
}

// ProjectSummaryReport is the per-project summary payload
type ProjectSummaryReport struct {
	ID              uint64                    `json:"id"`
	Name            string                    `json:"name"`
	Status          models.ProjectStatus      `json:"status"`
	TaskStats       map[models.TaskStatus]int `json:"taskStats"`
	SprintCount     int64                     `json:"sprintCount"`
	Members         []ProjectSummaryMember    `json:"members"`
	SprintVelocity  int                       `json:"sprintVelocity"`
	AverageLeadTime int                       `json:"averageLeadTime"`
}

// SprintProgressRow is one sprint line in the per-project progress report
type SprintProgressRow struct {
	ID              uint64     `json:"id"`
	Name            string     `json:"name"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	TotalTasks      int        `json:"totalTasks"`
	CompletedTasks  int        `json:"completedTasks"`
	CommittedPoints int        `json:"committedPoints"`
	CompletedPoints int        `json:"completedPoints"`
}

// UserPerformanceRow is one assignee line in the per-project performance report
type UserPerformanceRow struct {
	User           UserDTO `json:"user"`
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	CompletionRate int     `json:"completionRate"`
}
