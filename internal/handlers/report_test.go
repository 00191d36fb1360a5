package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestReportsOverview_WireFormat(t *testing.T) {
	f := setupProjectFixture(t)

	for _, status := range []models.TaskStatus{
		models.TaskStatusDone, models.TaskStatusDone, models.TaskStatusTodo, models.TaskStatusDoing,
	} {
		w := f.env.do(t, http.MethodPost, "/api/tasks", f.ownerToken, map[string]interface{}{
			"title":      "Task",
			"status":     status,
			"project_id": f.projectID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.env.do(t, http.MethodGet, "/api/reports/overview", f.ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Stats    map[string]json.Number `json:"stats"`
			Velocity json.Number            `json:"velocity"`
		} `json:"data"`
	}
	decoder := json.NewDecoder(w.Body)
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&response))

	require.Equal(t, "4", response.Data.Stats["totalTarefas"].String())
	require.Equal(t, "2", response.Data.Stats["tarefasConcluidas"].String())
	require.Equal(t, "50", response.Data.Stats["percentualConcluidas"].String())
	require.Contains(t, response.Data.Stats, "tempoMedioConclusao")
	require.Equal(t, "0", response.Data.Velocity.String())
}

func TestReportsOverview_EmptyVisibleSet(t *testing.T) {
	env := setupServerTestEnv(t)
	env.register(t, "Admin", "admin@example.com")
	loner := env.register(t, "Loner", "loner@example.com")

	w := env.do(t, http.MethodGet, "/api/reports/overview", loner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Stats    map[string]int `json:"stats"`
			Velocity int            `json:"velocity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Zero(t, response.Data.Stats["totalTarefas"])
	require.Zero(t, response.Data.Stats["percentualConcluidas"])
	require.Zero(t, response.Data.Velocity)
}

func TestReportsSprints_WireFormat(t *testing.T) {
	f := setupProjectFixture(t)

	w := f.env.do(t, http.MethodPost, "/api/sprints", f.ownerToken, map[string]interface{}{
		"name":       "Sprint 1",
		"project_id": f.projectID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.env.do(t, http.MethodGet, "/api/reports/sprints", f.ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Sprints []map[string]interface{} `json:"sprints"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data.Sprints, 1)

	row := response.Data.Sprints[0]
	require.Equal(t, "Sprint 1 (Apollo)", row["nome"])
	require.Contains(t, row, "dataInicio")
	require.Contains(t, row, "dataFim")
	require.Contains(t, row, "totalTarefas")
	require.Contains(t, row, "tarefasConcluidas")
}

func TestReportsTeam_WireFormat(t *testing.T) {
	f := setupProjectFixture(t)
	f.addMember(t)

	w := f.env.do(t, http.MethodPost, "/api/tasks", f.ownerToken, map[string]interface{}{
		"title":       "Assigned",
		"status":      models.TaskStatusDone,
		"project_id":  f.projectID,
		"assignee_id": f.memberID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.env.do(t, http.MethodGet, "/api/reports/team", f.ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			TeamPerformance []map[string]interface{} `json:"teamPerformance"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data.TeamPerformance, 1)

	row := response.Data.TeamPerformance[0]
	require.Equal(t, "Member", row["nome"])
	require.EqualValues(t, 1, row["totalTarefas"])
	require.EqualValues(t, 1, row["tarefasConcluidas"])
	require.EqualValues(t, 0, row["tarefasPendentes"])
	require.EqualValues(t, 100, row["eficiencia"])
}

func TestReportsOverview_SingleProjectMode(t *testing.T) {
	f := setupProjectFixture(t)

	// Visible project: per-project summary shape.
	w := f.env.do(t, http.MethodGet, fmt.Sprintf("/api/reports/overview?projectId=%d", f.projectID), f.ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			TaskStats      map[string]int `json:"taskStats"`
			SprintCount    int            `json:"sprintCount"`
			SprintVelocity int            `json:"sprintVelocity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data.TaskStats, 4)

	// Invisible project: reported as missing, not forbidden.
	w = f.env.do(t, http.MethodGet, fmt.Sprintf("/api/reports/overview?projectId=%d", f.projectID), f.memberToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
