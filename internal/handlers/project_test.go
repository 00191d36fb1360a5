package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/dto"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/stretchr/testify/require"
)

type projectFixture struct {
	env         serverTestEnv
	adminToken  string
	ownerToken  string
	ownerID     uint64
	memberToken string
	memberID    uint64
	editorRole  uint64
	projectID   uint64
}

// setupProjectFixture registers an admin plus two regular users and lets the
// first regular user create a project. Project creation needs the
// projects:create permission, which the seeded Member role has and Admin
// does not.
func setupProjectFixture(t *testing.T) projectFixture {
	t.Helper()
	env := setupServerTestEnv(t)

	f := projectFixture{
		env:         env,
		adminToken:  env.register(t, "Admin", "admin@example.com"),
		ownerToken:  env.register(t, "Owner", "owner@example.com"),
		memberToken: env.register(t, "Member", "member@example.com"),
	}

	var owner, member models.User
	require.NoError(t, env.db.Where("email = ?", "owner@example.com").First(&owner).Error)
	require.NoError(t, env.db.Where("email = ?", "member@example.com").First(&member).Error)
	f.ownerID = owner.ID
	f.memberID = member.ID

	var editor models.Role
	require.NoError(t, env.db.Where("name = ?", constants.RoleEditor).First(&editor).Error)
	f.editorRole = editor.ID

	w := env.do(t, http.MethodPost, "/api/projects", f.ownerToken, map[string]string{
		"name": "Apollo",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Data dto.ProjectDetailDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	f.projectID = response.Data.ID
	return f
}

func (f projectFixture) addMember(t *testing.T) *json.Decoder {
	t.Helper()
	w := f.env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", f.projectID), f.ownerToken, map[string]uint64{
		"user_id": f.memberID,
		"role_id": f.editorRole,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return json.NewDecoder(w.Body)
}

func TestCreateProject_AdminLacksPermission(t *testing.T) {
	f := setupProjectFixture(t)

	w := f.env.do(t, http.MethodPost, "/api/projects", f.adminToken, map[string]string{
		"name": "Forbidden",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddMember_SecondTimeConflicts(t *testing.T) {
	f := setupProjectFixture(t)
	f.addMember(t)

	w := f.env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", f.projectID), f.ownerToken, map[string]uint64{
		"user_id": f.memberID,
		"role_id": f.editorRole,
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAddMember_OnlyManagersMay(t *testing.T) {
	f := setupProjectFixture(t)
	f.addMember(t)

	// An Editor member cannot manage members.
	w := f.env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", f.projectID), f.memberToken, map[string]uint64{
		"user_id": f.memberID,
		"role_id": f.editorRole,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRemoveMember_OwnerForbidden(t *testing.T) {
	f := setupProjectFixture(t)

	w := f.env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", f.projectID, f.ownerID), f.ownerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMembershipMutations_ReturnFullProject(t *testing.T) {
	f := setupProjectFixture(t)

	decoder := f.addMember(t)
	var response struct {
		Data dto.ProjectDetailDTO `json:"data"`
	}
	require.NoError(t, decoder.Decode(&response))
	require.Len(t, response.Data.Members, 1)
	require.Equal(t, f.memberID, response.Data.Members[0].User.ID)
	require.Equal(t, constants.RoleEditor, response.Data.Members[0].ProjectRole.Name)
	require.NotNil(t, response.Data.Owner)
}

func TestGetProject_InvisibleIsNotFound(t *testing.T) {
	f := setupProjectFixture(t)

	w := f.env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", f.projectID), f.memberToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	f.addMember(t)

	w = f.env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", f.projectID), f.memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteProject_CascadeOverHTTP(t *testing.T) {
	f := setupProjectFixture(t)
	f.addMember(t)

	w := f.env.do(t, http.MethodPost, "/api/tasks", f.ownerToken, map[string]interface{}{
		"title":      "Only task",
		"project_id": f.projectID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", f.projectID), f.ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for name, model := range map[string]interface{}{
		"tasks":   &models.Task{},
		"members": &models.ProjectMember{},
	} {
		var count int64
		require.NoError(t, f.env.db.Model(model).Count(&count).Error)
		require.Zero(t, count, "expected no %s left", name)
	}
}
