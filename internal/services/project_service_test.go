package services

import (
	"testing"

	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type projectTestEnv struct {
	db       *gorm.DB
	svc      *ProjectService
	owner    *models.User
	member   *models.User
	editorID uint64
	viewerID uint64
}

func setupProjectTestEnv(t *testing.T) projectTestEnv {
	t.Helper()
	db := setupTestDB(t)

	auth := newAuthService(db)
	owner, err := auth.Register(RegisterInput{Name: "Owner", Email: "owner@example.com", Password: "supersecret"})
	require.NoError(t, err)
	member, err := auth.Register(RegisterInput{Name: "Member", Email: "member@example.com", Password: "supersecret"})
	require.NoError(t, err)

	roleRepo := repository.NewRoleRepository(db)
	editor, err := roleRepo.FindByName(constants.RoleEditor)
	require.NoError(t, err)
	viewer, err := roleRepo.FindByName(constants.RoleViewer)
	require.NoError(t, err)

	svc := NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		roleRepo,
	)

	return projectTestEnv{
		db:       db,
		svc:      svc,
		owner:    owner,
		member:   member,
		editorID: editor.ID,
		viewerID: viewer.ID,
	}
}

func (env projectTestEnv) createProject(t *testing.T, name string) *models.Project {
	t.Helper()
	project, err := env.svc.CreateProject(CreateProjectInput{
		Name:    name,
		OwnerID: env.owner.ID,
	})
	require.NoError(t, err)
	return project
}

func TestAddMember_DuplicateRejected(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "Apollo")

	_, err := env.svc.AddMember(project.ID, env.member.ID, env.editorID)
	require.NoError(t, err)

	_, err = env.svc.AddMember(project.ID, env.member.ID, env.viewerID)
	require.ErrorIs(t, err, ErrAlreadyMember)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, env.member.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddMember_RequiresProjectScopedRole(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "Apollo")

	var adminRole models.Role
	require.NoError(t, env.db.Where("name = ?", constants.RoleAdmin).First(&adminRole).Error)

	_, err := env.svc.AddMember(project.ID, env.member.ID, adminRole.ID)
	require.ErrorIs(t, err, ErrRoleNotProjectScoped)
}

func TestRemoveMember_OwnerNeverRemovable(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "Apollo")

	// Even with an explicit membership row, the owner stays.
	require.NoError(t, env.db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserID:    env.owner.ID,
		RoleID:    env.editorID,
	}).Error)

	_, err := env.svc.RemoveMember(project.ID, env.owner.ID)
	require.ErrorIs(t, err, ErrCannotRemoveOwner)
}

func TestRemoveMember_ReturnsReloadedProject(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "Apollo")

	_, err := env.svc.AddMember(project.ID, env.member.ID, env.editorID)
	require.NoError(t, err)

	reloaded, err := env.svc.RemoveMember(project.ID, env.member.ID)
	require.NoError(t, err)
	require.Empty(t, reloaded.Members)

	_, err = env.svc.RemoveMember(project.ID, env.member.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestDeleteProject_CascadesEverything(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "Apollo")

	_, err := env.svc.AddMember(project.ID, env.member.ID, env.editorID)
	require.NoError(t, err)

	sprint := models.Sprint{Name: "Sprint 1", ProjectID: project.ID}
	require.NoError(t, env.db.Create(&sprint).Error)

	task := models.Task{
		Title:     "Build the thing",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		ProjectID: project.ID,
		SprintID:  &sprint.ID,
	}
	require.NoError(t, env.db.Create(&task).Error)
	require.NoError(t, env.db.Create(&models.Subtask{Title: "Part one", TaskID: task.ID}).Error)
	require.NoError(t, env.db.Create(&models.Comment{Content: "Looks good", TaskID: task.ID, AuthorID: env.member.ID}).Error)
	require.NoError(t, env.db.Create(&models.Attachment{FileName: "doc.pdf", URL: "https://files/doc.pdf", TaskID: task.ID}).Error)

	require.NoError(t, env.svc.DeleteProject(project.ID))

	// Fresh reads: nothing may reference the project afterwards.
	for name, model := range map[string]interface{}{
		"tasks":       &models.Task{},
		"members":     &models.ProjectMember{},
		"sprints":     &models.Sprint{},
		"subtasks":    &models.Subtask{},
		"comments":    &models.Comment{},
		"attachments": &models.Attachment{},
	} {
		var count int64
		require.NoError(t, env.db.Model(model).Count(&count).Error)
		require.Zero(t, count, "expected no %s left", name)
	}

	_, err = env.svc.GetProject(project.ID, env.owner.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestGetProject_HiddenFromOutsiders(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "Apollo")

	_, err := env.svc.GetProject(project.ID, env.member.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	_, err = env.svc.AddMember(project.ID, env.member.ID, env.viewerID)
	require.NoError(t, err)

	seen, err := env.svc.GetProject(project.ID, env.member.ID)
	require.NoError(t, err)
	require.Equal(t, project.ID, seen.ID)
}

func TestHasProjectPermission(t *testing.T) {
	env := setupProjectTestEnv(t)
	project := env.createProject(t, "Apollo")

	allowed, err := env.svc.HasProjectPermission(project.ID, env.owner.ID, constants.PermProjectManageMembers)
	require.NoError(t, err)
	require.True(t, allowed, "owner always may")

	_, err = env.svc.AddMember(project.ID, env.member.ID, env.viewerID)
	require.NoError(t, err)

	allowed, err = env.svc.HasProjectPermission(project.ID, env.member.ID, constants.PermProjectManageMembers)
	require.NoError(t, err)
	require.False(t, allowed, "viewer may not manage members")
}
