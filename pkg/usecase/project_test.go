package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/repository/memory"
	"github.com/readylab-io/waypoint/pkg/usecase"
)

func TestProjectUseCase(t *testing.T) {
	t.Run("create records a timeline event", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		project, err := uc.Project.Create(ctx, testUserID, "AI Readiness", "Acme Corp", types.ProjectStageExploring)
		gt.NoError(t, err).Required()

		gt.Value(t, project.ID).NotEqual(types.ProjectID(""))
		gt.Value(t, project.Name).Equal("AI Readiness")
		gt.Value(t, project.Organization).Equal("Acme Corp")
		gt.Value(t, project.Stage).Equal(types.ProjectStageExploring)
		gt.Array(t, project.Timeline).Length(1)
		gt.Value(t, project.Timeline[0].Label).Equal("project_created")
	})

	t.Run("create without name fails", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Project.Create(ctx, testUserID, "", "Acme Corp", types.ProjectStageExploring)
		gt.Error(t, err)
	})

	t.Run("empty stage defaults", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		project, err := uc.Project.Create(ctx, testUserID, "Project", "", types.ProjectStage(""))
		gt.NoError(t, err).Required()
		gt.Value(t, project.Stage.IsValid()).Equal(true)
	})

	t.Run("get enforces ownership", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		project, err := uc.Project.Create(ctx, testUserID, "Private", "", types.ProjectStageExploring)
		gt.NoError(t, err).Required()

		_, err = uc.Project.Get(ctx, types.UserID("intruder"), project.ID)
		gt.Value(t, errors.Is(err, usecase.ErrAccessDenied)).Equal(true)
	})

	t.Run("stage change appends a timeline event", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		project, err := uc.Project.Create(ctx, testUserID, "Project", "", types.ProjectStageExploring)
		gt.NoError(t, err).Required()

		stage := types.ProjectStagePiloting
		updated, err := uc.Project.Update(ctx, testUserID, project.ID, usecase.ProjectUpdate{Stage: &stage})
		gt.NoError(t, err).Required()

		gt.Value(t, updated.Stage).Equal(types.ProjectStagePiloting)
		gt.Array(t, updated.Timeline).Length(2)
		gt.Value(t, updated.Timeline[1].Label).Equal("stage_changed")

		// writing the same stage again adds nothing
		updated, err = uc.Project.Update(ctx, testUserID, project.ID, usecase.ProjectUpdate{Stage: &stage})
		gt.NoError(t, err).Required()
		gt.Array(t, updated.Timeline).Length(2)
	})

	t.Run("delete cascades to guides and action items", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		project, err := uc.Project.Create(ctx, testUserID, "Doomed", "", types.ProjectStageExploring)
		gt.NoError(t, err).Required()

		_, err = uc.Guide.UpdateProgress(ctx, testUserID, project.ID, types.GuideID("ai-readiness"), usecase.ProgressUpdate{
			Title:         "AI Readiness Guide",
			TotalSections: 5,
		})
		gt.NoError(t, err).Required()

		item, err := uc.ActionItem.Create(ctx, testUserID, &model.ActionItem{
			ProjectID: project.ID,
			Title:     "Collect baseline data",
			Priority:  types.PriorityMedium,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.Project.Delete(ctx, testUserID, project.ID)).Required()

		_, err = uc.Project.Get(ctx, testUserID, project.ID)
		gt.Value(t, errors.Is(err, usecase.ErrProjectNotFound)).Equal(true)

		_, err = uc.Guide.GetProgress(ctx, testUserID, project.ID, types.GuideID("ai-readiness"))
		gt.Error(t, err)

		items, err := uc.ActionItem.List(ctx, testUserID)
		gt.NoError(t, err).Required()
		for _, got := range items {
			gt.Value(t, got.ID).NotEqual(item.ID)
		}
	})
}

func TestDashboard(t *testing.T) {
	t.Run("aggregates projects, sessions, and open items", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		project, err := uc.Project.Create(ctx, testUserID, "Project", "", types.ProjectStageExploring)
		gt.NoError(t, err).Required()

		_, err = uc.Session.Create(ctx, testUserID, types.ToolEDA, "explore", "")
		gt.NoError(t, err).Required()

		open, err := uc.ActionItem.Create(ctx, testUserID, &model.ActionItem{
			ProjectID: project.ID,
			Title:     "Open item",
			Priority:  types.PriorityHigh,
		})
		gt.NoError(t, err).Required()

		done, err := uc.ActionItem.Create(ctx, testUserID, &model.ActionItem{
			ProjectID: project.ID,
			Title:     "Done item",
			Priority:  types.PriorityLow,
			Status:    types.ActionItemStatusCompleted,
		})
		gt.NoError(t, err).Required()

		dashboard, err := uc.Project.Dashboard(ctx, testUserID)
		gt.NoError(t, err).Required()

		gt.Array(t, dashboard.Projects).Length(1)
		gt.Array(t, dashboard.RecentSessions).Length(1)
		gt.Array(t, dashboard.OpenActionItems).Length(1)
		gt.Value(t, dashboard.OpenActionItems[0].ID).Equal(open.ID)
		gt.Value(t, dashboard.OpenActionItems[0].ID).NotEqual(done.ID)
	})

	t.Run("other users' data is excluded", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.Project.Create(ctx, types.UserID("someone-else"), "Theirs", "", types.ProjectStageExploring)
		gt.NoError(t, err).Required()

		dashboard, err := uc.Project.Dashboard(ctx, testUserID)
		gt.NoError(t, err).Required()
		gt.Array(t, dashboard.Projects).Length(0)
	})
}
