package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

type ProjectUseCase struct {
	repo interfaces.Repository
}

func NewProjectUseCase(repo interfaces.Repository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo}
}

func (uc *ProjectUseCase) Create(ctx context.Context, ownerID types.UserID, name, organization string, stage types.ProjectStage) (*model.Project, error) {
	if name == "" {
		return nil, goerr.New("project name is required")
	}
	stage = stage.Normalize()
	if !stage.IsValid() {
		return nil, goerr.New("invalid project stage", goerr.V("stage", string(stage)))
	}

	project := &model.Project{
		OwnerID:      ownerID,
		Name:         name,
		Organization: organization,
		Stage:        stage,
	}
	project.AppendTimeline("project_created", "Project created", time.Now())

	created, err := uc.repo.Project().Create(ctx, project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create project")
	}
	return created, nil
}

func (uc *ProjectUseCase) List(ctx context.Context, ownerID types.UserID) ([]*model.Project, error) {
	projects, err := uc.repo.Project().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects")
	}
	return projects, nil
}

func (uc *ProjectUseCase) Get(ctx context.Context, ownerID types.UserID, id types.ProjectID) (*model.Project, error) {
	project, err := uc.repo.Project().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrProjectNotFound, "project not found", goerr.V(ProjectIDKey, string(id)))
	}
	if project.OwnerID != ownerID {
		return nil, goerr.Wrap(ErrAccessDenied, "project belongs to another user", goerr.V(ProjectIDKey, string(id)))
	}
	return project, nil
}

// ProjectUpdate carries the mutable project fields. Nil means unchanged.
type ProjectUpdate struct {
	Name         *string
	Organization *string
	Stage        *types.ProjectStage
}

func (uc *ProjectUseCase) Update(ctx context.Context, ownerID types.UserID, id types.ProjectID, update ProjectUpdate) (*model.Project, error) {
	project, err := uc.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Organization != nil {
		project.Organization = *update.Organization
	}
	if update.Stage != nil {
		stage := update.Stage.Normalize()
		if !stage.IsValid() {
			return nil, goerr.New("invalid project stage", goerr.V("stage", string(stage)))
		}
		if stage != project.Stage {
			project.Stage = stage
			project.AppendTimeline("stage_changed", "Stage changed to "+stage.String(), time.Now())
		}
	}

	updated, err := uc.repo.Project().Update(ctx, project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update project", goerr.V(ProjectIDKey, string(id)))
	}
	return updated, nil
}

// Delete removes the project together with its guide progress and action
// items.
func (uc *ProjectUseCase) Delete(ctx context.Context, ownerID types.UserID, id types.ProjectID) error {
	if _, err := uc.Get(ctx, ownerID, id); err != nil {
		return err
	}

	guides, err := uc.repo.Guide().ListByProject(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list guide progress", goerr.V(ProjectIDKey, string(id)))
	}
	for _, g := range guides {
		if err := uc.repo.Guide().Delete(ctx, id, g.GuideID); err != nil {
			return goerr.Wrap(err, "failed to delete guide progress",
				goerr.V(ProjectIDKey, string(id)), goerr.V(GuideIDKey, string(g.GuideID)))
		}
	}

	items, err := uc.repo.ActionItem().ListByProject(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list action items", goerr.V(ProjectIDKey, string(id)))
	}
	for _, item := range items {
		if err := uc.repo.ActionItem().Delete(ctx, item.ID); err != nil {
			return goerr.Wrap(err, "failed to delete action item",
				goerr.V(ProjectIDKey, string(id)), goerr.V(ActionIDKey, string(item.ID)))
		}
	}

	if err := uc.repo.Project().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete project", goerr.V(ProjectIDKey, string(id)))
	}
	return nil
}

// Dashboard is the aggregate view a landing page renders: the user's
// projects, recent sessions, and open action items.
type Dashboard struct {
	Projects        []*model.Project
	RecentSessions  []*model.Session
	OpenActionItems []*model.ActionItem
	GeneratedAt     time.Time
}

const dashboardRecentSessions = 10

// Dashboard fans the three store reads out concurrently.
func (uc *ProjectUseCase) Dashboard(ctx context.Context, userID types.UserID) (*Dashboard, error) {
	dashboard := &Dashboard{GeneratedAt: time.Now()}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		projects, err := uc.repo.Project().ListByOwner(ctx, userID)
		if err != nil {
			return goerr.Wrap(err, "failed to list projects")
		}
		dashboard.Projects = projects
		return nil
	})

	eg.Go(func() error {
		sessions, err := uc.repo.Session().ListByUser(ctx, userID, interfaces.WithLimit(dashboardRecentSessions))
		if err != nil {
			return goerr.Wrap(err, "failed to list sessions")
		}
		dashboard.RecentSessions = sessions
		return nil
	})

	eg.Go(func() error {
		items, err := uc.repo.ActionItem().ListByOwner(ctx, userID)
		if err != nil {
			return goerr.Wrap(err, "failed to list action items")
		}
		open := make([]*model.ActionItem, 0, len(items))
		for _, item := range items {
			if item.Status != types.ActionItemStatusCompleted {
				open = append(open, item)
			}
		}
		dashboard.OpenActionItems = open
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return dashboard, nil
}
