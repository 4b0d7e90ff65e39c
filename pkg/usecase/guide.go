package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/guide"
)

type GuideUseCase struct {
	repo interfaces.Repository
}

func NewGuideUseCase(repo interfaces.Repository) *GuideUseCase {
	return &GuideUseCase{repo: repo}
}

// ProgressUpdate carries a guide progress write. CompletedSections and
// FormData replace the stored values wholesale; the completion percentage is
// always recomputed server-side.
type ProgressUpdate struct {
	Title             string
	CompletedSections []string
	TotalSections     int
	FormData          map[string]any
}

func (uc *GuideUseCase) getOwnedProject(ctx context.Context, ownerID types.UserID, projectID types.ProjectID) (*model.Project, error) {
	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(ErrProjectNotFound, "project not found", goerr.V(ProjectIDKey, string(projectID)))
	}
	if project.OwnerID != ownerID {
		return nil, goerr.Wrap(ErrAccessDenied, "project belongs to another user", goerr.V(ProjectIDKey, string(projectID)))
	}
	return project, nil
}

// UpdateProgress stores a guide's progress under its project and returns the
// document with the recomputed completion percentage.
func (uc *GuideUseCase) UpdateProgress(ctx context.Context, ownerID types.UserID, projectID types.ProjectID, guideID types.GuideID, update ProgressUpdate) (*model.GuideProgress, error) {
	if _, err := uc.getOwnedProject(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	if err := guideID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid guide id")
	}

	progress := &model.GuideProgress{
		GuideID:           guideID,
		ProjectID:         projectID,
		Title:             update.Title,
		CompletedSections: update.CompletedSections,
		TotalSections:     update.TotalSections,
		FormData:          update.FormData,
	}
	if err := progress.Validate(); err != nil {
		return nil, goerr.Wrap(ErrPreconditionFailed, err.Error(),
			goerr.V(ProjectIDKey, string(projectID)), goerr.V(GuideIDKey, string(guideID)))
	}
	progress.Recompute()

	stored, err := uc.repo.Guide().Put(ctx, progress)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store guide progress",
			goerr.V(ProjectIDKey, string(projectID)), goerr.V(GuideIDKey, string(guideID)))
	}
	return stored, nil
}

func (uc *GuideUseCase) GetProgress(ctx context.Context, ownerID types.UserID, projectID types.ProjectID, guideID types.GuideID) (*model.GuideProgress, error) {
	if _, err := uc.getOwnedProject(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	progress, err := uc.repo.Guide().Get(ctx, projectID, guideID)
	if err != nil {
		return nil, goerr.Wrap(ErrGuideNotFound, "guide progress not found",
			goerr.V(ProjectIDKey, string(projectID)), goerr.V(GuideIDKey, string(guideID)))
	}
	return progress, nil
}

// Export renders a guide's progress as a downloadable document.
func (uc *GuideUseCase) Export(ctx context.Context, ownerID types.UserID, projectID types.ProjectID, guideID types.GuideID, format guide.Format) ([]byte, string, error) {
	if !format.IsValid() {
		return nil, "", goerr.Wrap(guide.ErrUnknownFormat, "unsupported export format", goerr.V("format", string(format)))
	}

	project, err := uc.getOwnedProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, "", err
	}

	progress, err := uc.repo.Guide().Get(ctx, projectID, guideID)
	if err != nil {
		return nil, "", goerr.Wrap(ErrGuideNotFound, "guide progress not found",
			goerr.V(ProjectIDKey, string(projectID)), goerr.V(GuideIDKey, string(guideID)))
	}

	doc := guide.NewDocument(project, progress, time.Now())
	data, err := guide.Render(doc, format)
	if err != nil {
		return nil, "", err
	}

	return data, format.ContentType(), nil
}
