package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

type ActionItemUseCase struct {
	repo interfaces.Repository
}

func NewActionItemUseCase(repo interfaces.Repository) *ActionItemUseCase {
	return &ActionItemUseCase{repo: repo}
}

func (uc *ActionItemUseCase) Create(ctx context.Context, ownerID types.UserID, item *model.ActionItem) (*model.ActionItem, error) {
	item.OwnerID = ownerID
	item.Status = item.Status.Normalize()

	// the repository assigns the ID and validates the full document
	created, err := uc.repo.ActionItem().Create(ctx, item)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action item")
	}
	return created, nil
}

func (uc *ActionItemUseCase) List(ctx context.Context, ownerID types.UserID) ([]*model.ActionItem, error) {
	items, err := uc.repo.ActionItem().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action items")
	}
	return items, nil
}

// ListByProject lists a project's action items after checking the caller owns
// the project.
func (uc *ActionItemUseCase) ListByProject(ctx context.Context, ownerID types.UserID, projectID types.ProjectID) ([]*model.ActionItem, error) {
	project, err := uc.repo.Project().Get(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(ErrProjectNotFound, "project not found", goerr.V(ProjectIDKey, string(projectID)))
	}
	if project.OwnerID != ownerID {
		return nil, goerr.Wrap(ErrAccessDenied, "project belongs to another user", goerr.V(ProjectIDKey, string(projectID)))
	}

	items, err := uc.repo.ActionItem().ListByProject(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action items", goerr.V(ProjectIDKey, string(projectID)))
	}
	return items, nil
}

func (uc *ActionItemUseCase) getOwned(ctx context.Context, ownerID types.UserID, id types.ActionItemID) (*model.ActionItem, error) {
	item, err := uc.repo.ActionItem().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrActionItemNotFound, "action item not found", goerr.V(ActionIDKey, string(id)))
	}
	if item.OwnerID != ownerID {
		return nil, goerr.Wrap(ErrAccessDenied, "action item belongs to another user", goerr.V(ActionIDKey, string(id)))
	}
	return item, nil
}

// ActionItemUpdate carries the mutable action item fields. Nil means
// unchanged.
type ActionItemUpdate struct {
	Title    *string
	Priority *types.Priority
	Status   *types.ActionItemStatus
	DueDate  *time.Time
}

func (uc *ActionItemUseCase) Update(ctx context.Context, ownerID types.UserID, id types.ActionItemID, update ActionItemUpdate) (*model.ActionItem, error) {
	item, err := uc.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		item.Title = *update.Title
	}
	if update.Priority != nil {
		if !update.Priority.IsValid() {
			return nil, goerr.New("invalid priority", goerr.V("priority", string(*update.Priority)))
		}
		item.Priority = *update.Priority
	}
	if update.Status != nil {
		if !update.Status.IsValid() {
			return nil, goerr.New("invalid status", goerr.V("status", string(*update.Status)))
		}
		item.Status = *update.Status
	}
	if update.DueDate != nil {
		item.DueDate = update.DueDate
	}

	updated, err := uc.repo.ActionItem().Update(ctx, item)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action item", goerr.V(ActionIDKey, string(id)))
	}
	return updated, nil
}

func (uc *ActionItemUseCase) Delete(ctx context.Context, ownerID types.UserID, id types.ActionItemID) error {
	if _, err := uc.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := uc.repo.ActionItem().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete action item", goerr.V(ActionIDKey, string(id)))
	}
	return nil
}

// AssessmentResult is the scored outcome of a readiness assessment: one
// score per category on a 0 to 100 scale.
type AssessmentResult struct {
	ProjectID types.ProjectID
	Scores    map[string]int
}

// generationThreshold is the score below which a category yields an item.
const generationThreshold = 80

// priorityForScore maps a category score to an item priority. Lower scores
// mean larger readiness gaps and more urgent items.
func priorityForScore(score int) types.Priority {
	switch {
	case score < 40:
		return types.PriorityCritical
	case score < 60:
		return types.PriorityHigh
	default:
		return types.PriorityMedium
	}
}

// GenerateFromAssessment derives prioritized action items from an assessment
// result. Categories at or above the threshold are considered healthy and
// produce nothing; the rest get one pending item each, due sooner the worse
// the score.
func (uc *ActionItemUseCase) GenerateFromAssessment(ctx context.Context, ownerID types.UserID, result AssessmentResult) ([]*model.ActionItem, error) {
	if err := result.ProjectID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid project id")
	}
	if len(result.Scores) == 0 {
		return nil, goerr.New("assessment has no scores")
	}

	categories := make([]string, 0, len(result.Scores))
	for category := range result.Scores {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	now := time.Now()
	items := make([]*model.ActionItem, 0, len(categories))
	for _, category := range categories {
		score := result.Scores[category]
		if score >= generationThreshold {
			continue
		}

		priority := priorityForScore(score)
		due := now.AddDate(0, dueMonths(priority), 0)

		items = append(items, &model.ActionItem{
			ProjectID: result.ProjectID,
			OwnerID:   ownerID,
			Title:     fmt.Sprintf("Improve %s readiness", category),
			Category:  category,
			Priority:  priority,
			Status:    types.ActionItemStatusPending,
			DueDate:   &due,
			Metadata: map[string]any{
				"source": "assessment",
				"score":  score,
			},
		})
	}

	if len(items) == 0 {
		return []*model.ActionItem{}, nil
	}

	created, err := uc.repo.ActionItem().CreateMany(ctx, items)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create generated action items",
			goerr.V(ProjectIDKey, string(result.ProjectID)), goerr.V("count", len(items)))
	}
	return created, nil
}

func dueMonths(p types.Priority) int {
	switch p {
	case types.PriorityCritical:
		return 1
	case types.PriorityHigh:
		return 2
	default:
		return 3
	}
}
