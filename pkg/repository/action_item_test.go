package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

func newActionItem(ownerID types.UserID, projectID types.ProjectID) *model.ActionItem {
	return &model.ActionItem{
		ProjectID: projectID,
		OwnerID:   ownerID,
		Title:     "Establish a data catalog",
		Category:  "data",
		Priority:  types.PriorityHigh,
	}
}

func runActionItemRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("Create assigns an ID and defaults the status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ActionItem().Create(ctx, newActionItem("owner-1", types.NewProjectID()))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID == "" {
			t.Error("expected an assigned action item ID")
		}
		if created.Status != types.ActionItemStatusPending {
			t.Errorf("expected pending status, got %v", created.Status)
		}
		if created.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	})

	t.Run("CreateMany persists every item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ownerID := types.UserID("owner-" + types.NewProjectID().String())
		projectID := types.NewProjectID()
		items := []*model.ActionItem{
			newActionItem(ownerID, projectID),
			newActionItem(ownerID, projectID),
			newActionItem(ownerID, projectID),
		}

		created, err := repo.ActionItem().CreateMany(ctx, items)
		if err != nil {
			t.Fatalf("CreateMany failed: %v", err)
		}
		if len(created) != 3 {
			t.Fatalf("expected 3 created items, got %d", len(created))
		}
		seen := map[types.ActionItemID]bool{}
		for _, c := range created {
			if c.ID == "" {
				t.Error("expected an assigned ID")
			}
			if seen[c.ID] {
				t.Errorf("duplicate ID assigned: %v", c.ID)
			}
			seen[c.ID] = true
		}

		listed, err := repo.ActionItem().ListByProject(ctx, projectID)
		if err != nil {
			t.Fatalf("ListByProject failed: %v", err)
		}
		if len(listed) != 3 {
			t.Errorf("expected 3 listed items, got %d", len(listed))
		}
	})

	t.Run("Get not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.ActionItem().Get(ctx, types.NewActionItemID())
		if !isNotFound(err) {
			t.Errorf("expected NotFound error, got: %v", err)
		}
	})

	t.Run("ListByOwner returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ownerID := types.UserID("owner-" + types.NewProjectID().String())
		projectID := types.NewProjectID()

		first, err := repo.ActionItem().Create(ctx, newActionItem(ownerID, projectID))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		second, err := repo.ActionItem().Create(ctx, newActionItem(ownerID, projectID))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := repo.ActionItem().Create(ctx, newActionItem("someone-else", projectID)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		items, err := repo.ActionItem().ListByOwner(ctx, ownerID)
		if err != nil {
			t.Fatalf("ListByOwner failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].ID != second.ID || items[1].ID != first.ID {
			t.Errorf("expected newest-first ordering, got %v then %v", items[0].ID, items[1].ID)
		}
	})

	t.Run("ListByProject filters by project", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ownerID := types.UserID("owner-" + types.NewProjectID().String())
		projectID := types.NewProjectID()
		if _, err := repo.ActionItem().Create(ctx, newActionItem(ownerID, projectID)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := repo.ActionItem().Create(ctx, newActionItem(ownerID, types.NewProjectID())); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		items, err := repo.ActionItem().ListByProject(ctx, projectID)
		if err != nil {
			t.Fatalf("ListByProject failed: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("expected 1 item for the project, got %d", len(items))
		}
	})

	t.Run("Update keeps CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ActionItem().Create(ctx, newActionItem("owner-1", types.NewProjectID()))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		due := time.Now().AddDate(0, 1, 0).UTC().Truncate(time.Second)
		created.Status = types.ActionItemStatusCompleted
		created.DueDate = &due

		updated, err := repo.ActionItem().Update(ctx, created)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Status != types.ActionItemStatusCompleted {
			t.Errorf("Status not persisted: got %v", updated.Status)
		}
		if updated.DueDate == nil || !updated.DueDate.Equal(due) {
			t.Errorf("DueDate not persisted: got %v", updated.DueDate)
		}
		if diff := updated.CreatedAt.Sub(created.CreatedAt); diff > time.Second || diff < -time.Second {
			t.Errorf("CreatedAt changed on Update: got %v, want %v", updated.CreatedAt, created.CreatedAt)
		}
	})

	t.Run("Delete removes the item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ActionItem().Create(ctx, newActionItem("owner-1", types.NewProjectID()))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := repo.ActionItem().Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.ActionItem().Get(ctx, created.ID); !isNotFound(err) {
			t.Errorf("expected NotFound after delete, got: %v", err)
		}
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		item := newActionItem("owner-1", types.NewProjectID())
		item.Title = ""
		if _, err := repo.ActionItem().Create(ctx, item); err == nil {
			t.Error("expected validation error for missing title")
		}
	})
}

func TestActionItemRepository_Memory(t *testing.T) {
	runActionItemRepositoryTest(t, newMemoryRepo)
}

func TestActionItemRepository_Firestore(t *testing.T) {
	runActionItemRepositoryTest(t, newFirestoreRepo)
}
