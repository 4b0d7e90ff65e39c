package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
)

func newProject(ownerID types.UserID) *model.Project {
	return &model.Project{
		OwnerID:      ownerID,
		Name:         "test project",
		Organization: "Test Org",
		Stage:        types.ProjectStageExploring,
	}
}

func runProjectRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("Create assigns an ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Project().Create(ctx, newProject("owner-1"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID == "" {
			t.Error("expected an assigned project ID")
		}
		if created.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}

		got, err := repo.Project().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Name != "test project" || got.Organization != "Test Org" {
			t.Errorf("Get returned wrong project: %+v", got)
		}
	})

	t.Run("Get not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Project().Get(ctx, types.NewProjectID())
		if !isNotFound(err) {
			t.Errorf("expected NotFound error, got: %v", err)
		}
	})

	t.Run("Update keeps CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Project().Create(ctx, newProject("owner-1"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		created.Name = "renamed"
		created.Stage = types.ProjectStagePiloting
		created.AppendTimeline("stage_changed", "Stage changed to piloting", time.Now())

		updated, err := repo.Project().Update(ctx, created)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Name != "renamed" {
			t.Errorf("Name not persisted: got %q", updated.Name)
		}
		if len(updated.Timeline) != 1 {
			t.Errorf("Timeline not persisted: got %d events", len(updated.Timeline))
		}
		if diff := updated.CreatedAt.Sub(created.CreatedAt); diff > time.Second || diff < -time.Second {
			t.Errorf("CreatedAt changed on Update: got %v, want %v", updated.CreatedAt, created.CreatedAt)
		}
	})

	t.Run("ListByOwner returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ownerID := types.UserID("owner-" + types.NewProjectID().String())

		var last *model.Project
		for i := 0; i < 2; i++ {
			created, err := repo.Project().Create(ctx, newProject(ownerID))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			last = created
			time.Sleep(5 * time.Millisecond)
		}
		if _, err := repo.Project().Create(ctx, newProject("someone-else")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		projects, err := repo.Project().ListByOwner(ctx, ownerID)
		if err != nil {
			t.Fatalf("ListByOwner failed: %v", err)
		}
		if len(projects) != 2 {
			t.Fatalf("expected 2 projects, got %d", len(projects))
		}
		if projects[0].ID != last.ID {
			t.Errorf("newest project should come first: got %v, want %v", projects[0].ID, last.ID)
		}
	})

	t.Run("Delete removes the project", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Project().Create(ctx, newProject("owner-1"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := repo.Project().Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Project().Get(ctx, created.ID); !isNotFound(err) {
			t.Errorf("expected NotFound after delete, got: %v", err)
		}
	})
}

func TestProjectRepository_Memory(t *testing.T) {
	runProjectRepositoryTest(t, newMemoryRepo)
}

func TestProjectRepository_Firestore(t *testing.T) {
	runProjectRepositoryTest(t, newFirestoreRepo)
}
