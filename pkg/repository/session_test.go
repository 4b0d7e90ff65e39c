package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/repository/firestore"
	"github.com/readylab-io/waypoint/pkg/repository/memory"
)

func isNotFound(err error) bool {
	return errors.Is(err, firestore.ErrNotFound) || errors.Is(err, memory.ErrNotFound)
}

func newSession(userID types.UserID) *model.Session {
	return &model.Session{
		ID:          types.NewSessionID(),
		UserID:      userID,
		Tool:        types.ToolRegression,
		Name:        "test session",
		Status:      types.SessionStatusCreated,
		CurrentStep: 1,
		StepData:    map[string]map[string]any{},
	}
}

func runSessionRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("Create and Get preserve the caller-assigned ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		session := newSession("user-1")
		created, err := repo.Session().Create(ctx, session)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID != session.ID {
			t.Errorf("ID changed by Create: got %v, want %v", created.ID, session.ID)
		}
		if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Error("timestamps not set on Create")
		}

		got, err := repo.Session().Get(ctx, session.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.UserID != session.UserID || got.Tool != session.Tool || got.Name != session.Name {
			t.Errorf("Get returned wrong session: %+v", got)
		}
	})

	t.Run("Get not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Session().Get(ctx, types.NewSessionID())
		if err == nil {
			t.Fatal("expected error for missing session, got nil")
		}
		if !isNotFound(err) {
			t.Errorf("expected NotFound error, got: %v", err)
		}
	})

	t.Run("Update persists step data and bumps UpdatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, newSession("user-1"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		time.Sleep(5 * time.Millisecond)

		created.CurrentStep = 2
		created.Status = types.SessionStatusDataUploaded
		created.SetStepData(types.StepUpload, map[string]any{"rows": float64(100)})

		updated, err := repo.Session().Update(ctx, created)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.CurrentStep != 2 {
			t.Errorf("CurrentStep not persisted: got %d", updated.CurrentStep)
		}
		if updated.StepDataFor(types.StepUpload) == nil {
			t.Error("step data not persisted")
		}
		if !updated.UpdatedAt.After(created.CreatedAt) {
			t.Errorf("UpdatedAt not bumped: created %v, updated %v", created.CreatedAt, updated.UpdatedAt)
		}
	})

	t.Run("Update not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Session().Update(ctx, newSession("user-1"))
		if err == nil {
			t.Fatal("expected error for updating missing session, got nil")
		}
		if !isNotFound(err) {
			t.Errorf("expected NotFound error, got: %v", err)
		}
	})

	t.Run("ListByUser filters, orders, and limits", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		// unique per run so a shared Firestore database stays clean
		userID := types.UserID("user-list-" + types.NewSessionID().String())

		var last *model.Session
		for i := 0; i < 3; i++ {
			created, err := repo.Session().Create(ctx, newSession(userID))
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			last = created
			time.Sleep(5 * time.Millisecond)
		}
		if _, err := repo.Session().Create(ctx, newSession("other-user")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		sessions, err := repo.Session().ListByUser(ctx, userID)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(sessions) != 3 {
			t.Fatalf("expected 3 sessions, got %d", len(sessions))
		}
		if sessions[0].ID != last.ID {
			t.Errorf("most recently updated session should come first: got %v, want %v", sessions[0].ID, last.ID)
		}

		limited, err := repo.Session().ListByUser(ctx, userID, interfaces.WithLimit(2))
		if err != nil {
			t.Fatalf("ListByUser with limit failed: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 sessions with limit, got %d", len(limited))
		}

		trained, err := repo.Session().ListByUser(ctx, userID, interfaces.WithStatus(types.SessionStatusModelsTrained))
		if err != nil {
			t.Fatalf("ListByUser with status failed: %v", err)
		}
		if len(trained) != 0 {
			t.Errorf("expected no trained sessions, got %d", len(trained))
		}
	})

	t.Run("Delete removes the session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Session().Create(ctx, newSession("user-1"))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := repo.Session().Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		_, err = repo.Session().Get(ctx, created.ID)
		if !isNotFound(err) {
			t.Errorf("expected NotFound after delete, got: %v", err)
		}
	})

	t.Run("Create rejects invalid sessions", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		invalid := newSession("user-1")
		invalid.Tool = types.ToolID("quantum")
		if _, err := repo.Session().Create(ctx, invalid); err == nil {
			t.Fatal("expected validation error for invalid tool, got nil")
		}
	})
}

func TestSessionRepository_Memory(t *testing.T) {
	runSessionRepositoryTest(t, newMemoryRepo)
}

func TestSessionRepository_Firestore(t *testing.T) {
	runSessionRepositoryTest(t, newFirestoreRepo)
}
