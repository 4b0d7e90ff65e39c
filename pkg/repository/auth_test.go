package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model/auth"
)

func runTokenRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("PutToken and GetToken", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-123", "test@example.com", "Test User")

		if err := repo.PutToken(ctx, token); err != nil {
			t.Fatalf("PutToken failed: %v", err)
		}

		retrieved, err := repo.GetToken(ctx, token.ID)
		if err != nil {
			t.Fatalf("GetToken failed: %v", err)
		}

		if retrieved.ID != token.ID {
			t.Errorf("ID mismatch: got %v, want %v", retrieved.ID, token.ID)
		}
		if retrieved.Secret != token.Secret {
			t.Errorf("Secret mismatch: got %v, want %v", retrieved.Secret, token.Secret)
		}
		if retrieved.Sub != token.Sub {
			t.Errorf("Sub mismatch: got %v, want %v", retrieved.Sub, token.Sub)
		}
		if retrieved.Email != token.Email {
			t.Errorf("Email mismatch: got %v, want %v", retrieved.Email, token.Email)
		}

		// Firestore stores timestamps with lower precision
		if diff := retrieved.ExpiresAt.Sub(token.ExpiresAt); diff > time.Second || diff < -time.Second {
			t.Errorf("ExpiresAt mismatch: got %v, want %v", retrieved.ExpiresAt, token.ExpiresAt)
		}
	})

	t.Run("GetToken not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.GetToken(ctx, auth.TokenID("nonexistent-token-id"))
		if err == nil {
			t.Fatal("expected error for missing token, got nil")
		}
		if !isNotFound(err) {
			t.Errorf("expected NotFound error, got: %v", err)
		}
	})

	t.Run("DeleteToken", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-456", "delete@example.com", "Delete User")
		if err := repo.PutToken(ctx, token); err != nil {
			t.Fatalf("PutToken failed: %v", err)
		}

		if err := repo.DeleteToken(ctx, token.ID); err != nil {
			t.Fatalf("DeleteToken failed: %v", err)
		}

		_, err := repo.GetToken(ctx, token.ID)
		if !isNotFound(err) {
			t.Errorf("expected NotFound after deletion, got: %v", err)
		}
	})

	t.Run("invalid token is rejected on Put", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		invalid := auth.NewToken("", "test@example.com", "No Subject")
		if err := repo.PutToken(ctx, invalid); err == nil {
			t.Fatal("expected validation error for empty subject, got nil")
		}
	})
}

func TestTokenRepository_Memory(t *testing.T) {
	runTokenRepositoryTest(t, newMemoryRepo)
}

func TestTokenRepository_Firestore(t *testing.T) {
	runTokenRepositoryTest(t, newFirestoreRepo)
}
