package user

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/dbtest"
	"storefront/internal/domain"
)

func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.User{Email: "Ada@Example.com", Name: "Ada", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.Email != "ada@example.com" || created.Role != domain.RoleCustomer {
		t.Fatalf("unexpected user %+v", created)
	}

	if _, err := repo.Create(ctx, domain.User{Email: "ADA@example.com", PasswordHash: "hash"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "ada@EXAMPLE.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != created.ID || byEmail.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", byEmail)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Name != "Ada" {
		t.Fatalf("expected name Ada, got %q", byID.Name)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_Repository(t *testing.T) {
	exerciseRepository(t, NewMemory())
}

func TestPostgres_Repository(t *testing.T) {
	pool := dbtest.Pool(context.Background(), t)
	exerciseRepository(t, NewPostgres(pool, nil))
}
