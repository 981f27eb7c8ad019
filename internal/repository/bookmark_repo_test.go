package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"smart-bookmarks/internal/domain"
)

const testSchema = `
CREATE TABLE users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL,
    display_name  TEXT NOT NULL DEFAULT '',
    auth_provider TEXT NOT NULL,
    auth_subject  TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (auth_provider, auth_subject)
);

CREATE TABLE bookmarks (
    id         UUID PRIMARY KEY,
    user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    title      TEXT NOT NULL,
    url        TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed repository test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bookmarks_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return pool
}

func createTestUser(t *testing.T, repo *PgUserRepository, email string) domain.User {
	t.Helper()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		AuthProvider: "google",
		AuthSubject:  uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestPgBookmarkRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	users := NewPgUserRepository(pool)
	bookmarks := NewPgBookmarkRepository(pool)

	owner := createTestUser(t, users, "owner@example.com")
	other := createTestUser(t, users, "other@example.com")

	t.Run("list empty returns no error", func(t *testing.T) {
		got, err := bookmarks.ListByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty list got %d", len(got))
		}
	})

	t1 := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	t2 := t1.Add(30 * time.Minute)
	first := domain.Bookmark{ID: uuid.NewString(), UserID: owner.ID, Title: "older", URL: "https://older.test", CreatedAt: t1}
	second := domain.Bookmark{ID: uuid.NewString(), UserID: owner.ID, Title: "newer", URL: "https://newer.test", CreatedAt: t2}

	t.Run("insert returns stored row", func(t *testing.T) {
		got, err := bookmarks.Insert(ctx, first)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if got.ID != first.ID || !got.CreatedAt.Equal(t1) {
			t.Fatalf("unexpected returned row %+v", got)
		}
		if _, err := bookmarks.Insert(ctx, second); err != nil {
			t.Fatalf("insert second: %v", err)
		}
	})

	t.Run("list orders newest first", func(t *testing.T) {
		got, err := bookmarks.ListByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 rows got %d", len(got))
		}
		if got[0].ID != second.ID || got[1].ID != first.ID {
			t.Fatalf("expected [newer older] got [%s %s]", got[0].Title, got[1].Title)
		}
	})

	t.Run("list excludes other owners", func(t *testing.T) {
		got, err := bookmarks.ListByOwner(ctx, other.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no rows for other owner got %d", len(got))
		}
	})

	t.Run("delete scoped by owner", func(t *testing.T) {
		err := bookmarks.Delete(ctx, first.ID, other.ID)
		if !errors.Is(err, ErrBookmarkNotFound) {
			t.Fatalf("expected ErrBookmarkNotFound for foreign owner got %v", err)
		}

		// La fila sigue ahi para el dueño real.
		got, err := bookmarks.ListByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected row untouched got %d rows", len(got))
		}

		if err := bookmarks.Delete(ctx, first.ID, owner.ID); err != nil {
			t.Fatalf("delete as owner: %v", err)
		}
		if err := bookmarks.Delete(ctx, first.ID, owner.ID); !errors.Is(err, ErrBookmarkNotFound) {
			t.Fatalf("expected ErrBookmarkNotFound on repeat got %v", err)
		}
	})
}

func TestPgUserRepositoryGetByAuth(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()

	users := NewPgUserRepository(pool)
	created := createTestUser(t, users, "auth@example.com")

	got, err := users.GetByAuth(ctx, created.AuthProvider, created.AuthSubject)
	if err != nil {
		t.Fatalf("get by auth: %v", err)
	}
	if got.ID != created.ID || got.Email != "auth@example.com" {
		t.Fatalf("unexpected user %+v", got)
	}

	if _, err := users.GetByAuth(ctx, "google", "missing-subject"); err == nil {
		t.Fatal("expected error for unknown subject")
	}
}
