package database

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhadan/rolegate/internal/models"
	"github.com/mzhadan/rolegate/internal/permissions"
)

// testPool returns a pgxpool.Pool connected to the test database.
// It skips the test if DATABASE_URL is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// testIDCounter provides unique IDs across all tests in the package.
// Starts well above zero to avoid conflicts with any existing data.
var testIDCounter int64 = 500000

func nextID() int64 {
	return atomic.AddInt64(&testIDCounter, 1)
}

func createTestUser(t *testing.T, users UserRepository) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{
		ID:           nextID(),
		Username:     fmt.Sprintf("user_%d", nextID()),
		DisplayName:  "Test User",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	t.Cleanup(func() { _ = users.Delete(ctx, u.ID) })
	return u
}

func createTestGuild(t *testing.T, guilds GuildRepository, ownerID int64) *models.Guild {
	t.Helper()
	ctx := context.Background()
	g := &models.Guild{
		ID:        nextID(),
		Name:      "Test Guild",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := guilds.Create(ctx, g, int64(permissions.DefaultEveryonePerms)); err != nil {
		t.Fatalf("creating test guild: %v", err)
	}
	t.Cleanup(func() { _ = guilds.Delete(ctx, g.ID) })
	return g
}
