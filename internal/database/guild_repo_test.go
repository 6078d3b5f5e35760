package database

import (
	"context"
	"testing"
)

func TestGuildRepo_CreateAlsoCreatesDefaults(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	guilds := NewGuildRepository(pool)
	roles := NewRoleRepository(pool)
	members := NewMemberRepository(pool)
	ctx := context.Background()

	owner := createTestUser(t, users)
	guild := createTestGuild(t, guilds, owner.ID)

	got, err := guilds.GetByID(ctx, guild.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil after Create")
	}
	if got.OwnerID != owner.ID {
		t.Errorf("OwnerID = %d, want %d", got.OwnerID, owner.ID)
	}

	// The everyone role shares the guild ID.
	everyone, err := roles.GetByID(ctx, guild.ID)
	if err != nil {
		t.Fatalf("GetByID (everyone role): %v", err)
	}
	if everyone == nil {
		t.Fatal("everyone role was not created with the guild")
	}
	if everyone.GuildID != guild.ID {
		t.Errorf("everyone role GuildID = %d, want %d", everyone.GuildID, guild.ID)
	}

	member, err := members.GetByGuildAndUser(ctx, guild.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetByGuildAndUser: %v", err)
	}
	if member == nil {
		t.Fatal("owner membership was not created with the guild")
	}
}

func TestGuildRepo_GetByID_NotFound(t *testing.T) {
	pool := testPool(t)
	guilds := NewGuildRepository(pool)

	got, err := guilds.GetByID(context.Background(), 999999999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestGuildRepo_GetByUserID(t *testing.T) {
	pool := testPool(t)
	users := NewUserRepository(pool)
	guilds := NewGuildRepository(pool)
	ctx := context.Background()

	owner := createTestUser(t, users)
	guild := createTestGuild(t, guilds, owner.ID)

	list, err := guilds.GetByUserID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}

	found := false
	for _, g := range list {
		if g.ID == guild.ID {
			found = true
		}
	}
	if !found {
		t.Error("owner's guild missing from GetByUserID result")
	}
}
