package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhadan/rolegate/internal/models"
)

type guildRepo struct {
	pool *pgxpool.Pool
}

func NewGuildRepository(pool *pgxpool.Pool) GuildRepository {
	return &guildRepo{pool: pool}
}

func (r *guildRepo) Create(ctx context.Context, guild *models.Guild, everyonePerms int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO guilds (id, name, owner_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		guild.ID, guild.Name, guild.OwnerID, guild.CreatedAt,
	); err != nil {
		return err
	}

	// The everyone role shares the guild's ID.
	if _, err := tx.Exec(ctx,
		`INSERT INTO roles (id, guild_id, name, color, permissions, position)
		 VALUES ($1, $1, 'everyone', 0, $2, 0)`,
		guild.ID, everyonePerms,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO members (guild_id, user_id, joined_at)
		 VALUES ($1, $2, $3)`,
		guild.ID, guild.OwnerID, guild.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *guildRepo) GetByID(ctx context.Context, id int64) (*models.Guild, error) {
	g := &models.Guild{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at
		 FROM guilds WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guildRepo) Update(ctx context.Context, guild *models.Guild) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE guilds SET name = $2, owner_id = $3 WHERE id = $1`,
		guild.ID, guild.Name, guild.OwnerID,
	)
	return err
}

func (r *guildRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM guilds WHERE id = $1`, id)
	return err
}

func (r *guildRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Guild, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT g.id, g.name, g.owner_id, g.created_at
		 FROM guilds g
		 INNER JOIN members m ON m.guild_id = g.id
		 WHERE m.user_id = $1
		 ORDER BY g.id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guilds []models.Guild
	for rows.Next() {
		var g models.Guild
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt); err != nil {
			return nil, err
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}
