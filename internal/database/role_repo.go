package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhadan/rolegate/internal/models"
)

type roleRepo struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepo{pool: pool}
}

func (r *roleRepo) Create(ctx context.Context, role *models.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO roles (id, guild_id, name, color, permissions, position)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		role.ID, role.GuildID, role.Name, role.Color, role.Permissions, role.Position,
	)
	return err
}

func (r *roleRepo) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	role := &models.Role{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, guild_id, name, color, permissions, position
		 FROM roles WHERE id = $1`, id,
	).Scan(&role.ID, &role.GuildID, &role.Name, &role.Color, &role.Permissions, &role.Position)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return role, err
}

func (r *roleRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, name, color, permissions, position
		 FROM roles WHERE guild_id = $1
		 ORDER BY position`, guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.GuildID, &role.Name, &role.Color, &role.Permissions, &role.Position); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepo) Update(ctx context.Context, role *models.Role) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE roles SET name = $2, color = $3, permissions = $4, position = $5
		 WHERE id = $1`,
		role.ID, role.Name, role.Color, role.Permissions, role.Position,
	)
	return err
}

func (r *roleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	return err
}

func (r *roleRepo) GetIDsByMember(ctx context.Context, guildID, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role_id FROM member_roles
		 WHERE guild_id = $1 AND user_id = $2`, guildID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
