package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mzhadan/rolegate/internal/models"
)

type overwriteRepo struct {
	pool *pgxpool.Pool
}

func NewOverwriteRepository(pool *pgxpool.Pool) OverwriteRepository {
	return &overwriteRepo{pool: pool}
}

func (r *overwriteRepo) Set(ctx context.Context, overwrite *models.Overwrite) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO channel_overwrites (channel_id, target_id, target_type, allow_bits, deny_bits)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (channel_id, target_id, target_type)
		 DO UPDATE SET allow_bits = EXCLUDED.allow_bits, deny_bits = EXCLUDED.deny_bits`,
		overwrite.ChannelID, overwrite.TargetID, overwrite.TargetType, overwrite.Allow, overwrite.Deny,
	)
	return err
}

func (r *overwriteRepo) GetByChannel(ctx context.Context, channelID int64) ([]models.Overwrite, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel_id, target_id, target_type, allow_bits, deny_bits
		 FROM channel_overwrites WHERE channel_id = $1`, channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overwrites []models.Overwrite
	for rows.Next() {
		var o models.Overwrite
		if err := rows.Scan(&o.ChannelID, &o.TargetID, &o.TargetType, &o.Allow, &o.Deny); err != nil {
			return nil, err
		}
		overwrites = append(overwrites, o)
	}
	return overwrites, rows.Err()
}

func (r *overwriteRepo) Delete(ctx context.Context, channelID, targetID int64, targetType models.OverwriteTarget) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM channel_overwrites
		 WHERE channel_id = $1 AND target_id = $2 AND target_type = $3`,
		channelID, targetID, targetType,
	)
	return err
}
