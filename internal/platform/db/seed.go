package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"appraisal/internal/domain/auth"
	"appraisal/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	orgID, err := ensureOrganisation(ctx, pool, cfg.SeedOrgName, cfg.DefaultTimezone)
	if err != nil {
		return err
	}
	if cfg.SeedAdminEmail == "" {
		return nil
	}
	return ensureAdminUser(ctx, pool, orgID, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureOrganisation(ctx context.Context, pool *pgxpool.Pool, name, timezone string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM organisations WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err := pool.QueryRow(ctx, `
    INSERT INTO organisations (name, timezone)
    VALUES ($1,$2)
    RETURNING id
  `, name, timezone).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, orgID, email, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE org_id = $1 AND email = $2", orgID, email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (org_id, email, password_hash, role, status)
    VALUES ($1,$2,$3,$4,'active')
  `, orgID, email, hash, auth.RoleAdmin)
	return err
}
