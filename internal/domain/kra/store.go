package kra

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, orgID string) ([]KRA, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, org_id, title, weightage, created_at
    FROM kras
    WHERE org_id = $1
    ORDER BY title
  `, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kras []KRA
	for rows.Next() {
		var k KRA
		if err := rows.Scan(&k.ID, &k.OrgID, &k.Title, &k.Weightage, &k.CreatedAt); err != nil {
			return nil, err
		}
		kras = append(kras, k)
	}
	return kras, rows.Err()
}

func (s *Store) Create(ctx context.Context, orgID, title string, weightage float64) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO kras (org_id, title, weightage)
    VALUES ($1,$2,$3)
    RETURNING id
  `, orgID, title, weightage).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, orgID, kraID, title string, weightage float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kras
    SET title = $1, weightage = $2
    WHERE org_id = $3 AND id = $4
  `, title, weightage, orgID, kraID)
	return err
}

func (s *Store) WeightageByIDs(ctx context.Context, orgID string, kraIDs []string) (map[string]float64, error) {
	weights := make(map[string]float64, len(kraIDs))
	if len(kraIDs) == 0 {
		return weights, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, weightage
    FROM kras
    WHERE org_id = $1 AND id = ANY($2)
  `, orgID, kraIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var weightage float64
		if err := rows.Scan(&id, &weightage); err != nil {
			return nil, err
		}
		weights[id] = weightage
	}
	return weights, rows.Err()
}
