package reports

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

func (s *Store) SubmissionCounts(ctx context.Context, orgID, cycleID string) (activeEmployees, selfPublished, managerPublished, checkInPublished, drafts int, err error) {
	if err = s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE org_id = $1 AND status = 'active'
  `, orgID).Scan(&activeEmployees); err != nil {
		return
	}

	err = s.DB.QueryRow(ctx, `
    SELECT
      COALESCE(SUM(CASE WHEN review_type = 1 AND published THEN 1 ELSE 0 END),0),
      COALESCE(SUM(CASE WHEN review_type = 2 AND published THEN 1 ELSE 0 END),0),
      COALESCE(SUM(CASE WHEN review_type = 3 AND published THEN 1 ELSE 0 END),0),
      COALESCE(SUM(CASE WHEN draft THEN 1 ELSE 0 END),0)
    FROM review_submissions
    WHERE cycle_id = $1
  `, cycleID).Scan(&selfPublished, &managerPublished, &checkInPublished, &drafts)
	return
}

func (s *Store) ScoreRows(ctx context.Context, orgID, cycleID string) ([]ScoreRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT rs.reviewee_id, e.first_name, e.last_name, rs.reviewer_id, rs.review_type, rs.average_rating
    FROM review_submissions rs
    JOIN employees e ON rs.reviewee_id = e.id
    WHERE e.org_id = $1 AND rs.cycle_id = $2 AND rs.published
    ORDER BY e.last_name, e.first_name, rs.review_type
  `, orgID, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var row ScoreRow
		var first, last string
		if err := rows.Scan(&row.RevieweeID, &first, &last, &row.ReviewerID, &row.ReviewType, &row.Score); err != nil {
			return nil, err
		}
		row.RevieweeName = first + " " + last
		out = append(out, row)
	}
	return out, rows.Err()
}
