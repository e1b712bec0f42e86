package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const cycleColumns = `
    id, org_id, start_date, end_date, publish,
    self_review_start, self_review_end,
    manager_review_start, manager_review_end,
    check_in_start, check_in_end, updated_at`

func (s *Store) ListCycles(ctx context.Context, orgID string) ([]Cycle, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+cycleColumns+`
    FROM review_cycles
    WHERE org_id = $1
    ORDER BY start_date DESC
  `, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

func (s *Store) GetCycle(ctx context.Context, orgID, cycleID string) (Cycle, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+cycleColumns+`
    FROM review_cycles
    WHERE org_id = $1 AND id = $2
  `, orgID, cycleID)
	return scanCycle(row)
}

func (s *Store) ActiveCycle(ctx context.Context, orgID string) (Cycle, bool, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+cycleColumns+`
    FROM review_cycles
    WHERE org_id = $1 AND publish
  `, orgID)
	c, err := scanCycle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cycle{}, false, nil
	}
	if err != nil {
		return Cycle{}, false, err
	}
	return c, true, nil
}

func (s *Store) CreateCycle(ctx context.Context, c Cycle) (Cycle, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Cycle{}, err
	}
	defer tx.Rollback(ctx)

	if c.Publish {
		if _, err := tx.Exec(ctx, "UPDATE review_cycles SET publish = false WHERE org_id = $1", c.OrgID); err != nil {
			return Cycle{}, err
		}
	}
	if err := tx.QueryRow(ctx, `
    INSERT INTO review_cycles (
      org_id, start_date, end_date, publish,
      self_review_start, self_review_end,
      manager_review_start, manager_review_end,
      check_in_start, check_in_end
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id, updated_at
  `, c.OrgID, c.StartDate, c.EndDate, c.Publish,
		c.SelfReviewStart, c.SelfReviewEnd,
		c.ManagerReviewStart, c.ManagerReviewEnd,
		c.CheckInStart, c.CheckInEnd).Scan(&c.ID, &c.UpdatedAt); err != nil {
		return Cycle{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Cycle{}, err
	}
	return c, nil
}

func (s *Store) UpdateCycle(ctx context.Context, c Cycle) (Cycle, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Cycle{}, err
	}
	defer tx.Rollback(ctx)

	if c.Publish {
		if _, err := tx.Exec(ctx, "UPDATE review_cycles SET publish = false WHERE org_id = $1 AND id <> $2", c.OrgID, c.ID); err != nil {
			return Cycle{}, err
		}
	}
	if err := tx.QueryRow(ctx, `
    UPDATE review_cycles
    SET start_date = $1, end_date = $2, publish = $3,
        self_review_start = $4, self_review_end = $5,
        manager_review_start = $6, manager_review_end = $7,
        check_in_start = $8, check_in_end = $9,
        updated_at = now()
    WHERE org_id = $10 AND id = $11
    RETURNING updated_at
  `, c.StartDate, c.EndDate, c.Publish,
		c.SelfReviewStart, c.SelfReviewEnd,
		c.ManagerReviewStart, c.ManagerReviewEnd,
		c.CheckInStart, c.CheckInEnd,
		c.OrgID, c.ID).Scan(&c.UpdatedAt); err != nil {
		return Cycle{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Cycle{}, err
	}
	return c, nil
}

func (s *Store) GetSubmission(ctx context.Context, cycleID, revieweeID, reviewerID string, t ReviewType) (Submission, bool, error) {
	var sub Submission
	err := s.DB.QueryRow(ctx, `
    SELECT id, cycle_id, reviewee_id, reviewer_id, review_type, draft, published, average_rating, created_at, updated_at
    FROM review_submissions
    WHERE cycle_id = $1 AND reviewee_id = $2 AND reviewer_id = $3 AND review_type = $4
  `, cycleID, revieweeID, reviewerID, int(t)).Scan(
		&sub.ID, &sub.CycleID, &sub.RevieweeID, &sub.ReviewerID, &sub.Type,
		&sub.Draft, &sub.Published, &sub.AverageRating, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Submission{}, false, nil
	}
	if err != nil {
		return Submission{}, false, err
	}

	ratings, err := s.submissionRatings(ctx, sub.ID)
	if err != nil {
		return Submission{}, false, err
	}
	sub.Ratings = ratings
	return sub, true, nil
}

func (s *Store) CreateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Submission{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
    INSERT INTO review_submissions (cycle_id, reviewee_id, reviewer_id, review_type, draft, published, average_rating)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id, created_at, updated_at
  `, sub.CycleID, sub.RevieweeID, sub.ReviewerID, int(sub.Type), sub.Draft, sub.Published, sub.AverageRating).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return Submission{}, translateConflict(err)
	}

	if err := insertRatings(ctx, tx, sub.ID, sub.Ratings); err != nil {
		return Submission{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *Store) UpdateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Submission{}, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `
    UPDATE review_submissions
    SET draft = $1, published = $2, average_rating = $3, updated_at = now()
    WHERE id = $4
    RETURNING updated_at
  `, sub.Draft, sub.Published, sub.AverageRating, sub.ID).Scan(&sub.UpdatedAt); err != nil {
		return Submission{}, err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM review_ratings WHERE submission_id = $1", sub.ID); err != nil {
		return Submission{}, err
	}
	if err := insertRatings(ctx, tx, sub.ID, sub.Ratings); err != nil {
		return Submission{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context, cycleID, revieweeID, reviewerID string) ([]Submission, error) {
	query := `
    SELECT id, cycle_id, reviewee_id, reviewer_id, review_type, draft, published, average_rating, created_at, updated_at
    FROM review_submissions
    WHERE cycle_id = $1
  `
	args := []any{cycleID}
	if revieweeID != "" {
		query += " AND reviewee_id = $2"
		args = append(args, revieweeID)
	} else if reviewerID != "" {
		query += " AND reviewer_id = $2"
		args = append(args, reviewerID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.CycleID, &sub.RevieweeID, &sub.ReviewerID, &sub.Type,
			&sub.Draft, &sub.Published, &sub.AverageRating, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range subs {
		ratings, err := s.submissionRatings(ctx, subs[i].ID)
		if err != nil {
			return nil, err
		}
		subs[i].Ratings = ratings
	}
	return subs, nil
}

// CountPendingManagerReviews counts active reports of a manager still
// missing a published manager review in the cycle.
func (s *Store) CountPendingManagerReviews(ctx context.Context, orgID, cycleID, managerID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees e
    WHERE e.org_id = $1 AND e.manager_id = $2 AND e.status = 'active'
      AND NOT EXISTS (
        SELECT 1
        FROM review_submissions rs
        WHERE rs.cycle_id = $3 AND rs.reviewee_id = e.id
          AND rs.reviewer_id = $2 AND rs.review_type = $4 AND rs.published
      )
  `, orgID, managerID, cycleID, int(TypeManager)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) StoredAverageRating(ctx context.Context, cycleID, revieweeID, reviewerID string, t ReviewType) (float64, error) {
	avg := AverageNotComputed
	err := s.DB.QueryRow(ctx, `
    SELECT average_rating
    FROM review_submissions
    WHERE cycle_id = $1 AND reviewee_id = $2 AND reviewer_id = $3 AND review_type = $4
  `, cycleID, revieweeID, reviewerID, int(t)).Scan(&avg)
	if errors.Is(err, pgx.ErrNoRows) {
		return AverageNotComputed, nil
	}
	if err != nil {
		return AverageNotComputed, err
	}
	return avg, nil
}

func (s *Store) submissionRatings(ctx context.Context, submissionID string) ([]KRARating, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT kra_id, weightage, rating
    FROM review_ratings
    WHERE submission_id = $1
    ORDER BY kra_id
  `, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []KRARating
	for rows.Next() {
		var r KRARating
		if err := rows.Scan(&r.KRAID, &r.Weightage, &r.Rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func insertRatings(ctx context.Context, tx pgx.Tx, submissionID string, ratings []KRARating) error {
	for _, r := range ratings {
		if _, err := tx.Exec(ctx, `
      INSERT INTO review_ratings (submission_id, kra_id, weightage, rating)
      VALUES ($1,$2,$3,$4)
    `, submissionID, r.KRAID, r.Weightage, r.Rating); err != nil {
			return err
		}
	}
	return nil
}

// translateConflict maps the storage uniqueness violation on the
// (cycle, reviewee, reviewer, type) key to the domain conflict error.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateManagerMapping
	}
	return err
}

func scanCycle(row pgx.Row) (Cycle, error) {
	var c Cycle
	err := row.Scan(&c.ID, &c.OrgID, &c.StartDate, &c.EndDate, &c.Publish,
		&c.SelfReviewStart, &c.SelfReviewEnd,
		&c.ManagerReviewStart, &c.ManagerReviewEnd,
		&c.CheckInStart, &c.CheckInEnd, &c.UpdatedAt)
	return c, err
}
