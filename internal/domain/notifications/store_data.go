package notifications

import "context"

func (s *Store) CreateNotification(ctx context.Context, orgID, userID, ntype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (org_id, user_id, type, title, body)
    VALUES ($1,$2,$3,$4,$5)
  `, orgID, userID, ntype, title, body)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, orgID, userID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, org_id, user_id, type, title, body, read, created_at
    FROM notifications
    WHERE org_id = $1 AND user_id = $2
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, orgID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.OrgID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, orgID, userID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM notifications
    WHERE org_id = $1 AND user_id = $2 AND NOT read
  `, orgID, userID).Scan(&count)
	return count, err
}

func (s *Store) MarkRead(ctx context.Context, orgID, userID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications
    SET read = true
    WHERE org_id = $1 AND user_id = $2 AND id = $3
  `, orgID, userID, notificationID)
	return err
}

func (s *Store) UserEmail(ctx context.Context, orgID, userID string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, "SELECT email FROM users WHERE org_id = $1 AND id = $2", orgID, userID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *Store) EmailSettings(ctx context.Context, orgID string) (bool, string, error) {
	var enabled bool
	var from string
	err := s.DB.QueryRow(ctx, "SELECT email_enabled, COALESCE(email_from,'') FROM organisations WHERE id = $1", orgID).Scan(&enabled, &from)
	return enabled, from, err
}

func (s *Store) EmployeeUserID(ctx context.Context, orgID, employeeID string) (string, error) {
	var userID string
	if err := s.DB.QueryRow(ctx, "SELECT COALESCE(user_id::text,'') FROM employees WHERE org_id = $1 AND id = $2", orgID, employeeID).Scan(&userID); err != nil {
		return "", err
	}
	return userID, nil
}

func (s *Store) EmployeeName(ctx context.Context, orgID, employeeID string) (string, error) {
	var first, last string
	if err := s.DB.QueryRow(ctx, "SELECT first_name, last_name FROM employees WHERE org_id = $1 AND id = $2", orgID, employeeID).Scan(&first, &last); err != nil {
		return "", err
	}
	return first + " " + last, nil
}

func (s *Store) ManagerIDByEmployeeID(ctx context.Context, orgID, employeeID string) (string, error) {
	var managerID string
	if err := s.DB.QueryRow(ctx, "SELECT COALESCE(manager_id::text,'') FROM employees WHERE org_id = $1 AND id = $2", orgID, employeeID).Scan(&managerID); err != nil {
		return "", err
	}
	return managerID, nil
}
