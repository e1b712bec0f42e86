package org

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

func (s *Store) Get(ctx context.Context, orgID string) (Organisation, error) {
	var o Organisation
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, timezone, email_enabled, COALESCE(email_from,''), created_at
    FROM organisations
    WHERE id = $1
  `, orgID).Scan(&o.ID, &o.Name, &o.Timezone, &o.EmailEnabled, &o.EmailFrom, &o.CreatedAt)
	return o, err
}

func (s *Store) Timezone(ctx context.Context, orgID string) (string, error) {
	var tz string
	if err := s.DB.QueryRow(ctx, "SELECT timezone FROM organisations WHERE id = $1", orgID).Scan(&tz); err != nil {
		return "", err
	}
	return tz, nil
}

func (s *Store) ListEmployees(ctx context.Context, orgID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, org_id, COALESCE(user_id::text,''), first_name, last_name, email, COALESCE(manager_id::text,''), status, created_at
    FROM employees
    WHERE org_id = $1
    ORDER BY last_name, first_name
  `, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.OrgID, &e.UserID, &e.FirstName, &e.LastName, &e.Email, &e.ManagerID, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, orgID, userID string) (string, error) {
	var employeeID string
	if err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE org_id = $1 AND user_id = $2", orgID, userID).Scan(&employeeID); err != nil {
		return "", err
	}
	return employeeID, nil
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

func (s *Store) IsManagerOf(ctx context.Context, orgID, managerEmployeeID, employeeID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE org_id = $1 AND id = $2 AND manager_id = $3
  `, orgID, employeeID, managerEmployeeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
