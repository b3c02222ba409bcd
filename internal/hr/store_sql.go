package hr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/welcomedesk/welcomedesk/internal/outbox"
)

// SQLStore implements Store over database/sql ("sqlite" or "postgres").
type SQLStore struct {
	db     *sql.DB
	driver string
	events *outbox.Repo
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver, events: outbox.NewRepo(db)}
}

// DB exposes the handle for wiring (outbox dispatcher shares it).
func (s *SQLStore) DB() *sql.DB { return s.db }

/* ---------------- employees ---------------- */

func (s *SQLStore) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, first_name, last_name, department_id, is_active, created_at
		 FROM employees WHERE id=$1`, id)
	return scanEmployee(row)
}

func (s *SQLStore) CreateEmployee(ctx context.Context, e Employee) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, username, first_name, last_name, department_id, is_active, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, nullStr(e.Username), nullStr(e.FirstName), nullStr(e.LastName),
		e.DepartmentID, e.IsActive, time.Now().Unix())
	return err
}

func (s *SQLStore) ListEmployees(ctx context.Context, opts EmployeeListOpts) ([]Employee, error) {
	q := `SELECT id, username, first_name, last_name, department_id, is_active, created_at FROM employees`
	var conds []string
	var args []any
	if opts.DepartmentID != 0 {
		args = append(args, opts.DepartmentID)
		conds = append(conds, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if opts.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if opts.PendingOnly {
		conds = append(conds, "NOT is_active")
	}
	if s.driver == "sqlite" {
		// sqlite booleans are integers
		for i, c := range conds {
			if c == "is_active" {
				conds[i] = "is_active=1"
			} else if c == "NOT is_active" {
				conds[i] = "is_active=0"
			}
		}
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id"
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, opts.Offset)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetEmployeeActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE employees SET is_active=$1 WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) AssignDepartment(ctx context.Context, id int64, departmentID *int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE employees SET department_id=$1 WHERE id=$2`, departmentID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) AddComment(ctx context.Context, employeeID int64, text string) (Comment, error) {
	c := Comment{EmployeeID: employeeID, Comment: text, CreatedAt: time.Now().Unix()}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO employee_comments (employee_id, comment, created_at) VALUES ($1,$2,$3) RETURNING id`,
		c.EmployeeID, c.Comment, c.CreatedAt).Scan(&c.ID)
	return c, err
}

func (s *SQLStore) ListComments(ctx context.Context, employeeID int64) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employee_id, comment, created_at FROM employee_comments
		 WHERE employee_id=$1 ORDER BY id`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// EmployeeQuizStats counts quizzes of the employee's department against the
// employee's recorded attempts ("passed X of Y" in the panel).
func (s *SQLStore) EmployeeQuizStats(ctx context.Context, id int64) (QuizStats, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return QuizStats{}, err
	}
	var st QuizStats
	if e.DepartmentID == nil {
		return st, nil
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quizzes WHERE department_id=$1`, *e.DepartmentID).Scan(&st.Total); err != nil {
		return QuizStats{}, err
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT quiz_id) FROM quiz_attempts WHERE employee_id=$1`, id).Scan(&st.Passed); err != nil {
		return QuizStats{}, err
	}
	return st, nil
}

/* ---------------- departments ---------------- */

func (s *SQLStore) CreateDepartment(ctx context.Context, name string) (Department, error) {
	d := Department{Name: name}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO departments (name) VALUES ($1) RETURNING id`, name).Scan(&d.ID)
	return d, err
}

func (s *SQLStore) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLStore) RenameDepartment(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE departments SET name=$1 WHERE id=$2`, name, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) DeleteDepartment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

/* ---------------- helpers ---------------- */

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(r rowScanner) (Employee, error) {
	var e Employee
	var username, first, last sql.NullString
	var dept sql.NullInt64
	if err := r.Scan(&e.ID, &username, &first, &last, &dept, &e.IsActive, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	e.Username = username.String
	e.FirstName = first.String
	e.LastName = last.String
	if dept.Valid {
		e.DepartmentID = &dept.Int64
	}
	return e, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func placeholders(n, from int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ",")
}
