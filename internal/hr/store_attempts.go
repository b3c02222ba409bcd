package hr

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (s *SQLStore) AttemptExists(ctx context.Context, employeeID, quizID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_attempts WHERE employee_id=$1 AND quiz_id=$2`,
		employeeID, quizID).Scan(&n)
	return n > 0, err
}

func (s *SQLStore) AttemptsByEmployee(ctx context.Context, employeeID int64) ([]QuizAttempt, error) {
	return s.queryAttempts(ctx,
		`SELECT id, employee_id, quiz_id, score, completed_at FROM quiz_attempts
		 WHERE employee_id=$1 ORDER BY completed_at DESC, id`, employeeID)
}

// RecordAttempt commits the attempt row and all of its user_answers rows in
// one transaction. A duplicate (employee, quiz) aborts the whole thing and
// returns ErrAttemptExists; no partial answer rows ever become visible.
func (s *SQLStore) RecordAttempt(ctx context.Context, rec AttemptRecord) (QuizAttempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return QuizAttempt{}, err
	}
	defer tx.Rollback()

	a := QuizAttempt{
		EmployeeID:  rec.EmployeeID,
		QuizID:      rec.QuizID,
		Score:       rec.Score,
		CompletedAt: time.Now().Unix(),
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO quiz_attempts (employee_id, quiz_id, score, completed_at)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		a.EmployeeID, a.QuizID, a.Score, a.CompletedAt).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return QuizAttempt{}, ErrAttemptExists
		}
		return QuizAttempt{}, err
	}
	for _, ans := range rec.Answers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_answers (attempt_id, question_id, answer_id) VALUES ($1,$2,$3)`,
			a.ID, ans.QuestionID, ans.AnswerID); err != nil {
			return QuizAttempt{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return QuizAttempt{}, ErrAttemptExists
		}
		return QuizAttempt{}, err
	}
	return a, nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]QuizAttempt, error) {
	q := `SELECT id, employee_id, quiz_id, score, completed_at FROM quiz_attempts`
	var conds []string
	var args []any
	if opts.QuizID != 0 {
		args = append(args, opts.QuizID)
		conds = append(conds, fmt.Sprintf("quiz_id=$%d", len(args)))
	}
	if opts.EmployeeID != 0 {
		args = append(args, opts.EmployeeID)
		conds = append(conds, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY completed_at DESC, id"
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, opts.Offset)
	}
	return s.queryAttempts(ctx, q, args...)
}

func (s *SQLStore) queryAttempts(ctx context.Context, q string, args ...any) ([]QuizAttempt, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []QuizAttempt
	for rows.Next() {
		var a QuizAttempt
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.QuizID, &a.Score, &a.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) AttemptAnswers(ctx context.Context, attemptID int64) ([]UserAnswer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, attempt_id, question_id, answer_id FROM user_answers
		 WHERE attempt_id=$1 ORDER BY id`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UserAnswer
	for rows.Next() {
		var ua UserAnswer
		if err := rows.Scan(&ua.ID, &ua.AttemptID, &ua.QuestionID, &ua.AnswerID); err != nil {
			return nil, err
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

// ActiveEmployeesByDepartments lists chat ids of active employees in the
// given departments; with no departments it means everyone active.
func (s *SQLStore) ActiveEmployeesByDepartments(ctx context.Context, departmentIDs []int64) ([]int64, error) {
	q := `SELECT id FROM employees WHERE is_active=$1`
	args := []any{true}
	if len(departmentIDs) > 0 {
		q += fmt.Sprintf(" AND department_id IN (%s)", placeholders(len(departmentIDs), 2))
		for _, id := range departmentIDs {
			args = append(args, id)
		}
	}
	q += " ORDER BY id"
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// PendingQuizCounts returns, per active employee with a department, how many
// of the department's quizzes they have not attempted yet. Zero-count rows
// are omitted.
func (s *SQLStore) PendingQuizCounts(ctx context.Context) ([]PendingCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, COUNT(q.id)
		 FROM employees e
		 JOIN quizzes q ON q.department_id = e.department_id
		 LEFT JOIN quiz_attempts a ON a.quiz_id = q.id AND a.employee_id = e.id
		 WHERE e.is_active=$1 AND e.department_id IS NOT NULL AND a.id IS NULL
		 GROUP BY e.id
		 ORDER BY e.id`, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PendingCount
	for rows.Next() {
		var pc PendingCount
		if err := rows.Scan(&pc.EmployeeID, &pc.Count); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}
