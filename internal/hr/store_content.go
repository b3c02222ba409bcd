package hr

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/welcomedesk/welcomedesk/internal/outbox"
)

/* ---------------- documents ---------------- */

// CreateDocument inserts the document, its department links and a
// document.created outbox event in one transaction, so the "new document"
// notification never fires for a rolled-back row.
func (s *SQLStore) CreateDocument(ctx context.Context, d Document) (Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, err
	}
	defer tx.Rollback()

	d.CreatedAt = time.Now().Unix()
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO documents (title, description, file_key, created_at)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		d.Title, d.Description, d.FileKey, d.CreatedAt).Scan(&d.ID); err != nil {
		return Document{}, err
	}
	for _, deptID := range d.DepartmentIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO document_departments (document_id, department_id) VALUES ($1,$2)`,
			d.ID, deptID); err != nil {
			return Document{}, err
		}
	}
	payload, _ := json.Marshal(map[string]any{"title": d.Title, "department_ids": d.DepartmentIDs})
	if err := outbox.Append(ctx, tx, outbox.TypeDocumentCreated, fmt.Sprint(d.ID), string(payload)); err != nil {
		return Document{}, err
	}
	if err := tx.Commit(); err != nil {
		return Document{}, err
	}
	return d, nil
}

func (s *SQLStore) GetDocument(ctx context.Context, id int64) (Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, file_key, created_at FROM documents WHERE id=$1`, id)
	var d Document
	if err := row.Scan(&d.ID, &d.Title, &d.Description, &d.FileKey, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT department_id FROM document_departments WHERE document_id=$1`, id)
	if err != nil {
		return Document{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var deptID int64
		if err := rows.Scan(&deptID); err != nil {
			return Document{}, err
		}
		d.DepartmentIDs = append(d.DepartmentIDs, deptID)
	}
	return d, rows.Err()
}

func (s *SQLStore) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.queryDocuments(ctx,
		`SELECT id, title, description, file_key, created_at FROM documents ORDER BY created_at DESC, id`)
}

func (s *SQLStore) DocumentsByDepartment(ctx context.Context, departmentID int64) ([]Document, error) {
	return s.queryDocuments(ctx,
		`SELECT d.id, d.title, d.description, d.file_key, d.created_at
		 FROM documents d
		 JOIN document_departments dd ON dd.document_id = d.id
		 WHERE dd.department_id=$1 ORDER BY d.id`, departmentID)
}

func (s *SQLStore) queryDocuments(ctx context.Context, q string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Description, &d.FileKey, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteDocument(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

/* ---------------- quizzes ---------------- */

// CreateQuiz writes the quiz with its nested question/answer tree and a
// quiz.created outbox event in one transaction.
func (s *SQLStore) CreateQuiz(ctx context.Context, in QuizInput) (Quiz, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Quiz{}, err
	}
	defer tx.Rollback()

	q := Quiz{Title: in.Title, DocumentID: in.DocumentID, DepartmentID: in.DepartmentID}
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO quizzes (title, document_id, department_id) VALUES ($1,$2,$3) RETURNING id`,
		q.Title, q.DocumentID, q.DepartmentID).Scan(&q.ID); err != nil {
		return Quiz{}, err
	}
	for _, qi := range in.Questions {
		var questionID int64
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO questions (quiz_id, text) VALUES ($1,$2) RETURNING id`,
			q.ID, qi.Text).Scan(&questionID); err != nil {
			return Quiz{}, err
		}
		for _, ai := range qi.Answers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO answers (question_id, text, is_correct) VALUES ($1,$2,$3)`,
				questionID, ai.Text, ai.IsCorrect); err != nil {
				return Quiz{}, err
			}
		}
	}
	payload, _ := json.Marshal(map[string]any{"title": q.Title, "department_ids": []int64{q.DepartmentID}})
	if err := outbox.Append(ctx, tx, outbox.TypeQuizCreated, fmt.Sprint(q.ID), string(payload)); err != nil {
		return Quiz{}, err
	}
	if err := tx.Commit(); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id int64) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, document_id, department_id FROM quizzes WHERE id=$1`, id)
	var q Quiz
	if err := row.Scan(&q.ID, &q.Title, &q.DocumentID, &q.DepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	return s.queryQuizzes(ctx, `SELECT id, title, document_id, department_id FROM quizzes ORDER BY id`)
}

func (s *SQLStore) QuizzesByDepartment(ctx context.Context, departmentID int64) ([]Quiz, error) {
	return s.queryQuizzes(ctx,
		`SELECT id, title, document_id, department_id FROM quizzes WHERE department_id=$1 ORDER BY id`,
		departmentID)
}

func (s *SQLStore) queryQuizzes(ctx context.Context, q string, args ...any) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Quiz
	for rows.Next() {
		var qz Quiz
		if err := rows.Scan(&qz.ID, &qz.Title, &qz.DocumentID, &qz.DepartmentID); err != nil {
			return nil, err
		}
		out = append(out, qz)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) QuizQuestions(ctx context.Context, quizID int64) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quiz_id, text FROM questions WHERE quiz_id=$1 ORDER BY id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// QuestionIDs returns question ids in presentation order. Insertion order is
// the canonical order, so this is simply ORDER BY id.
func (s *SQLStore) QuestionIDs(ctx context.Context, quizID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM questions WHERE quiz_id=$1 ORDER BY id`, quizID)
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

func (s *SQLStore) GetQuestion(ctx context.Context, id int64) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, quiz_id, text FROM questions WHERE id=$1`, id)
	var q Question
	if err := row.Scan(&q.ID, &q.QuizID, &q.Text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) AnswersByQuestion(ctx context.Context, questionID int64) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, text, is_correct FROM answers WHERE question_id=$1 ORDER BY id`,
		questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Answer
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetAnswer(ctx context.Context, id int64) (Answer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question_id, text, is_correct FROM answers WHERE id=$1`, id)
	var a Answer
	if err := row.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Answer{}, ErrNotFound
		}
		return Answer{}, err
	}
	return a, nil
}

/* ---------------- about / help ---------------- */

func (s *SQLStore) AboutSections(ctx context.Context) ([]AboutSection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, text, ord FROM about_sections ORDER BY ord, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AboutSection
	for rows.Next() {
		var a AboutSection
		if err := rows.Scan(&a.ID, &a.Title, &a.Text, &a.Order); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetAboutSection(ctx context.Context, id int64) (AboutSection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, text, ord FROM about_sections WHERE id=$1`, id)
	var a AboutSection
	if err := row.Scan(&a.ID, &a.Title, &a.Text, &a.Order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AboutSection{}, ErrNotFound
		}
		return AboutSection{}, err
	}
	return a, nil
}

func (s *SQLStore) CreateAboutSection(ctx context.Context, a AboutSection) (AboutSection, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO about_sections (title, text, ord) VALUES ($1,$2,$3) RETURNING id`,
		a.Title, a.Text, a.Order).Scan(&a.ID)
	return a, err
}

func (s *SQLStore) UpdateAboutSection(ctx context.Context, a AboutSection) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE about_sections SET title=$1, text=$2, ord=$3 WHERE id=$4`,
		a.Title, a.Text, a.Order, a.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) DeleteAboutSection(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM about_sections WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) HelpContent(ctx context.Context) (HelpContent, error) {
	var h HelpContent
	err := s.db.QueryRowContext(ctx, `SELECT text FROM help_part ORDER BY id LIMIT 1`).Scan(&h.Text)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return HelpContent{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, url, is_active FROM help_buttons WHERE is_active=$1 ORDER BY id`, true)
	if err != nil {
		return HelpContent{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var b HelpButton
		if err := rows.Scan(&b.ID, &b.Label, &b.URL, &b.IsActive); err != nil {
			return HelpContent{}, err
		}
		h.Buttons = append(h.Buttons, b)
	}
	return h, rows.Err()
}

func (s *SQLStore) SetHelpText(ctx context.Context, text string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE help_part SET text=$1 WHERE id=(SELECT MIN(id) FROM help_part)`, text)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = s.db.ExecContext(ctx, `INSERT INTO help_part (text) VALUES ($1)`, text)
	}
	return err
}

func (s *SQLStore) CreateHelpButton(ctx context.Context, b HelpButton) (HelpButton, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO help_buttons (label, url, is_active) VALUES ($1,$2,$3) RETURNING id`,
		b.Label, b.URL, b.IsActive).Scan(&b.ID)
	return b, err
}

func (s *SQLStore) UpdateHelpButton(ctx context.Context, b HelpButton) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE help_buttons SET label=$1, url=$2, is_active=$3 WHERE id=$4`,
		b.Label, b.URL, b.IsActive, b.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) DeleteHelpButton(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM help_buttons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

/* ---------------- staff accounts ---------------- */

func (s *SQLStore) GetStaff(ctx context.Context, username string) (StaffAccount, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT username, pass_hash, role FROM staff_accounts WHERE username=$1`, username)
	var a StaffAccount
	if err := row.Scan(&a.Username, &a.PassHash, &a.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StaffAccount{}, ErrNotFound
		}
		return StaffAccount{}, err
	}
	return a, nil
}

func (s *SQLStore) UpsertStaff(ctx context.Context, a StaffAccount) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO staff_accounts (username, pass_hash, role) VALUES ($1,$2,$3)
		 ON CONFLICT (username) DO UPDATE SET pass_hash=EXCLUDED.pass_hash, role=EXCLUDED.role`,
		a.Username, a.PassHash, a.Role)
	return err
}

func (s *SQLStore) ListStaff(ctx context.Context) ([]StaffAccount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, pass_hash, role FROM staff_accounts ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StaffAccount
	for rows.Next() {
		var a StaffAccount
		if err := rows.Scan(&a.Username, &a.PassHash, &a.Role); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteStaff(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM staff_accounts WHERE username=$1`, username)
	if err != nil {
		return err
	}
	return requireRow(res)
}
