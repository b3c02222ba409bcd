package hr

import (
	"context"
	"database/sql"
)

func (s *SQLStore) CreateMailing(ctx context.Context, m Mailing) (Mailing, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Mailing{}, err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		`INSERT INTO mailings (text, scheduled_at, sent) VALUES ($1,$2,$3) RETURNING id`,
		m.Text, m.ScheduledAt, false).Scan(&m.ID); err != nil {
		return Mailing{}, err
	}
	for _, deptID := range m.DepartmentIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mailing_departments (mailing_id, department_id) VALUES ($1,$2)`,
			m.ID, deptID); err != nil {
			return Mailing{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Mailing{}, err
	}
	return m, nil
}

func (s *SQLStore) ListMailings(ctx context.Context) ([]Mailing, error) {
	return s.queryMailings(ctx,
		`SELECT id, text, scheduled_at, sent FROM mailings ORDER BY scheduled_at DESC, id`)
}

// DueMailings lists unsent mailings whose scheduled time has passed.
func (s *SQLStore) DueMailings(ctx context.Context, now int64) ([]Mailing, error) {
	return s.queryMailings(ctx,
		`SELECT id, text, scheduled_at, sent FROM mailings
		 WHERE sent=$1 AND scheduled_at <= $2 ORDER BY scheduled_at, id`, false, now)
}

func (s *SQLStore) queryMailings(ctx context.Context, q string, args ...any) ([]Mailing, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Mailing
	for rows.Next() {
		var m Mailing
		if err := rows.Scan(&m.ID, &m.Text, &m.ScheduledAt, &m.Sent); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		deptIDs, err := s.mailingDepartments(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].DepartmentIDs = deptIDs
	}
	return out, nil
}

func (s *SQLStore) mailingDepartments(ctx context.Context, mailingID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT department_id FROM mailing_departments WHERE mailing_id=$1`, mailingID)
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

func (s *SQLStore) DeleteMailing(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM mailings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) AddAttachment(ctx context.Context, a Attachment) (Attachment, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO attachments (mailing_id, kind, file_key, provider_file_id)
		 VALUES ($1,$2,$3,$4) RETURNING id`,
		a.MailingID, a.Kind, a.FileKey, a.ProviderFileID).Scan(&a.ID)
	return a, err
}

func (s *SQLStore) MailingAttachments(ctx context.Context, mailingID int64) ([]Attachment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mailing_id, kind, file_key, provider_file_id FROM attachments
		 WHERE mailing_id=$1 ORDER BY id`, mailingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attachment
	for rows.Next() {
		var a Attachment
		var mailingID sql.NullInt64
		if err := rows.Scan(&a.ID, &mailingID, &a.Kind, &a.FileKey, &a.ProviderFileID); err != nil {
			return nil, err
		}
		a.MailingID = mailingID.Int64
		out = append(out, a)
	}
	return out, rows.Err()
}

// MailingRecipients resolves the audience: the mailing's departments, or all
// active employees when no department was selected.
func (s *SQLStore) MailingRecipients(ctx context.Context, mailingID int64) ([]int64, error) {
	deptIDs, err := s.mailingDepartments(ctx, mailingID)
	if err != nil {
		return nil, err
	}
	return s.ActiveEmployeesByDepartments(ctx, deptIDs)
}

// SetAttachmentFileID memoizes the provider-assigned file handle after the
// first successful upload. Keyed by the attachment row, never expired.
func (s *SQLStore) SetAttachmentFileID(ctx context.Context, attachmentID int64, fileID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attachments SET provider_file_id=$1 WHERE id=$2`, fileID, attachmentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLStore) MarkMailingSent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE mailings SET sent=$1 WHERE id=$2`, true, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
