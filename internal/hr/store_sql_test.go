package hr_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welcomedesk/welcomedesk/internal/db"
	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/outbox"
)

func newTestStore(t *testing.T) *hr.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return hr.NewSQLStore(dbh, "sqlite")
}

// seed creates department + active employee + document + two-question quiz.
func seed(t *testing.T, s *hr.SQLStore) (hr.Department, hr.Employee, hr.Quiz) {
	t.Helper()
	ctx := context.Background()

	dep, err := s.CreateDepartment(ctx, "Engineering")
	require.NoError(t, err)

	emp := hr.Employee{ID: 7001, Username: "newhire", FirstName: "Ann"}
	require.NoError(t, s.CreateEmployee(ctx, emp))
	require.NoError(t, s.SetEmployeeActive(ctx, emp.ID, true))
	require.NoError(t, s.AssignDepartment(ctx, emp.ID, &dep.ID))
	emp, err = s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)

	doc, err := s.CreateDocument(ctx, hr.Document{
		Title:         "Fire safety",
		FileKey:       "documents/fire.pdf",
		DepartmentIDs: []int64{dep.ID},
	})
	require.NoError(t, err)

	qz, err := s.CreateQuiz(ctx, hr.QuizInput{
		Title:        "Safety 101",
		DocumentID:   doc.ID,
		DepartmentID: dep.ID,
		Questions: []hr.QuestionInput{
			{Text: "Fire exit?", Answers: []hr.AnswerInput{
				{Text: "Left wing", IsCorrect: true},
				{Text: "Right wing"},
			}},
			{Text: "Emergency number?", Answers: []hr.AnswerInput{
				{Text: "101"},
				{Text: "112", IsCorrect: true},
			}},
		},
	})
	require.NoError(t, err)
	return dep, emp, qz
}

func attemptRecord(t *testing.T, s *hr.SQLStore, emp hr.Employee, qz hr.Quiz) hr.AttemptRecord {
	t.Helper()
	ctx := context.Background()
	ids, err := s.QuestionIDs(ctx, qz.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	var answers []hr.AnswerRef
	for _, qid := range ids {
		as, err := s.AnswersByQuestion(ctx, qid)
		require.NoError(t, err)
		require.NotEmpty(t, as)
		answers = append(answers, hr.AnswerRef{QuestionID: qid, AnswerID: as[0].ID})
	}
	return hr.AttemptRecord{EmployeeID: emp.ID, QuizID: qz.ID, Score: 1, Answers: answers}
}

func TestRecordAttempt(t *testing.T) {
	s := newTestStore(t)
	_, emp, qz := seed(t, s)
	ctx := context.Background()

	att, err := s.RecordAttempt(ctx, attemptRecord(t, s, emp, qz))
	require.NoError(t, err)
	assert.Equal(t, 1, att.Score)
	assert.NotZero(t, att.CompletedAt)

	exists, err := s.AttemptExists(ctx, emp.ID, qz.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	answers, err := s.AttemptAnswers(ctx, att.ID)
	require.NoError(t, err)
	assert.Len(t, answers, 2)
}

func TestRecordAttemptDuplicate(t *testing.T) {
	s := newTestStore(t)
	_, emp, qz := seed(t, s)
	ctx := context.Background()

	rec := attemptRecord(t, s, emp, qz)
	_, err := s.RecordAttempt(ctx, rec)
	require.NoError(t, err)

	_, err = s.RecordAttempt(ctx, rec)
	assert.ErrorIs(t, err, hr.ErrAttemptExists)

	// the failed second attempt left no partial user_answers rows
	var count int
	err = s.DB().QueryRow(`SELECT COUNT(*) FROM user_answers`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err := s.AttemptsByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteQuizCascades(t *testing.T) {
	s := newTestStore(t)
	_, emp, qz := seed(t, s)
	ctx := context.Background()

	att, err := s.RecordAttempt(ctx, attemptRecord(t, s, emp, qz))
	require.NoError(t, err)

	require.NoError(t, s.DeleteQuiz(ctx, qz.ID))

	exists, err := s.AttemptExists(ctx, emp.ID, qz.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	answers, err := s.AttemptAnswers(ctx, att.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestPendingQuizCounts(t *testing.T) {
	s := newTestStore(t)
	_, emp, qz := seed(t, s)
	ctx := context.Background()

	pending, err := s.PendingQuizCounts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, emp.ID, pending[0].EmployeeID)
	assert.Equal(t, 1, pending[0].Count)

	_, err = s.RecordAttempt(ctx, attemptRecord(t, s, emp, qz))
	require.NoError(t, err)

	pending, err = s.PendingQuizCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestEmployeeQuizStats(t *testing.T) {
	s := newTestStore(t)
	dep, emp, qz := seed(t, s)
	ctx := context.Background()

	doc, err := s.CreateDocument(ctx, hr.Document{Title: "Second doc", FileKey: "documents/second.pdf", DepartmentIDs: []int64{dep.ID}})
	require.NoError(t, err)
	_, err = s.CreateQuiz(ctx, hr.QuizInput{
		Title: "Second quiz", DocumentID: doc.ID, DepartmentID: dep.ID,
		Questions: []hr.QuestionInput{{Text: "q", Answers: []hr.AnswerInput{{Text: "a", IsCorrect: true}}}},
	})
	require.NoError(t, err)

	_, err = s.RecordAttempt(ctx, attemptRecord(t, s, emp, qz))
	require.NoError(t, err)

	stats, err := s.EmployeeQuizStats(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 2, stats.Total)
}

func TestOutboxEventsOnContentCreation(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	repo := outbox.NewRepo(s.DB())
	events, err := repo.Unprocessed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2) // document.created + quiz.created
	assert.Equal(t, outbox.TypeDocumentCreated, events[0].Type)
	assert.Equal(t, outbox.TypeQuizCreated, events[1].Type)

	for _, e := range events {
		require.NoError(t, repo.MarkProcessed(ctx, e.Offset))
	}
	events, err = repo.Unprocessed(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMailingLifecycle(t *testing.T) {
	s := newTestStore(t)
	dep, emp, _ := seed(t, s)
	ctx := context.Background()
	now := time.Now().Unix()

	m, err := s.CreateMailing(ctx, hr.Mailing{
		Text:          "Welcome aboard",
		DepartmentIDs: []int64{dep.ID},
		ScheduledAt:   now - 60,
	})
	require.NoError(t, err)

	future, err := s.CreateMailing(ctx, hr.Mailing{Text: "Later", ScheduledAt: now + 3600})
	require.NoError(t, err)

	due, err := s.DueMailings(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, m.ID, due[0].ID)

	recipients, err := s.MailingRecipients(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{emp.ID}, recipients)

	att, err := s.AddAttachment(ctx, hr.Attachment{MailingID: m.ID, Kind: hr.AttachmentPhoto, FileKey: "mailings/p.jpg"})
	require.NoError(t, err)
	require.NoError(t, s.SetAttachmentFileID(ctx, att.ID, "tg-file-123"))

	atts, err := s.MailingAttachments(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, atts, 1)
	assert.Equal(t, "tg-file-123", atts[0].ProviderFileID)

	require.NoError(t, s.MarkMailingSent(ctx, m.ID))
	due, err = s.DueMailings(ctx, now+7200)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, future.ID, due[0].ID)
}

func TestActiveEmployeesByDepartments(t *testing.T) {
	s := newTestStore(t)
	dep, emp, _ := seed(t, s)
	ctx := context.Background()

	// a second, inactive employee in the same department
	require.NoError(t, s.CreateEmployee(ctx, hr.Employee{ID: 7002, Username: "pending"}))
	require.NoError(t, s.AssignDepartment(ctx, 7002, &dep.ID))

	// an active employee without a department
	require.NoError(t, s.CreateEmployee(ctx, hr.Employee{ID: 7003, Username: "floating"}))
	require.NoError(t, s.SetEmployeeActive(ctx, 7003, true))

	got, err := s.ActiveEmployeesByDepartments(ctx, []int64{dep.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{emp.ID}, got)

	// empty department list means every active employee
	all, err := s.ActiveEmployeesByDepartments(ctx, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{emp.ID, 7003}, all)
}

func TestEmployeeListFilters(t *testing.T) {
	s := newTestStore(t)
	dep, emp, _ := seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.CreateEmployee(ctx, hr.Employee{ID: 7002, Username: "pending"}))

	active, err := s.ListEmployees(ctx, hr.EmployeeListOpts{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, emp.ID, active[0].ID)

	pending, err := s.ListEmployees(ctx, hr.EmployeeListOpts{PendingOnly: true})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(7002), pending[0].ID)

	byDept, err := s.ListEmployees(ctx, hr.EmployeeListOpts{DepartmentID: dep.ID})
	require.NoError(t, err)
	require.Len(t, byDept, 1)
	assert.Equal(t, emp.ID, byDept[0].ID)
}

func TestDeleteDepartmentDetachesEmployees(t *testing.T) {
	s := newTestStore(t)
	dep, emp, _ := seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.DeleteDepartment(ctx, dep.ID))

	got, err := s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DepartmentID)
	assert.True(t, got.IsActive)
}
