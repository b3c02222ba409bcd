// Package quiz drives the question-by-question quiz flow: a keyed session
// record in an external store, strict precondition checks at start, and a
// single transactional write of the finished attempt.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

var (
	ErrNoDepartment     = errors.New("employee has no department")
	ErrQuizNotAvailable = errors.New("quiz not available for this department")
	ErrAlreadyTaken     = errors.New("quiz already taken")
	ErrEmptyQuiz        = errors.New("quiz has no questions")
	ErrNoSession        = errors.New("no quiz in progress")
	ErrAnswerMismatch   = errors.New("answer does not belong to the current question")
	ErrQuizChanged      = errors.New("quiz content changed mid-session")
	ErrNotSaved         = errors.New("attempt could not be saved")
)

// ContentStore is the read surface the engine needs plus the one write,
// RecordAttempt. *hr.SQLStore satisfies it.
type ContentStore interface {
	QuizzesByDepartment(ctx context.Context, departmentID int64) ([]hr.Quiz, error)
	GetQuiz(ctx context.Context, id int64) (hr.Quiz, error)
	QuestionIDs(ctx context.Context, quizID int64) ([]int64, error)
	GetQuestion(ctx context.Context, id int64) (hr.Question, error)
	AnswersByQuestion(ctx context.Context, questionID int64) ([]hr.Answer, error)
	GetAnswer(ctx context.Context, id int64) (hr.Answer, error)
	AttemptExists(ctx context.Context, employeeID, quizID int64) (bool, error)
	AttemptsByEmployee(ctx context.Context, employeeID int64) ([]hr.QuizAttempt, error)
	RecordAttempt(ctx context.Context, rec hr.AttemptRecord) (hr.QuizAttempt, error)
}

type Engine struct {
	content  ContentStore
	sessions SessionStore
}

func NewEngine(content ContentStore, sessions SessionStore) *Engine {
	return &Engine{content: content, sessions: sessions}
}

// Prompt is one question surfaced to the chat.
type Prompt struct {
	Number   int // 1-based, for display
	Total    int
	Question hr.Question
	Answers  []hr.Answer
}

// Summary is the final tally of a completed session.
type Summary struct {
	Score   int
	Total   int
	Attempt hr.QuizAttempt
}

// QuizStatus pairs a quiz with whether the employee already took it.
type QuizStatus struct {
	Quiz  hr.Quiz
	Taken bool
}

// Overview lists the quizzes of the employee's department with taken marks.
func (e *Engine) Overview(ctx context.Context, emp hr.Employee) ([]QuizStatus, error) {
	if emp.DepartmentID == nil {
		return nil, ErrNoDepartment
	}
	quizzes, err := e.content.QuizzesByDepartment(ctx, *emp.DepartmentID)
	if err != nil {
		return nil, err
	}
	attempts, err := e.content.AttemptsByEmployee(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]bool, len(attempts))
	for _, a := range attempts {
		taken[a.QuizID] = true
	}
	out := make([]QuizStatus, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, QuizStatus{Quiz: q, Taken: taken[q.ID]})
	}
	return out, nil
}

// Start opens a session for (employee, quiz) and returns the first question.
// Preconditions, in order: the quiz must belong to the employee's department,
// the employee must not have a recorded attempt, and the quiz must have at
// least one question. A rejected Start leaves the session store untouched.
func (e *Engine) Start(ctx context.Context, emp hr.Employee, quizID int64) (Prompt, error) {
	if emp.DepartmentID == nil {
		return Prompt{}, ErrNoDepartment
	}
	qz, err := e.content.GetQuiz(ctx, quizID)
	if errors.Is(err, hr.ErrNotFound) {
		return Prompt{}, ErrQuizNotAvailable
	}
	if err != nil {
		return Prompt{}, err
	}
	if qz.DepartmentID != *emp.DepartmentID {
		return Prompt{}, ErrQuizNotAvailable
	}
	exists, err := e.content.AttemptExists(ctx, emp.ID, quizID)
	if err != nil {
		return Prompt{}, err
	}
	if exists {
		return Prompt{}, ErrAlreadyTaken
	}
	ids, err := e.content.QuestionIDs(ctx, quizID)
	if err != nil {
		return Prompt{}, err
	}
	if len(ids) == 0 {
		return Prompt{}, ErrEmptyQuiz
	}

	sess := &Session{QuizID: quizID, QuestionIDs: ids}
	if err := e.sessions.Put(ctx, emp.ID, sess); err != nil {
		return Prompt{}, err
	}
	return e.prompt(ctx, emp.ID, sess)
}

// Answer records the chosen answer for the current question and either
// returns the next Prompt or, past the last question, finishes the session
// and returns the Summary. Outside an active session it returns ErrNoSession.
func (e *Engine) Answer(ctx context.Context, emp hr.Employee, answerID int64) (*Prompt, *Summary, error) {
	sess, err := e.sessions.Get(ctx, emp.ID)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil || sess.Cursor >= len(sess.QuestionIDs) {
		return nil, nil, ErrNoSession
	}
	currentID := sess.QuestionIDs[sess.Cursor]

	ans, err := e.content.GetAnswer(ctx, answerID)
	if errors.Is(err, hr.ErrNotFound) {
		// Either a forged id or an answer deleted mid-session. If the current
		// question is gone too, the quiz was edited under us: abort cleanly.
		if _, qerr := e.content.GetQuestion(ctx, currentID); errors.Is(qerr, hr.ErrNotFound) {
			return nil, nil, e.abort(ctx, emp.ID)
		}
		return nil, nil, ErrAnswerMismatch
	}
	if err != nil {
		return nil, nil, err
	}
	// A stale callback from a previous question must not be scored.
	if ans.QuestionID != currentID {
		return nil, nil, ErrAnswerMismatch
	}

	sess.Answers = append(sess.Answers, hr.AnswerRef{QuestionID: ans.QuestionID, AnswerID: ans.ID})
	if ans.IsCorrect {
		sess.Score++
	}
	sess.Cursor++

	if sess.Cursor >= len(sess.QuestionIDs) {
		sum, err := e.finish(ctx, emp.ID, sess)
		if err != nil {
			return nil, nil, err
		}
		return nil, sum, nil
	}

	if err := e.sessions.Put(ctx, emp.ID, sess); err != nil {
		return nil, nil, err
	}
	p, err := e.prompt(ctx, emp.ID, sess)
	if err != nil {
		return nil, nil, err
	}
	return &p, nil, nil
}

func (e *Engine) prompt(ctx context.Context, chatID int64, sess *Session) (Prompt, error) {
	qid := sess.QuestionIDs[sess.Cursor]
	q, err := e.content.GetQuestion(ctx, qid)
	if errors.Is(err, hr.ErrNotFound) {
		return Prompt{}, e.abort(ctx, chatID)
	}
	if err != nil {
		return Prompt{}, err
	}
	answers, err := e.content.AnswersByQuestion(ctx, qid)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Number:   sess.Cursor + 1,
		Total:    len(sess.QuestionIDs),
		Question: q,
		Answers:  answers,
	}, nil
}

// finish commits the attempt and discards the session. The session is
// cleared whether or not the commit succeeded: with no attempt row written
// the employee can simply start over, and a session with its cursor past the
// end must never survive.
func (e *Engine) finish(ctx context.Context, chatID int64, sess *Session) (*Summary, error) {
	attempt, recErr := e.content.RecordAttempt(ctx, hr.AttemptRecord{
		EmployeeID: chatID,
		QuizID:     sess.QuizID,
		Score:      sess.Score,
		Answers:    sess.Answers,
	})
	if err := e.sessions.Clear(ctx, chatID); err != nil && recErr == nil {
		return nil, err
	}
	if recErr != nil {
		if errors.Is(recErr, hr.ErrAttemptExists) {
			return nil, ErrAlreadyTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrNotSaved, recErr)
	}
	return &Summary{Score: sess.Score, Total: len(sess.QuestionIDs), Attempt: attempt}, nil
}

// abort drops a session whose content was edited away underneath it.
func (e *Engine) abort(ctx context.Context, chatID int64) error {
	if err := e.sessions.Clear(ctx, chatID); err != nil {
		return err
	}
	return ErrQuizChanged
}
