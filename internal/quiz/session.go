package quiz

import (
	"context"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

// Session is the transient in-quiz state for one chat. Its absence from the
// store means the chat is idle. QuestionIDs is the ordering snapshotted at
// start time; later edits to the quiz do not touch a running session.
type Session struct {
	QuizID      int64          `json:"quiz_id"`
	QuestionIDs []int64        `json:"question_ids"`
	Cursor      int            `json:"cursor"`
	Score       int            `json:"score"`
	Answers     []hr.AnswerRef `json:"answers"`
}

// SessionStore keeps sessions by chat id. Get returns (nil, nil) for an idle
// chat. Put replaces the whole record. Entries never expire: a session stays
// live for as long as the employee takes to answer.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Put(ctx context.Context, chatID int64, s *Session) error
	Clear(ctx context.Context, chatID int64) error
}
