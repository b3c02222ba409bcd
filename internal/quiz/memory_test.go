package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	sess := &Session{QuizID: 5, QuestionIDs: []int64{10, 11}, Cursor: 1, Score: 1,
		Answers: []hr.AnswerRef{{QuestionID: 10, AnswerID: 20}}}
	require.NoError(t, s.Put(ctx, 1, sess))

	got, err = s.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.QuizID, got.QuizID)
	assert.Equal(t, sess.Cursor, got.Cursor)

	// the stored session is isolated from later caller mutations
	got.QuestionIDs[0] = 99
	got.Answers[0].AnswerID = 99
	again, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), again.QuestionIDs[0])
	assert.Equal(t, int64(20), again.Answers[0].AnswerID)

	require.NoError(t, s.Clear(ctx, 1))
	got, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	// clearing an idle chat is a no-op
	require.NoError(t, s.Clear(ctx, 2))
}
