package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oraclequiz/internal/model"
)

func threeQuestions() []model.Question {
	return []model.Question{
		{Text: "q one", Options: []string{"a", "b"}, CorrectIndex: 0},
		{Text: "q two", Options: []string{"a", "b", "c"}, CorrectIndex: 2},
		{Text: "q three", Options: []string{"a", "b"}, CorrectIndex: 1},
	}
}

func TestSessionStartRequiresQuestions(t *testing.T) {
	s := NewSession()
	err := s.Start(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyQuiz)
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionStartCapturesPayloadMetadata(t *testing.T) {
	s := NewSession()
	payload := &model.QuizPayload{
		Theme:      "slashers",
		Difficulty: "hard",
		Raw:        json.RawMessage(`{"questions":[]}`),
	}
	require.NoError(t, s.Start(threeQuestions(), payload))

	assert.Equal(t, StateAwaitingDisplay, s.State())
	assert.Equal(t, "slashers", s.Theme())
	assert.Equal(t, "hard", s.Difficulty())
	assert.JSONEq(t, `{"questions":[]}`, string(s.Context()))
	assert.Equal(t, 3, s.Total())
}

func TestSessionAnswerBeforeDisplayRejected(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(threeQuestions(), nil))

	// No question has been presented yet.
	_, err := s.RecordAnswer(0)
	assert.ErrorIs(t, err, ErrNoActiveQuestion)
}

func TestSessionOneAnswerPerQuestion(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(threeQuestions(), nil))

	q, err := s.CurrentQuestion()
	require.NoError(t, err)
	assert.Equal(t, "q one", q.Text)
	assert.Equal(t, StateAwaitingAnswer, s.State())

	record, err := s.RecordAnswer(0)
	require.NoError(t, err)
	assert.True(t, record.Correct)
	assert.Equal(t, "a", record.Selected)
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, StateAwaitingDisplay, s.State())

	// The cursor has moved on; a second answer needs a new presentation.
	_, err = s.RecordAnswer(1)
	assert.ErrorIs(t, err, ErrNoActiveQuestion)
}

func TestSessionInvalidOptionLeavesStateUntouched(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(threeQuestions(), nil))
	_, err := s.CurrentQuestion()
	require.NoError(t, err)

	_, err = s.RecordAnswer(5)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = s.RecordAnswer(-1)
	assert.ErrorIs(t, err, ErrInvalidOption)

	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 0, s.Score())
	assert.Empty(t, s.Answers())

	// The presented question can still be answered.
	record, err := s.RecordAnswer(0)
	require.NoError(t, err)
	assert.True(t, record.Correct)
}

func TestSessionFullRunScoreAndAnswerLog(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(threeQuestions(), nil))

	selections := []int{0, 1, 1} // correct, wrong, correct
	for k, sel := range selections {
		_, err := s.CurrentQuestion()
		require.NoError(t, err)
		_, err = s.RecordAnswer(sel)
		require.NoError(t, err)

		assert.Len(t, s.Answers(), k+1)
		assert.GreaterOrEqual(t, s.Score(), 0)
		assert.LessOrEqual(t, s.Score(), k+1)
	}

	assert.True(t, s.IsComplete())
	assert.Equal(t, 2, s.Score())

	answers := s.Answers()
	require.Len(t, answers, 3)
	assert.True(t, answers[0].Correct)
	assert.False(t, answers[1].Correct)
	assert.True(t, answers[2].Correct)

	_, err := s.CurrentQuestion()
	assert.ErrorIs(t, err, ErrNoActiveQuestion)
}

func TestSessionAnswersDict(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(threeQuestions(), nil))

	for _, sel := range []int{1, 0, 1} {
		_, err := s.CurrentQuestion()
		require.NoError(t, err)
		_, err = s.RecordAnswer(sel)
		require.NoError(t, err)
	}

	dict := s.AnswersDict()
	assert.Equal(t, map[string]string{
		"q0": "b",
		"q1": "a",
		"q2": "b",
	}, dict)
}

func TestSessionAnswersReturnsCopy(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(threeQuestions(), nil))
	_, err := s.CurrentQuestion()
	require.NoError(t, err)
	_, err = s.RecordAnswer(0)
	require.NoError(t, err)

	answers := s.Answers()
	answers[0].Selected = "tampered"
	assert.Equal(t, "a", s.Answers()[0].Selected)
}

func TestSessionQuestionLookup(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(threeQuestions(), nil))

	q, ok := s.Question(2)
	require.True(t, ok)
	assert.Equal(t, "q three", q.Text)

	_, ok = s.Question(3)
	assert.False(t, ok)
	_, ok = s.Question(-1)
	assert.False(t, ok)
}

func TestSessionRestartResetsProgress(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(threeQuestions(), nil))
	for range threeQuestions() {
		_, err := s.CurrentQuestion()
		require.NoError(t, err)
		_, err = s.RecordAnswer(0)
		require.NoError(t, err)
	}
	require.True(t, s.IsComplete())

	require.NoError(t, s.Start(threeQuestions()[:2], nil))
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 0, s.Score())
	assert.Empty(t, s.Answers())
	assert.Equal(t, 2, s.Total())
	assert.Equal(t, StateAwaitingDisplay, s.State())
}
