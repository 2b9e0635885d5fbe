package quiz

import (
	"encoding/json"
	"errors"
	"fmt"

	"oraclequiz/internal/model"
)

var (
	ErrEmptyQuiz        = errors.New("quiz has no questions")
	ErrNoActiveQuestion = errors.New("no question is awaiting an answer")
	ErrInvalidOption    = errors.New("selected option out of range")
)

// SessionState is the phase of a quiz session.
type SessionState string

const (
	StateIdle            SessionState = "idle"
	StateAwaitingDisplay SessionState = "awaiting_question"
	StateAwaitingAnswer  SessionState = "awaiting_answer"
	StateComplete        SessionState = "complete"
)

// Session is the in-memory state machine for one quiz round. It is owned
// exclusively by the controller and is not safe for concurrent use on its
// own.
type Session struct {
	questions    []model.Question
	currentIndex int
	score        int
	answers      []model.AnswerRecord
	theme        string
	difficulty   string
	context      json.RawMessage
	state        SessionState
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// Start loads the question set and moves to the first question.
func (s *Session) Start(questions []model.Question, payload *model.QuizPayload) error {
	if len(questions) == 0 {
		return ErrEmptyQuiz
	}
	s.questions = questions
	s.currentIndex = 0
	s.score = 0
	s.answers = make([]model.AnswerRecord, 0, len(questions))
	s.state = StateAwaitingDisplay
	if payload != nil {
		s.theme = payload.Theme
		s.difficulty = payload.Difficulty
		s.context = payload.Raw
	}
	return nil
}

// CurrentQuestion returns the question at the cursor and marks it as
// presented, so exactly one answer is expected before the cursor moves.
func (s *Session) CurrentQuestion() (model.Question, error) {
	if s.state != StateAwaitingDisplay && s.state != StateAwaitingAnswer {
		return model.Question{}, ErrNoActiveQuestion
	}
	s.state = StateAwaitingAnswer
	return s.questions[s.currentIndex], nil
}

// RecordAnswer scores the selection against the presented question, appends
// one answer record, and advances the cursor. Only valid while a question is
// awaiting an answer.
func (s *Session) RecordAnswer(selectedIndex int) (model.AnswerRecord, error) {
	if s.state != StateAwaitingAnswer {
		return model.AnswerRecord{}, ErrNoActiveQuestion
	}

	question := s.questions[s.currentIndex]
	if selectedIndex < 0 || selectedIndex >= len(question.Options) {
		return model.AnswerRecord{}, ErrInvalidOption
	}

	record := model.AnswerRecord{
		Question:  question.Text,
		Selected:  question.Options[selectedIndex],
		Correct:   selectedIndex == question.CorrectIndex,
		IsProfile: question.IsProfile,
	}
	s.answers = append(s.answers, record)
	if record.Correct {
		s.score++
	}

	s.currentIndex++
	if s.currentIndex == len(s.questions) {
		s.state = StateComplete
	} else {
		s.state = StateAwaitingDisplay
	}
	return record, nil
}

// AnswersDict converts the answer log into the {q0: selectedText, ...} map
// the submission endpoint expects.
func (s *Session) AnswersDict() map[string]string {
	dict := make(map[string]string, len(s.answers))
	for i, a := range s.answers {
		dict[fmt.Sprintf("q%d", i)] = a.Selected
	}
	return dict
}

func (s *Session) State() SessionState { return s.state }

func (s *Session) IsComplete() bool { return s.state == StateComplete }

func (s *Session) CurrentIndex() int { return s.currentIndex }

func (s *Session) Score() int { return s.score }

func (s *Session) Total() int { return len(s.questions) }

func (s *Session) Theme() string { return s.theme }

func (s *Session) Difficulty() string { return s.difficulty }

// Context is the opaque quiz payload echoed back on submission.
func (s *Session) Context() json.RawMessage { return s.context }

// Answers returns a copy of the answer log.
func (s *Session) Answers() []model.AnswerRecord {
	out := make([]model.AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

// Question returns the question at index i without touching the cursor.
func (s *Session) Question(i int) (model.Question, bool) {
	if i < 0 || i >= len(s.questions) {
		return model.Question{}, false
	}
	return s.questions[i], true
}
