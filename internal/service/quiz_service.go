package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"oraclequiz/internal/cache"
	"oraclequiz/internal/model"
	"oraclequiz/internal/oracle"
	"oraclequiz/internal/quiz"
)

var (
	ErrNoActiveRound    = errors.New("no active quiz round")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrRoundNotComplete = errors.New("quiz round is not complete")
)

// OracleAPI is the slice of the Oracle client the controller depends on.
type OracleAPI interface {
	StartQuiz(ctx context.Context, req oracle.StartQuizRequest) (*model.QuizPayload, error)
	CachedQuiz(ctx context.Context) (*model.QuizPayload, error)
	SubmitAnswers(ctx context.Context, userID string, quizContext json.RawMessage, answers map[string]string) (*model.EvaluationResult, error)
}

// RoundView is what the UI needs to open a round: metadata plus the first
// question.
type RoundView struct {
	QuizNumber  int                `json:"quizNumber"`
	Theme       string             `json:"theme"`
	Difficulty  string             `json:"difficulty"`
	Room        string             `json:"room,omitempty"`
	Intro       string             `json:"intro,omitempty"`
	LoreWhisper string             `json:"loreWhisper,omitempty"`
	FearLevel   float64            `json:"fearLevel"`
	Question    model.QuestionView `json:"question"`
}

// AnswerFeedback reveals the outcome of one recorded answer.
type AnswerFeedback struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Selected     string `json:"selected"`
	IsProfile    bool   `json:"isProfile"`
	Score        int    `json:"score"`
	Done         bool   `json:"done"`
}

// ResultView is the evaluated round surfaced to the UI.
type ResultView struct {
	QuizNumber      int                    `json:"quizNumber"`
	Score           int                    `json:"score"`
	OutOf           int                    `json:"outOf"`
	Percentage      float64                `json:"percentage"`
	OracleReaction  string                 `json:"oracleReaction,omitempty"`
	Rewards         *model.Reward          `json:"rewards,omitempty"`
	Recommendations []model.Recommendation `json:"recommendations,omitempty"`
	LoreWhisper     string                 `json:"loreWhisper,omitempty"`
	FearLevel       float64                `json:"fearLevel"`
	NextReady       bool                   `json:"nextReady"`
}

type round struct {
	session    *quiz.Session
	quizNumber int
	room       string
	intro      string
	lore       *model.Lore
}

// QuizService orchestrates the full round: fetch, normalize, question flow,
// submission, profile bookkeeping, and next-round prefetching.
type QuizService struct {
	oracle   OracleAPI
	profiles *ProfileService

	mu         sync.Mutex
	rounds     map[string]*round
	states     map[string]*oracleStateOwner
	prefetches map[string]*cache.PrefetchCache
}

// NewQuizService creates a new quiz controller.
func NewQuizService(oracleAPI OracleAPI, profiles *ProfileService) *QuizService {
	return &QuizService{
		oracle:     oracleAPI,
		profiles:   profiles,
		rounds:     make(map[string]*round),
		states:     make(map[string]*oracleStateOwner),
		prefetches: make(map[string]*cache.PrefetchCache),
	}
}

// StartRound begins a fresh round for the user, preferring a prefetched
// payload when one is ready.
func (s *QuizService) StartRound(ctx context.Context, userID, movie string) (*RoundView, error) {
	userID = resolveUserID(userID)
	owner := s.ownerFor(ctx, userID)

	// A prefetched quiz was generated without a movie hint, so it cannot
	// serve a movie-specific request; the slot stays put for later rounds.
	var payload *model.QuizPayload
	var ok bool
	if movie == "" {
		payload, ok = s.prefetchFor(userID).Consume()
	}
	if !ok {
		snap := owner.Snapshot()
		fresh, err := s.oracle.StartQuiz(ctx, oracle.StartQuizRequest{
			UserID:     userID,
			ForceNew:   true,
			Difficulty: snap.NextDifficulty,
			Theme:      snap.NextTheme,
			Movie:      movie,
		})
		if err != nil {
			return nil, err
		}
		payload = fresh
	}

	return s.beginRound(ctx, userID, owner, payload)
}

// ContinueRound starts the next round after a completed one. Fallback
// order: local prefetch slot, the backend's cached-quiz endpoint, then a
// fresh synchronous fetch.
func (s *QuizService) ContinueRound(ctx context.Context, userID string) (*RoundView, error) {
	userID = resolveUserID(userID)
	owner := s.ownerFor(ctx, userID)

	payload, ok := s.prefetchFor(userID).Consume()
	if !ok {
		cached, err := s.oracle.CachedQuiz(ctx)
		if err != nil {
			log.Printf("[Quiz] cached-quiz fallback failed for %s: %v", userID, err)
			snap := owner.Snapshot()
			cached, err = s.oracle.StartQuiz(ctx, oracle.StartQuizRequest{
				UserID:     userID,
				ForceNew:   true,
				Difficulty: snap.NextDifficulty,
				Theme:      snap.NextTheme,
			})
			if err != nil {
				return nil, err
			}
		}
		payload = cached
	}

	return s.beginRound(ctx, userID, owner, payload)
}

// RoundStatus describes the active round for a UI that reopens mid-quiz.
type RoundStatus struct {
	QuizNumber  int    `json:"quizNumber"`
	Theme       string `json:"theme"`
	Difficulty  string `json:"difficulty"`
	Room        string `json:"room,omitempty"`
	Intro       string `json:"intro,omitempty"`
	LoreWhisper string `json:"loreWhisper,omitempty"`
	Answered    int    `json:"answered"`
	Total       int    `json:"total"`
	Score       int    `json:"score"`
	Complete    bool   `json:"complete"`
}

// RoundStatus returns the state of the user's active round.
func (s *QuizService) RoundStatus(userID string) (*RoundStatus, error) {
	userID = resolveUserID(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rounds[userID]
	if r == nil {
		return nil, ErrNoActiveRound
	}

	status := &RoundStatus{
		QuizNumber: r.quizNumber,
		Theme:      r.session.Theme(),
		Difficulty: r.session.Difficulty(),
		Room:       r.room,
		Intro:      r.intro,
		Answered:   len(r.session.Answers()),
		Total:      r.session.Total(),
		Score:      r.session.Score(),
		Complete:   r.session.IsComplete(),
	}
	if r.lore != nil {
		status.LoreWhisper = r.lore.Whisper
	}
	return status, nil
}

// CurrentQuestion returns the question awaiting an answer.
func (s *QuizService) CurrentQuestion(userID string) (*model.QuestionView, error) {
	userID = resolveUserID(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rounds[userID]
	if r == nil {
		return nil, ErrNoActiveRound
	}

	question, err := r.session.CurrentQuestion()
	if err != nil {
		return nil, err
	}
	view := questionView(question, r.session.CurrentIndex(), r.session.Total())
	return &view, nil
}

// SubmitAnswer records exactly one answer for the question at
// questionIndex. A second selection for an already-answered index is
// rejected, so the score can never double-count.
func (s *QuizService) SubmitAnswer(userID string, questionIndex, selectedIndex int) (*AnswerFeedback, error) {
	userID = resolveUserID(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rounds[userID]
	if r == nil {
		return nil, ErrNoActiveRound
	}

	if questionIndex < r.session.CurrentIndex() || r.session.IsComplete() {
		return nil, ErrAlreadyAnswered
	}
	if questionIndex > r.session.CurrentIndex() {
		return nil, quiz.ErrNoActiveQuestion
	}

	question, err := r.session.CurrentQuestion()
	if err != nil {
		return nil, err
	}

	record, err := r.session.RecordAnswer(selectedIndex)
	if err != nil {
		return nil, err
	}

	return &AnswerFeedback{
		Correct:      record.Correct,
		CorrectIndex: question.CorrectIndex,
		Selected:     record.Selected,
		IsProfile:    record.IsProfile,
		Score:        r.session.Score(),
		Done:         r.session.IsComplete(),
	}, nil
}

// CompleteRound submits the finished session to the Oracle. On success the
// oracle state and history are updated and the round is discarded; on
// failure everything is left untouched so the caller can retry.
func (s *QuizService) CompleteRound(ctx context.Context, userID string) (*ResultView, error) {
	userID = resolveUserID(userID)

	s.mu.Lock()
	r := s.rounds[userID]
	s.mu.Unlock()
	if r == nil {
		return nil, ErrNoActiveRound
	}
	if !r.session.IsComplete() {
		return nil, ErrRoundNotComplete
	}

	result, err := s.oracle.SubmitAnswers(ctx, userID, r.session.Context(), r.session.AnswersDict())
	if err != nil {
		return nil, err
	}

	owner := s.ownerFor(ctx, userID)
	outcome := model.SubmissionOutcome{
		NextDifficulty: result.NextDifficulty,
		NextTheme:      result.NextTheme,
	}
	if result.Profile != nil {
		level := result.Profile.FearLevel
		outcome.FearLevel = &level
	}
	owner.Apply(outcome)
	snap := owner.Snapshot()
	if err := s.profiles.SaveOracleState(ctx, snap); err != nil {
		log.Printf("[Quiz] failed to persist oracle state for %s: %v", userID, err)
	}

	score, outOf := result.Score, result.OutOf
	if outOf == 0 {
		score, outOf = r.session.Score(), r.session.Total()
	}
	record := &model.QuizHistoryRecord{
		UserID:     userID,
		QuizNumber: r.quizNumber,
		Score:      score,
		Total:      outOf,
		Theme:      r.session.Theme(),
		Difficulty: r.session.Difficulty(),
		Answers:    r.session.Answers(),
		Timestamp:  time.Now().UTC(),
	}
	if err := s.profiles.AppendHistory(ctx, record); err != nil {
		log.Printf("[Quiz] failed to append history for %s: %v", userID, err)
	}

	s.mu.Lock()
	delete(s.rounds, userID)
	s.mu.Unlock()

	// Refresh the slot while the user reads the results.
	s.triggerPrefetch(userID, snap)

	view := &ResultView{
		QuizNumber:      r.quizNumber,
		Score:           score,
		OutOf:           outOf,
		Percentage:      result.Percentage,
		OracleReaction:  result.Evaluation.OracleReaction,
		Rewards:         result.Rewards,
		Recommendations: result.Recommendations,
		FearLevel:       snap.FearLevel,
		NextReady:       s.prefetchFor(userID).State() == cache.PrefetchReady,
	}
	if result.Lore != nil {
		view.LoreWhisper = result.Lore.Whisper
	}
	return view, nil
}

// AbandonRound drops the active round without submitting. An in-flight
// submission from a previous completion is left to finish on its own.
func (s *QuizService) AbandonRound(userID string) {
	userID = resolveUserID(userID)
	s.mu.Lock()
	delete(s.rounds, userID)
	s.mu.Unlock()
}

func (s *QuizService) beginRound(ctx context.Context, userID string, owner *oracleStateOwner, payload *model.QuizPayload) (*RoundView, error) {
	questions := quiz.NormalizeQuestions(payload.Questions)
	if len(questions) == 0 {
		return nil, &oracle.MalformedResponseError{Reason: "no usable questions after normalization"}
	}

	if payload.Profile != nil {
		owner.SetFearLevel(payload.Profile.FearLevel)
	}
	owner.SetAdaptive(true)

	session := quiz.NewSession()
	if err := session.Start(questions, payload); err != nil {
		return nil, err
	}

	quizNumber, err := s.profiles.NextQuizNumber(ctx, userID)
	if err != nil {
		log.Printf("[Quiz] failed to number round for %s: %v", userID, err)
		quizNumber = 1
	}

	r := &round{
		session:    session,
		quizNumber: quizNumber,
		room:       payload.Room,
		intro:      payload.Intro,
		lore:       payload.Lore,
	}
	s.mu.Lock()
	s.rounds[userID] = r
	s.mu.Unlock()

	// Fetch the following round while the user answers this one.
	s.triggerPrefetch(userID, owner.Snapshot())

	if err := s.profiles.SaveOracleState(ctx, owner.Snapshot()); err != nil {
		log.Printf("[Quiz] failed to persist oracle state for %s: %v", userID, err)
	}

	first, err := session.CurrentQuestion()
	if err != nil {
		return nil, err
	}

	view := &RoundView{
		QuizNumber: quizNumber,
		Theme:      session.Theme(),
		Difficulty: session.Difficulty(),
		Room:       payload.Room,
		Intro:      payload.Intro,
		FearLevel:  owner.Snapshot().FearLevel,
		Question:   questionView(first, 0, session.Total()),
	}
	if payload.Lore != nil {
		view.LoreWhisper = payload.Lore.Whisper
	}
	return view, nil
}

func (s *QuizService) triggerPrefetch(userID string, snap model.OracleState) {
	s.prefetchFor(userID).Trigger(context.Background(), func(ctx context.Context) (*model.QuizPayload, error) {
		return s.oracle.StartQuiz(ctx, oracle.StartQuizRequest{
			UserID:     userID,
			ForceNew:   true,
			Difficulty: snap.NextDifficulty,
			Theme:      snap.NextTheme,
		})
	})
}

func (s *QuizService) prefetchFor(userID string) *cache.PrefetchCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.prefetches[userID]; ok {
		return p
	}
	p := cache.NewPrefetchCache()
	s.prefetches[userID] = p
	return p
}

func (s *QuizService) ownerFor(ctx context.Context, userID string) *oracleStateOwner {
	s.mu.Lock()
	if o, ok := s.states[userID]; ok {
		s.mu.Unlock()
		return o
	}
	s.mu.Unlock()

	o := newOracleStateOwner(userID)
	if snap, err := s.profiles.LoadOracleState(ctx, userID); err == nil && snap != nil {
		o.Restore(*snap)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.states[userID]; ok {
		return existing
	}
	s.states[userID] = o
	return o
}

func resolveUserID(userID string) string {
	if userID == "" {
		return AnonymousUserID
	}
	return userID
}

func questionView(q model.Question, index, total int) model.QuestionView {
	return model.QuestionView{
		Index:     index,
		Total:     total,
		Text:      q.Text,
		Options:   q.Options,
		IsProfile: q.IsProfile,
	}
}
