package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"oraclequiz/internal/model"
	"oraclequiz/internal/oracle"
)

// fakeOracle is an in-memory OracleAPI. When startGate is set, StartQuiz
// blocks on it before counting the call, which keeps background prefetches
// out of call-count assertions.
type fakeOracle struct {
	mu        sync.Mutex
	startGate chan struct{}

	startPayload *model.QuizPayload
	startErr     error
	startReqs    []oracle.StartQuizRequest

	cachedPayload *model.QuizPayload
	cachedErr     error
	cachedCalls   int

	submitResult      *model.EvaluationResult
	submitErr         error
	submitCalls       int
	lastSubmitUser    string
	lastSubmitContext json.RawMessage
	lastSubmitAnswers map[string]string
}

func (f *fakeOracle) StartQuiz(ctx context.Context, req oracle.StartQuizRequest) (*model.QuizPayload, error) {
	f.mu.Lock()
	gate := f.startGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.startReqs = append(f.startReqs, req)
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.startPayload, nil
}

func (f *fakeOracle) CachedQuiz(ctx context.Context) (*model.QuizPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cachedCalls++
	if f.cachedErr != nil {
		return nil, f.cachedErr
	}
	return f.cachedPayload, nil
}

func (f *fakeOracle) SubmitAnswers(ctx context.Context, userID string, quizContext json.RawMessage, answers map[string]string) (*model.EvaluationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	f.lastSubmitUser = userID
	f.lastSubmitContext = quizContext
	f.lastSubmitAnswers = answers
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitResult, nil
}

func (f *fakeOracle) startCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.startReqs)
}

func (f *fakeOracle) startReq(i int) oracle.StartQuizRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startReqs[i]
}

// memHistoryRepo is an in-memory HistoryRepository.
type memHistoryRepo struct {
	mu      sync.Mutex
	records []*model.QuizHistoryRecord
}

func (r *memHistoryRepo) Append(ctx context.Context, record *model.QuizHistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *record
	r.records = append(r.records, &clone)
	return nil
}

func (r *memHistoryRepo) ListByUser(ctx context.Context, userID string) ([]*model.QuizHistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.QuizHistoryRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizNumber < out[j].QuizNumber })
	return out, nil
}

func (r *memHistoryRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.records {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

// memProfileCache is an in-memory ProfileCache.
type memProfileCache struct {
	mu         sync.Mutex
	identities map[string]*model.Identity
	tokens     map[string]string
	states     map[string]*model.OracleState
}

func newMemProfileCache() *memProfileCache {
	return &memProfileCache{
		identities: make(map[string]*model.Identity),
		tokens:     make(map[string]string),
		states:     make(map[string]*model.OracleState),
	}
}

func (c *memProfileCache) SetIdentity(ctx context.Context, userID string, identity *model.Identity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identities[userID] = identity
	return nil
}

func (c *memProfileCache) GetIdentity(ctx context.Context, userID string) (*model.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identities[userID], nil
}

func (c *memProfileCache) SetSessionToken(ctx context.Context, userID, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[userID] = token
	return nil
}

func (c *memProfileCache) GetSessionToken(ctx context.Context, userID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens[userID], nil
}

func (c *memProfileCache) SetOracleState(ctx context.Context, state *model.OracleState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := *state
	c.states[state.UserID] = &clone
	return nil
}

func (c *memProfileCache) GetOracleState(ctx context.Context, userID string) (*model.OracleState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[userID], nil
}
