package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"oraclequiz/internal/model"
)

// Client wraps the Oracle engine's quiz API. It holds no state beyond the
// connection settings and never retries on its own; retrying is the
// controller's call, in response to an explicit user action.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Oracle API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StartQuizRequest is the body for POST /api/start_quiz. ForceNew is always
// sent so the backend generates a fresh quiz instead of replaying a stale
// one.
type StartQuizRequest struct {
	UserID     string `json:"user_id"`
	ForceNew   bool   `json:"force_new"`
	Difficulty string `json:"difficulty,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Movie      string `json:"movie,omitempty"`
}

type submitRequest struct {
	UserID  string            `json:"user_id"`
	Quiz    json.RawMessage   `json:"quiz"`
	Answers map[string]string `json:"answers"`
}

// StartQuiz requests a freshly generated quiz for the user.
func (c *Client) StartQuiz(ctx context.Context, req StartQuizRequest) (*model.QuizPayload, error) {
	req.ForceNew = true
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, http.MethodPost, "/api/start_quiz", body)
	if err != nil {
		return nil, err
	}
	return decodeQuizPayload(raw)
}

// CachedQuiz fetches whatever quiz the backend last generated for this
// client, used as a fallback when the local prefetch slot is empty.
func (c *Client) CachedQuiz(ctx context.Context) (*model.QuizPayload, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/get_cached_quiz", nil)
	if err != nil {
		return nil, err
	}
	return decodeQuizPayload(raw)
}

// SubmitAnswers posts the round's answers plus the untouched quiz context
// the Oracle issued with the questions.
func (c *Client) SubmitAnswers(ctx context.Context, userID string, quizContext json.RawMessage, answers map[string]string) (*model.EvaluationResult, error) {
	if len(quizContext) == 0 {
		quizContext = json.RawMessage("{}")
	}
	body, err := json.Marshal(submitRequest{
		UserID:  userID,
		Quiz:    quizContext,
		Answers: answers,
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, http.MethodPost, "/api/submit_answers", body)
	if err != nil {
		return nil, err
	}

	var result model.EvaluationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &MalformedResponseError{Reason: err.Error()}
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Oracle Client] %s %s failed: %v", method, path, err)
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode >= 400 {
		log.Printf("[Oracle Client] %s %s returned %d", method, path, resp.StatusCode)
		return nil, &BackendError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

func decodeQuizPayload(raw []byte) (*model.QuizPayload, error) {
	var payload model.QuizPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &MalformedResponseError{Reason: err.Error()}
	}
	if len(payload.Questions) == 0 {
		return nil, &MalformedResponseError{Reason: "empty question list"}
	}
	payload.Raw = json.RawMessage(raw)
	return &payload, nil
}
