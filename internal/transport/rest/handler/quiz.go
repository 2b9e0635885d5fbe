package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"oraclequiz/internal/oracle"
	"oraclequiz/internal/quiz"
	"oraclequiz/internal/service"
)

// QuizHandler handles the quiz round endpoints.
type QuizHandler struct {
	quizSvc *service.QuizService
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(quizSvc *service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// StartRequest is the request body for starting a round.
type StartRequest struct {
	UserID string `json:"user_id"`
	Movie  string `json:"movie,omitempty"`
}

// AnswerRequest is the request body for answering the current question.
type AnswerRequest struct {
	QuestionIndex int `json:"questionIndex"`
	SelectedIndex int `json:"selectedIndex"`
}

// Start handles POST /v1/quiz/start
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.quizSvc.StartRound(r.Context(), req.UserID, req.Movie)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Status handles GET /v1/quiz/{userId}
func (h *QuizHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.quizSvc.RoundStatus(mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Question handles GET /v1/quiz/{userId}/question
func (h *QuizHandler) Question(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizSvc.CurrentQuestion(mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Answer handles POST /v1/quiz/{userId}/answer
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := h.quizSvc.SubmitAnswer(mux.Vars(r)["userId"], req.QuestionIndex, req.SelectedIndex)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

// Complete handles POST /v1/quiz/{userId}/complete
func (h *QuizHandler) Complete(w http.ResponseWriter, r *http.Request) {
	result, err := h.quizSvc.CompleteRound(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Next handles POST /v1/quiz/{userId}/next
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizSvc.ContinueRound(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Abandon handles DELETE /v1/quiz/{userId}
func (h *QuizHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	h.quizSvc.AbandonRound(mux.Vars(r)["userId"])
	writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the service error taxonomy to HTTP statuses. Oracle
// failures are recoverable from the UI's perspective: the handler reports
// them once and the retry affordance is an explicit new request.
func statusForError(err error) int {
	var netErr *oracle.NetworkError
	var backendErr *oracle.BackendError
	var malformedErr *oracle.MalformedResponseError

	switch {
	case errors.As(err, &netErr), errors.As(err, &backendErr), errors.As(err, &malformedErr):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrNoActiveRound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyAnswered),
		errors.Is(err, service.ErrRoundNotComplete),
		errors.Is(err, quiz.ErrNoActiveQuestion):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrInvalidOption), errors.Is(err, quiz.ErrEmptyQuiz):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
