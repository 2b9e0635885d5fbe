package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"oraclequiz/internal/oracle"
	"oraclequiz/internal/quiz"
	"oraclequiz/internal/service"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"network", &oracle.NetworkError{Err: errors.New("refused")}, http.StatusBadGateway},
		{"backend", &oracle.BackendError{StatusCode: 500}, http.StatusBadGateway},
		{"malformed", &oracle.MalformedResponseError{Reason: "empty"}, http.StatusBadGateway},
		{"no round", service.ErrNoActiveRound, http.StatusNotFound},
		{"already answered", service.ErrAlreadyAnswered, http.StatusConflict},
		{"not complete", service.ErrRoundNotComplete, http.StatusConflict},
		{"no active question", quiz.ErrNoActiveQuestion, http.StatusConflict},
		{"invalid option", quiz.ErrInvalidOption, http.StatusBadRequest},
		{"empty quiz", quiz.ErrEmptyQuiz, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusForError(tc.err))
		})
	}
}
