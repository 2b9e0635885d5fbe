package quiz

import (
	"strings"

	"oraclequiz/internal/model"
)

// NormalizeQuestions converts raw Oracle question records into canonical
// questions, dropping any record that cannot yield non-empty text and at
// least two options.
func NormalizeQuestions(raw []model.RawQuestion) []model.Question {
	questions := make([]model.Question, 0, len(raw))
	for _, record := range raw {
		if q, ok := normalizeQuestion(record); ok {
			questions = append(questions, q)
		}
	}
	return questions
}

// normalizeQuestion resolves the field-name variants of one record. The
// correct-index resolution order is fixed: numeric "correct", then numeric
// "correct_index", then a trimmed case-insensitive match of "correct_answer"
// against the options, then index 0. New backend variants get appended as
// further fallbacks, never reordered, so previously-correct data keeps its
// meaning.
func normalizeQuestion(r model.RawQuestion) (model.Question, bool) {
	text := firstNonEmpty(r.Question, r.Q, r.Text)
	options := firstOptions(r.Options, r.A, r.Choices)

	if text == "" || len(options) < 2 {
		return model.Question{}, false
	}

	correct := -1
	switch {
	case r.Correct != nil && inRange(*r.Correct, len(options)):
		correct = *r.Correct
	case r.CorrectIndex != nil && inRange(*r.CorrectIndex, len(options)):
		correct = *r.CorrectIndex
	case r.CorrectAnswer != "":
		correct = matchOption(options, r.CorrectAnswer)
	}
	if correct < 0 {
		correct = 0
	}

	return model.Question{
		Text:         text,
		Options:      options,
		CorrectIndex: correct,
		IsProfile:    r.IsProfile,
	}, true
}

func matchOption(options []string, answer string) int {
	target := strings.ToLower(strings.TrimSpace(answer))
	for i, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == target {
			return i
		}
	}
	return -1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstOptions(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

func inRange(idx, length int) bool {
	return idx >= 0 && idx < length
}
