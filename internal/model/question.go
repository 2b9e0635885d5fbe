package model

// RawQuestion mirrors a question record as the Oracle backend sends it.
// The engine has gone through several schema revisions, so every observed
// field-name variant is declared here and resolved by the normalizer.
type RawQuestion struct {
	// Prompt text variants
	Question string `json:"question,omitempty"`
	Q        string `json:"q,omitempty"`
	Text     string `json:"text,omitempty"`

	// Option list variants
	Options []string `json:"options,omitempty"`
	A       []string `json:"a,omitempty"`
	Choices []string `json:"choices,omitempty"`

	// Correct-answer variants. Pointers so an absent field is
	// distinguishable from zero.
	Correct       *int   `json:"correct,omitempty"`
	CorrectIndex  *int   `json:"correct_index,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`

	IsProfile bool `json:"is_profile,omitempty"`
}

// Question is the canonical post-normalization shape. Immutable once a
// session is started.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	IsProfile    bool     `json:"isProfile"`
}

// QuestionView is the UI-facing projection of a question. It never carries
// the correct index.
type QuestionView struct {
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	IsProfile bool     `json:"isProfile"`
}
