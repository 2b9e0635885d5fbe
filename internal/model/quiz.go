package model

import "encoding/json"

// QuizPayload is one quiz as issued by the Oracle engine. Raw holds the
// complete response body; it is the opaque context the backend expects to be
// echoed back verbatim on submission so it can correlate scoring with the
// exact quiz it generated.
type QuizPayload struct {
	Questions  []RawQuestion   `json:"questions"`
	Theme      string          `json:"theme,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Room       string          `json:"room,omitempty"`
	Intro      string          `json:"intro,omitempty"`
	Tone       string          `json:"tone,omitempty"`
	Lore       *Lore           `json:"lore,omitempty"`
	Profile    *PlayerProfile  `json:"player_profile,omitempty"`
	Raw        json.RawMessage `json:"-"`
}

// PlayerProfile is the slice of the Oracle's per-player state surfaced on
// quiz and evaluation payloads.
type PlayerProfile struct {
	FearLevel float64 `json:"fear_level"`
}

// Lore is atmospheric flavor attached to quizzes and results.
type Lore struct {
	Whisper string `json:"whisper,omitempty"`
}

// Evaluation carries the Oracle's textual verdict.
type Evaluation struct {
	OracleReaction string `json:"oracle_reaction,omitempty"`
}

// Reward is cosmetic reward metadata granted after a round.
type Reward struct {
	RewardName        string `json:"reward_name,omitempty"`
	RewardDescription string `json:"reward_description,omitempty"`
	LoreFragment      string `json:"lore_fragment,omitempty"`
}

// Recommendation is one movie suggestion from the recommender node.
type Recommendation struct {
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	Poster string `json:"poster,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// EvaluationResult is the response to an answer submission.
type EvaluationResult struct {
	Score           int              `json:"score"`
	OutOf           int              `json:"out_of"`
	Percentage      float64          `json:"percentage"`
	Evaluation      Evaluation       `json:"evaluation"`
	Rewards         *Reward          `json:"rewards,omitempty"`
	Lore            *Lore            `json:"lore,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	NextDifficulty  string           `json:"next_difficulty,omitempty"`
	NextTheme       string           `json:"next_theme,omitempty"`
	Profile         *PlayerProfile   `json:"player_profile,omitempty"`
}
