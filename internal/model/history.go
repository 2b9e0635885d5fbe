package model

import "time"

// AnswerRecord is one answered question inside a history record.
type AnswerRecord struct {
	Question  string `json:"question" bson:"question"`
	Selected  string `json:"selected" bson:"selected"`
	Correct   bool   `json:"correct" bson:"correct"`
	IsProfile bool   `json:"isProfile" bson:"isProfile"`
}

// QuizHistoryRecord is one completed round, appended to the per-user history
// log after a successful submission. Records are never mutated afterwards.
type QuizHistoryRecord struct {
	ID         string         `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string         `json:"userId" bson:"userId"`
	QuizNumber int            `json:"quizNumber" bson:"quizNumber"`
	Score      int            `json:"score" bson:"score"`
	Total      int            `json:"total" bson:"total"`
	Theme      string         `json:"theme" bson:"theme"`
	Difficulty string         `json:"difficulty" bson:"difficulty"`
	Answers    []AnswerRecord `json:"answers" bson:"answers"`
	Timestamp  time.Time      `json:"timestamp" bson:"timestamp"`
}

// ProfileStats are the aggregates shown on the player's profile panel.
type ProfileStats struct {
	TotalQuizzes int      `json:"totalQuizzes"`
	AverageScore float64  `json:"averageScore"` // percentage over all rounds
	Themes       []string `json:"themes"`
}
