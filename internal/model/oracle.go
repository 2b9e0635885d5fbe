package model

// OracleState is the adaptive-progression state carried from one round to
// the next for a single user. It survives session resets; only a successful
// submission (or a fresh quiz payload carrying a fear level) updates it.
type OracleState struct {
	UserID         string  `json:"userId"`
	FearLevel      float64 `json:"fearLevel"`
	AdaptiveMode   bool    `json:"adaptiveMode"`
	NextDifficulty string  `json:"nextDifficulty,omitempty"`
	NextTheme      string  `json:"nextTheme,omitempty"`
}

// SubmissionOutcome is the event applied to the oracle state owner after a
// submission succeeds. Nil/empty fields leave the corresponding state field
// untouched.
type SubmissionOutcome struct {
	FearLevel      *float64
	NextDifficulty string
	NextTheme      string
}
