package service

import (
	"sync"

	"oraclequiz/internal/model"
)

const defaultFearLevel = 50

// oracleStateOwner is the single owner of one user's adaptive-progression
// state. All mutation goes through it under its lock, so a submission that
// finishes after a newer round has started simply applies last-write-wins
// without blocking that round.
type oracleStateOwner struct {
	mu    sync.Mutex
	state model.OracleState
}

func newOracleStateOwner(userID string) *oracleStateOwner {
	return &oracleStateOwner{
		state: model.OracleState{
			UserID:    userID,
			FearLevel: defaultFearLevel,
		},
	}
}

// Restore replaces the state with a persisted snapshot.
func (o *oracleStateOwner) Restore(state model.OracleState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = state
}

// Snapshot returns a copy of the current state.
func (o *oracleStateOwner) Snapshot() model.OracleState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SetFearLevel records the fear level a fresh quiz payload reported.
func (o *oracleStateOwner) SetFearLevel(level float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.FearLevel = level
}

// SetAdaptive toggles adaptive mode.
func (o *oracleStateOwner) SetAdaptive(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.AdaptiveMode = on
}

// Apply folds a successful submission outcome into the state. Empty fields
// leave the current values in place; failed submissions never reach here.
func (o *oracleStateOwner) Apply(outcome model.SubmissionOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if outcome.FearLevel != nil {
		o.state.FearLevel = *outcome.FearLevel
	}
	if outcome.NextDifficulty != "" {
		o.state.NextDifficulty = outcome.NextDifficulty
	}
	if outcome.NextTheme != "" {
		o.state.NextTheme = outcome.NextTheme
	}
}
