package service

import (
	"context"
	"fmt"

	"oraclequiz/internal/cache"
	"oraclequiz/internal/model"
	"oraclequiz/internal/repository"
)

// AnonymousUserID is used when no identity has been registered.
const AnonymousUserID = "guest"

const maxProfileThemes = 10

// ProfileService is the local profile store: identity, session token,
// quiz history, and the persisted oracle-state snapshot.
type ProfileService struct {
	history repository.HistoryRepository
	cache   cache.ProfileCache
	tokens  *TokenService
}

// NewProfileService creates a new profile service.
func NewProfileService(history repository.HistoryRepository, profileCache cache.ProfileCache, tokens *TokenService) *ProfileService {
	return &ProfileService{
		history: history,
		cache:   profileCache,
		tokens:  tokens,
	}
}

// UserIDFromIdentity derives the stable user id from a signed-in identity:
// subject first, then email, then the anonymous id.
func UserIDFromIdentity(identity *model.Identity) string {
	if identity == nil {
		return AnonymousUserID
	}
	if identity.Sub != "" {
		return identity.Sub
	}
	if identity.Email != "" {
		return identity.Email
	}
	return AnonymousUserID
}

// RegisterIdentity stores the identity object written by the sign-in flow
// and returns the resolved user id together with the session token.
func (s *ProfileService) RegisterIdentity(ctx context.Context, identity *model.Identity) (string, string, error) {
	userID := UserIDFromIdentity(identity)
	if err := s.cache.SetIdentity(ctx, userID, identity); err != nil {
		return "", "", fmt.Errorf("failed to store identity: %w", err)
	}

	token, err := s.SessionToken(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return userID, token, nil
}

// Identity returns the stored identity for a user, or nil if none.
func (s *ProfileService) Identity(ctx context.Context, userID string) (*model.Identity, error) {
	return s.cache.GetIdentity(ctx, userID)
}

// SessionToken returns the user's session token, minting and persisting one
// on first use. A stored token that no longer validates is replaced.
func (s *ProfileService) SessionToken(ctx context.Context, userID string) (string, error) {
	token, err := s.cache.GetSessionToken(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	if token != "" {
		if _, err := s.tokens.Validate(token); err == nil {
			return token, nil
		}
	}

	token, err = s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}
	if err := s.cache.SetSessionToken(ctx, userID, token); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}
	return token, nil
}

// NextQuizNumber returns the 1-based number for the user's next round.
func (s *ProfileService) NextQuizNumber(ctx context.Context, userID string) (int, error) {
	count, err := s.history.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// AppendHistory appends one completed round to the user's history log.
func (s *ProfileService) AppendHistory(ctx context.Context, record *model.QuizHistoryRecord) error {
	return s.history.Append(ctx, record)
}

// History returns the user's full history log in quiz order.
func (s *ProfileService) History(ctx context.Context, userID string) ([]*model.QuizHistoryRecord, error) {
	return s.history.ListByUser(ctx, userID)
}

// Stats aggregates the history log into the profile panel numbers.
func (s *ProfileService) Stats(ctx context.Context, userID string) (*model.ProfileStats, error) {
	records, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.ProfileStats{Themes: []string{}}
	if len(records) == 0 {
		return stats, nil
	}

	var ratioSum float64
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Total > 0 {
			ratioSum += float64(rec.Score) / float64(rec.Total)
		}
		if rec.Theme != "" && !seen[rec.Theme] && len(stats.Themes) < maxProfileThemes {
			seen[rec.Theme] = true
			stats.Themes = append(stats.Themes, rec.Theme)
		}
	}

	stats.TotalQuizzes = len(records)
	stats.AverageScore = ratioSum / float64(len(records)) * 100
	return stats, nil
}

// LoadOracleState returns the persisted oracle-state snapshot, or nil.
func (s *ProfileService) LoadOracleState(ctx context.Context, userID string) (*model.OracleState, error) {
	return s.cache.GetOracleState(ctx, userID)
}

// SaveOracleState persists the oracle-state snapshot.
func (s *ProfileService) SaveOracleState(ctx context.Context, state model.OracleState) error {
	return s.cache.SetOracleState(ctx, &state)
}
