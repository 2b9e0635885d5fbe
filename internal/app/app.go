package app

import (
	"oraclequiz/internal/cache"
	"oraclequiz/internal/repository"
	"oraclequiz/internal/service"
)

// App wires the infrastructure pieces into the service graph the transport
// layer consumes.
type App struct {
	HistoryRepo    repository.HistoryRepository
	ProfileCache   cache.ProfileCache
	ProfileService *service.ProfileService
	QuizService    *service.QuizService
}

// New builds the service graph on top of the given store, cache, and Oracle
// client. Both services share one profile service so history numbering and
// oracle-state snapshots stay consistent.
func New(historyRepo repository.HistoryRepository, profileCache cache.ProfileCache, oracleAPI service.OracleAPI, tokens *service.TokenService) *App {
	profiles := service.NewProfileService(historyRepo, profileCache, tokens)
	return &App{
		HistoryRepo:    historyRepo,
		ProfileCache:   profileCache,
		ProfileService: profiles,
		QuizService:    service.NewQuizService(oracleAPI, profiles),
	}
}
