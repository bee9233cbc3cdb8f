package services

import (
	"context"
	"log/slog"

	"github.com/Piyushgeek-gupta/Code-Alchemists/cache"
	"github.com/Piyushgeek-gupta/Code-Alchemists/live"
	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
)

const defaultLeaderboardLimit = 100

type LeaderboardService interface {
	LeaderboardNotifier

	// Get отдаёт таблицу результатов: сперва снимок из redis, при промахе —
	// из Postgres с прогревом кеша.
	Get(ctx context.Context, contestID *int, limit int) ([]*models.LeaderboardEntry, error)
}

type leaderboardService struct {
	participantRepo repositories.ParticipantRepository
	cache           *cache.LeaderboardCache // nil, если redis не сконфигурирован
	hub             *live.Hub               // nil в тестах без websocket
	logger          *slog.Logger
}

func NewLeaderboardService(
	participantRepo repositories.ParticipantRepository,
	leaderboardCache *cache.LeaderboardCache,
	hub *live.Hub,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{
		participantRepo: participantRepo,
		cache:           leaderboardCache,
		hub:             hub,
		logger:          logger,
	}
}

func (s *leaderboardService) Get(ctx context.Context, contestID *int, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > defaultLeaderboardLimit {
		limit = defaultLeaderboardLimit
	}

	if s.cache != nil {
		if entries, ok := s.cache.Get(ctx, contestID); ok {
			if len(entries) > limit {
				entries = entries[:limit]
			}
			return entries, nil
		}
	}

	entries, err := s.participantRepo.Leaderboard(ctx, contestID, defaultLeaderboardLimit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, contestID, entries)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ScoreChanged сбрасывает кеш и будит подписчиков websocket. Вызывается
// после успешного зачисления очков; сам счёт уже зафиксирован в базе,
// поэтому все действия здесь best-effort.
func (s *leaderboardService) ScoreChanged(ctx context.Context, participantID, newScore int) {
	var contestID *int
	if participant, err := s.participantRepo.FindByID(ctx, participantID); err == nil {
		contestID = participant.ContestID
	} else {
		s.logger.Warn("leaderboard notify: participant lookup failed",
			slog.Int("participant_id", participantID),
			slog.String("error", err.Error()))
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, nil)
		if contestID != nil {
			s.cache.Invalidate(ctx, contestID)
		}
	}

	if s.hub != nil {
		event := live.Event{
			Type: "LEADERBOARD_UPDATED",
			Payload: map[string]interface{}{
				"participant_id": participantID,
				"new_score":      newScore,
			},
		}
		s.hub.BroadcastToRoom(live.GlobalLeaderboardRoom, event)
		if contestID != nil {
			s.hub.BroadcastToRoom(live.LeaderboardRoom(contestID), event)
		}
	}
}
