package services

import (
	"context"
	"sync"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	participantRepo repositories.ParticipantRepository
	submissionRepo  repositories.SubmissionRepository
	questionRepo    repositories.QuestionRepository
	contestRepo     repositories.ContestRepository
}

func NewDashboardService(
	participantRepo repositories.ParticipantRepository,
	submissionRepo repositories.SubmissionRepository,
	questionRepo repositories.QuestionRepository,
	contestRepo repositories.ContestRepository,
) DashboardService {
	return &dashboardService{
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		questionRepo:    questionRepo,
		contestRepo:     contestRepo,
	}
}

// GetStats собирает счётчики конкурса параллельно: запросы независимы,
// первая же ошибка отменяет остальные через контекст группы.
func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	stats := models.DashboardStats{
		ParticipantsByTrack: make(map[models.Language]int, 3),
	}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.participantRepo.Count(gCtx, repositories.ParticipantCountFilter{})
		stats.ParticipantsTotal = n
		return err
	})
	g.Go(func() error {
		completed := true
		n, err := s.participantRepo.Count(gCtx, repositories.ParticipantCountFilter{Completed: &completed})
		stats.ParticipantsCompleted = n
		return err
	})
	g.Go(func() error {
		blocked := true
		n, err := s.participantRepo.Count(gCtx, repositories.ParticipantCountFilter{Blocked: &blocked})
		stats.ParticipantsBlocked = n
		return err
	})
	for _, lang := range models.AllLanguages() {
		lang := lang
		g.Go(func() error {
			n, err := s.participantRepo.Count(gCtx, repositories.ParticipantCountFilter{Language: &lang})
			mu.Lock()
			stats.ParticipantsByTrack[lang] = n
			mu.Unlock()
			return err
		})
	}
	g.Go(func() error {
		n, err := s.submissionRepo.Count(gCtx, nil)
		stats.SubmissionsTotal = n
		return err
	})
	g.Go(func() error {
		correct := models.SubmissionStatusCorrect
		n, err := s.submissionRepo.Count(gCtx, &correct)
		stats.SubmissionsCorrect = n
		return err
	})
	g.Go(func() error {
		n, err := s.questionRepo.CountEnabled(gCtx)
		stats.QuestionsEnabled = n
		return err
	})
	g.Go(func() error {
		n, err := s.contestRepo.CountByStatus(gCtx, models.ContestStatusActive)
		stats.ActiveContests = n
		return err
	})
	g.Go(func() error {
		avg, err := s.participantRepo.AverageScore(gCtx)
		stats.AverageScore = avg
		return err
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
