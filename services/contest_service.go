package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
)

type ContestService interface {
	Create(ctx context.Context, c *models.Contest) error
	Update(ctx context.Context, c *models.Contest) error
	GetByID(ctx context.Context, id int) (*models.Contest, error)
	List(ctx context.Context) ([]*models.Contest, error)
	ListActive(ctx context.Context) ([]*models.Contest, error)
	Delete(ctx context.Context, id int) error
	ChangeStatus(ctx context.Context, id int, status models.ContestStatus) (*models.Contest, error)

	GetSettings(ctx context.Context, contestID int) (*models.ContestSettings, error)
	UpdateSettings(ctx context.Context, s *models.ContestSettings) error

	// AutoUpdateContestStatusesByDates переводит конкурсы по расписанию:
	// scheduled -> active по start_time, active -> completed по end_time.
	// Paused не трогается. Вызывается планировщиком из main.
	AutoUpdateContestStatusesByDates(ctx context.Context) error
}

// Допустимые ручные переходы статуса. Планировщик ходит мимо этой карты,
// так как работает массовыми UPDATE с теми же предикатами.
var allowedStatusTransitions = map[models.ContestStatus][]models.ContestStatus{
	models.ContestStatusScheduled: {models.ContestStatusActive, models.ContestStatusCompleted},
	models.ContestStatusActive:    {models.ContestStatusPaused, models.ContestStatusCompleted},
	models.ContestStatusPaused:    {models.ContestStatusActive, models.ContestStatusCompleted},
	models.ContestStatusCompleted: {},
}

type contestService struct {
	contestRepo repositories.ContestRepository
	logger      *slog.Logger
}

func NewContestService(contestRepo repositories.ContestRepository, logger *slog.Logger) ContestService {
	return &contestService{
		contestRepo: contestRepo,
		logger:      logger,
	}
}

func (s *contestService) validate(c *models.Contest) error {
	if c.Name == "" {
		return ErrContestNameRequired
	}
	if c.DurationMinutes <= 0 {
		c.DurationMinutes = 30
	}
	return nil
}

func (s *contestService) Create(ctx context.Context, c *models.Contest) error {
	if err := s.validate(c); err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = models.ContestStatusScheduled
	}
	if !c.Status.Valid() {
		return ErrContestInvalidStatus
	}
	return s.contestRepo.Create(ctx, c)
}

func (s *contestService) Update(ctx context.Context, c *models.Contest) error {
	if err := s.validate(c); err != nil {
		return err
	}
	err := s.contestRepo.Update(ctx, c)
	if errors.Is(err, repositories.ErrContestNotFound) {
		return ErrContestNotFound
	}
	return err
}

func (s *contestService) GetByID(ctx context.Context, id int) (*models.Contest, error) {
	contest, err := s.contestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrContestNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	return contest, nil
}

func (s *contestService) List(ctx context.Context) ([]*models.Contest, error) {
	return s.contestRepo.List(ctx)
}

func (s *contestService) ListActive(ctx context.Context) ([]*models.Contest, error) {
	return s.contestRepo.ListByStatus(ctx, models.ContestStatusActive)
}

func (s *contestService) Delete(ctx context.Context, id int) error {
	err := s.contestRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrContestNotFound) {
		return ErrContestNotFound
	}
	return err
}

func (s *contestService) ChangeStatus(ctx context.Context, id int, status models.ContestStatus) (*models.Contest, error) {
	if !status.Valid() {
		return nil, ErrContestInvalidStatus
	}
	contest, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contest.Status == status {
		return contest, nil
	}

	allowed := false
	for _, next := range allowedStatusTransitions[contest.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, contest.Status, status)
	}

	if err := s.contestRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update contest status: %w", err)
	}
	contest.Status = status
	return contest, nil
}

func (s *contestService) GetSettings(ctx context.Context, contestID int) (*models.ContestSettings, error) {
	settings, err := s.contestRepo.GetSettings(ctx, contestID)
	if err != nil {
		if errors.Is(err, repositories.ErrContestSettingsNotFound) {
			// Настройки ленивые: до первого сохранения отдаём значения по умолчанию.
			return &models.ContestSettings{
				ContestID:         contestID,
				AllowResubmission: false,
				ShowLeaderboard:   true,
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *contestService) UpdateSettings(ctx context.Context, settings *models.ContestSettings) error {
	if _, err := s.GetByID(ctx, settings.ContestID); err != nil {
		return err
	}
	return s.contestRepo.UpsertSettings(ctx, settings)
}

func (s *contestService) AutoUpdateContestStatusesByDates(ctx context.Context) error {
	now := time.Now()

	activated, err := s.contestRepo.ActivateDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to activate due contests: %w", err)
	}
	completed, err := s.contestRepo.CompleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to complete expired contests: %w", err)
	}

	if activated > 0 || completed > 0 {
		s.logger.Info("contest statuses updated by scheduler",
			slog.Int64("activated", activated),
			slog.Int64("completed", completed))
	}
	return nil
}
