package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
)

type SelectLanguageInput struct {
	UserID   int
	Email    string
	Language string
}

// ParticipantService инкапсулирует выбор языка, завершение конкурса и
// админские операции над участниками.
type ParticipantService interface {
	// SelectLanguage задаёт язык только если он ещё не выбран. Повторные
	// вызовы — no-op с точки зрения вызывающего: ответ успешный, язык
	// остаётся прежним. Сбросить выбор может только администратор.
	SelectLanguage(ctx context.Context, input SelectLanguageInput) error
	// FinishContest фиксирует completed_at и серверное время прохождения.
	// Первый вызов побеждает, повторные ничего не меняют.
	FinishContest(ctx context.Context, userID int) (*models.Participant, error)

	List(ctx context.Context) ([]*models.Participant, error)
	ToggleBlock(ctx context.Context, participantID int) (bool, error)
	ResetProgress(ctx context.Context, participantID int) error
	ResetLanguage(ctx context.Context, participantID int) error
	// RemoveParticipant удаляет участника и профиль, затем учётную запись
	// в identity provider. Сбой последнего шага не фатален и возвращается
	// как предупреждение.
	RemoveParticipant(ctx context.Context, participantID int) (warning string, err error)
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	profileRepo     repositories.ProfileRepository
	userRepo        repositories.UserRepository
	notifier        LeaderboardNotifier
	logger          *slog.Logger
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	notifier LeaderboardNotifier,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		profileRepo:     profileRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

func (s *participantService) SelectLanguage(ctx context.Context, input SelectLanguageInput) error {
	lang := models.Language(input.Language)
	if !lang.Valid() {
		return ErrInvalidLanguage
	}

	userID := input.UserID
	if userID == 0 {
		if input.Email == "" {
			return ErrUserIdentityRequired
		}
		profile, err := s.profileRepo.FindByEmail(ctx, input.Email)
		if err != nil {
			if errors.Is(err, repositories.ErrProfileNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to resolve user by email: %w", err)
		}
		userID = profile.UserID
	}

	// Предикат selected_language IS NULL в самом UPDATE: ноль затронутых
	// строк означает, что выбор уже сделан, и это не ошибка.
	if err := s.participantRepo.SetLanguageIfUnset(ctx, userID, lang); err != nil {
		return fmt.Errorf("failed to select language: %w", err)
	}
	return nil
}

func (s *participantService) FinishContest(ctx context.Context, userID int) (*models.Participant, error) {
	participant, err := s.participantRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	if err := s.participantRepo.Complete(ctx, participant.ID); err != nil {
		return nil, fmt.Errorf("failed to finish contest: %w", err)
	}
	return s.participantRepo.FindByID(ctx, participant.ID)
}

func (s *participantService) List(ctx context.Context) ([]*models.Participant, error) {
	return s.participantRepo.ListWithDetails(ctx)
}

func (s *participantService) ToggleBlock(ctx context.Context, participantID int) (bool, error) {
	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return false, ErrParticipantNotFound
		}
		return false, fmt.Errorf("failed to find participant: %w", err)
	}
	blocked := !participant.IsBlocked
	if err := s.participantRepo.SetBlocked(ctx, participantID, blocked); err != nil {
		return false, fmt.Errorf("failed to update blocked flag: %w", err)
	}
	return blocked, nil
}

func (s *participantService) ResetProgress(ctx context.Context, participantID int) error {
	if err := s.participantRepo.ResetProgress(ctx, participantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to reset participant progress: %w", err)
	}
	if s.notifier != nil {
		s.notifier.ScoreChanged(ctx, participantID, 0)
	}
	return nil
}

func (s *participantService) ResetLanguage(ctx context.Context, participantID int) error {
	err := s.participantRepo.ResetLanguage(ctx, participantID)
	if errors.Is(err, repositories.ErrParticipantNotFound) {
		return ErrParticipantNotFound
	}
	return err
}

func (s *participantService) RemoveParticipant(ctx context.Context, participantID int) (string, error) {
	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return "", ErrParticipantNotFound
		}
		return "", fmt.Errorf("failed to find participant: %w", err)
	}

	// Submissions каскадируются на уровне схемы.
	if err := s.participantRepo.Delete(ctx, participantID); err != nil {
		return "", fmt.Errorf("failed to delete participant: %w", err)
	}

	if err := s.profileRepo.DeleteByUserID(ctx, participant.UserID); err != nil &&
		!errors.Is(err, repositories.ErrProfileNotFound) {
		return "", fmt.Errorf("failed to delete profile: %w", err)
	}

	// Удаление учётной записи — вторичный эффект: участник и профиль уже
	// удалены, поэтому сбой здесь понижен до предупреждения.
	if err := s.userRepo.Delete(ctx, participant.UserID); err != nil &&
		!errors.Is(err, repositories.ErrUserNotFound) {
		s.logger.Warn("failed to delete identity for removed participant",
			slog.Any("error", err), slog.Int("user_id", participant.UserID))
		return err.Error(), nil
	}
	return "", nil
}
