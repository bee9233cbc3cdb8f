package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
)

// LeaderboardNotifier получает уведомление после успешного начисления.
// Реализация обязана быть best-effort: сервис начисления не проверяет ошибки.
type LeaderboardNotifier interface {
	ScoreChanged(ctx context.Context, participantID, newScore int)
}

type SubmitInput struct {
	// Один из трёх способов указать личность: явный participantId,
	// user_id из проверенного токена или email.
	ParticipantID int
	UserID        int
	Email         string

	QuestionID       *int
	SubmittedCode    string
	Points           *int
	SelectedLanguage string
	TimeLeftSeconds  *int
}

type SubmitResult struct {
	ParticipantID int
	NewScore      int
	AlreadySolved bool
}

type ScoringService interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
}

type scoringService struct {
	participantRepo repositories.ParticipantRepository
	submissionRepo  repositories.SubmissionRepository
	profileRepo     repositories.ProfileRepository
	auditRepo       repositories.AuditLogRepository
	notifier        LeaderboardNotifier
	logger          *slog.Logger

	// Политика повторных сдач (решённый открытый вопрос исходника):
	// писать ли нулевую pending-попытку, когда пара уже решена.
	logDuplicateAttempts bool
}

func NewScoringService(
	participantRepo repositories.ParticipantRepository,
	submissionRepo repositories.SubmissionRepository,
	profileRepo repositories.ProfileRepository,
	auditRepo repositories.AuditLogRepository,
	notifier LeaderboardNotifier,
	logger *slog.Logger,
	logDuplicateAttempts bool,
) ScoringService {
	return &scoringService{
		participantRepo:      participantRepo,
		submissionRepo:       submissionRepo,
		profileRepo:          profileRepo,
		auditRepo:            auditRepo,
		notifier:             notifier,
		logger:               logger,
		logDuplicateAttempts: logDuplicateAttempts,
	}
}

// Submit начисляет очки не более одного раза на пару (участник, задача).
// Сериализация «первая correct-сдача побеждает» делегирована хранилищу:
// предварительная проверка HasCorrect — только быстрый путь, гарантию даёт
// уникальный индекс, превращающий проигравшего гонку в ветку already_solved.
func (s *scoringService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if input.Points == nil || *input.Points < 0 {
		return nil, ErrPointsRequired
	}
	points := *input.Points

	participant, err := s.resolveParticipant(ctx, input)
	if err != nil {
		return nil, err
	}
	if participant.IsBlocked {
		return nil, ErrParticipantBlocked
	}

	code := input.SubmittedCode
	if input.TimeLeftSeconds != nil {
		// Клиентский таймер не авторитетен, но сохраняется для аудита.
		code = fmt.Sprintf("%s\n\n# time_left_seconds=%d", code, *input.TimeLeftSeconds)
	}

	if input.QuestionID != nil {
		solved, err := s.submissionRepo.HasCorrect(ctx, participant.ID, *input.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing correct submission: %w", err)
		}
		if solved {
			return s.alreadySolved(ctx, participant, input, code)
		}
	}

	sub := &models.Submission{
		ParticipantID: participant.ID,
		QuestionID:    input.QuestionID,
		SubmittedCode: code,
		PointsAwarded: points,
	}
	newScore, err := s.submissionRepo.AwardCorrect(ctx, sub)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionAlreadySolved) {
			// Проигравший гонку: индекс отклонил вторую correct-строку.
			return s.alreadySolved(ctx, participant, input, code)
		}
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantUnresolved
		}
		return nil, fmt.Errorf("failed to award submission: %w", err)
	}

	s.writeAuditLog(ctx, participant, input, points)
	if s.notifier != nil {
		s.notifier.ScoreChanged(ctx, participant.ID, newScore)
	}

	return &SubmitResult{
		ParticipantID: participant.ID,
		NewScore:      newScore,
		AlreadySolved: false,
	}, nil
}

func (s *scoringService) alreadySolved(ctx context.Context, participant *models.Participant, input SubmitInput, code string) (*SubmitResult, error) {
	if s.logDuplicateAttempts {
		attempt := &models.Submission{
			ParticipantID: participant.ID,
			QuestionID:    input.QuestionID,
			SubmittedCode: code,
			Status:        models.SubmissionStatusPending,
			PointsAwarded: 0,
		}
		if err := s.submissionRepo.CreateAttempt(ctx, attempt); err != nil {
			s.logger.Warn("failed to record duplicate attempt", slog.Any("error", err),
				slog.Int("participant_id", participant.ID))
		}
		s.writeAuditLog(ctx, participant, input, 0)
	}

	score, err := s.participantRepo.GetScore(ctx, participant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read participant score: %w", err)
	}
	return &SubmitResult{
		ParticipantID: participant.ID,
		NewScore:      score,
		AlreadySolved: true,
	}, nil
}

func (s *scoringService) resolveParticipant(ctx context.Context, input SubmitInput) (*models.Participant, error) {
	if input.ParticipantID > 0 {
		p, err := s.participantRepo.FindByID(ctx, input.ParticipantID)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				return nil, ErrParticipantUnresolved
			}
			return nil, fmt.Errorf("failed to resolve participant by id: %w", err)
		}
		return p, nil
	}

	userID := input.UserID
	if userID == 0 && input.Email != "" {
		profile, err := s.profileRepo.FindByEmail(ctx, input.Email)
		if err != nil {
			if errors.Is(err, repositories.ErrProfileNotFound) {
				return nil, ErrParticipantUnresolved
			}
			return nil, fmt.Errorf("failed to resolve profile by email: %w", err)
		}
		userID = profile.UserID
	}
	if userID == 0 {
		return nil, ErrParticipantUnresolved
	}

	p, err := s.participantRepo.FindByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, fmt.Errorf("failed to resolve participant by user: %w", err)
	}

	// Первый контакт пользователя с конкурсом — создаём участника с нулём очков.
	participant := &models.Participant{UserID: userID, Score: 0}
	if lang := models.Language(input.SelectedLanguage); lang.Valid() {
		participant.SelectedLanguage = &lang
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if errors.Is(err, repositories.ErrParticipantConflict) {
			// Параллельная регистрация того же пользователя: перечитываем.
			return s.participantRepo.FindByUserID(ctx, userID)
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	return participant, nil
}

// writeAuditLog пишет запись в журнал начислений. Любая ошибка глотается:
// журнал не должен блокировать или ронять основной ответ.
func (s *scoringService) writeAuditLog(ctx context.Context, participant *models.Participant, input SubmitInput, points int) {
	entry := &models.SubmissionAuditLog{
		ParticipantID:   participant.ID,
		QuestionID:      input.QuestionID,
		PointsAwarded:   points,
		TimeLeftSeconds: input.TimeLeftSeconds,
	}
	if profile, err := s.profileRepo.FindByUserID(ctx, participant.UserID); err == nil {
		entry.ParticipantName = &profile.FullName
		entry.ParticipantEmail = &profile.Email
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write submission audit log", slog.Any("error", err),
			slog.Int("participant_id", participant.ID))
	}
}
