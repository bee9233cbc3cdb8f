package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Ошибки сдачи решений
	ErrPointsRequired        = errors.New("points is required")
	ErrParticipantUnresolved = errors.New("unauthorized or invalid participant")
	ErrParticipantBlocked    = errors.New("participant is blocked")

	// Выбор языка
	ErrInvalidLanguage      = errors.New("invalid language")
	ErrUserIdentityRequired = errors.New("userId or email required")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound         = errors.New("user not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrContestNotFound      = errors.New("contest not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")

	// Ошибки конкурсов
	ErrContestNameRequired        = errors.New("contest name is required")
	ErrContestInvalidStatus       = errors.New("invalid contest status provided")
	ErrInvalidStatusTransition    = errors.New("invalid contest status transition")
	ErrQuestionInvalidDifficulty  = errors.New("invalid question difficulty provided")
	ErrQuestionTitleRequired      = errors.New("question title is required")
	ErrQuestionInvalidPoints      = errors.New("question points must be positive")
	ErrAnnouncementEmptyMessage   = errors.New("announcement message is required")
	ErrUploaderNotConfigured      = errors.New("file uploader is not configured")
)
