package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
	"github.com/Piyushgeek-gupta/Code-Alchemists/storage"
)

type QuestionService interface {
	Create(ctx context.Context, q *models.Question) error
	Update(ctx context.Context, q *models.Question) error
	GetByID(ctx context.Context, id int) (*models.Question, error)
	// ListForTrack отдаёт только включённые задачи трека и вырезает
	// эталонное решение.
	ListForTrack(ctx context.Context, language models.Language) ([]*models.Question, error)
	ListAll(ctx context.Context) ([]*models.Question, error)
	ToggleEnabled(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
	// UploadAttachment кладёт файл в объектное хранилище и привязывает
	// ключ к задаче. Старое вложение удаляется best-effort.
	UploadAttachment(ctx context.Context, id int, filename, contentType string, r io.Reader) (*models.Question, error)
}

type questionService struct {
	questionRepo repositories.QuestionRepository
	uploader     storage.FileUploader // nil, если R2 не сконфигурирован
}

func NewQuestionService(questionRepo repositories.QuestionRepository, uploader storage.FileUploader) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		uploader:     uploader,
	}
}

func (s *questionService) validate(q *models.Question) error {
	if q.Title == "" {
		return ErrQuestionTitleRequired
	}
	if !q.Language.Valid() {
		return ErrInvalidLanguage
	}
	if !q.Difficulty.Valid() {
		return ErrQuestionInvalidDifficulty
	}
	if q.Points <= 0 {
		return ErrQuestionInvalidPoints
	}
	if len(q.TestCases) == 0 {
		q.TestCases = []byte("[]")
	}
	return nil
}

func (s *questionService) Create(ctx context.Context, q *models.Question) error {
	if err := s.validate(q); err != nil {
		return err
	}
	return s.questionRepo.Create(ctx, q)
}

func (s *questionService) Update(ctx context.Context, q *models.Question) error {
	if err := s.validate(q); err != nil {
		return err
	}
	err := s.questionRepo.Update(ctx, q)
	if errors.Is(err, repositories.ErrQuestionNotFound) {
		return ErrQuestionNotFound
	}
	return err
}

func (s *questionService) GetByID(ctx context.Context, id int) (*models.Question, error) {
	q, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrQuestionNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	s.fillAttachmentURL(q)
	return q, nil
}

func (s *questionService) ListForTrack(ctx context.Context, language models.Language) ([]*models.Question, error) {
	if !language.Valid() {
		return nil, ErrInvalidLanguage
	}
	questions, err := s.questionRepo.List(ctx, &language, true)
	if err != nil {
		return nil, err
	}
	public := make([]*models.Question, 0, len(questions))
	for _, q := range questions {
		s.fillAttachmentURL(q)
		view := q.PublicView()
		public = append(public, &view)
	}
	return public, nil
}

func (s *questionService) ListAll(ctx context.Context) ([]*models.Question, error) {
	questions, err := s.questionRepo.List(ctx, nil, false)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		s.fillAttachmentURL(q)
	}
	return questions, nil
}

func (s *questionService) ToggleEnabled(ctx context.Context, id int) (bool, error) {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	enabled := !q.Enabled
	if err := s.questionRepo.SetEnabled(ctx, id, enabled); err != nil {
		return false, fmt.Errorf("failed to toggle question: %w", err)
	}
	return enabled, nil
}

func (s *questionService) Delete(ctx context.Context, id int) error {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	if q.AttachmentKey != nil && s.uploader != nil {
		// Осиротевший объект в бакете не критичен.
		_ = s.uploader.Delete(ctx, *q.AttachmentKey)
	}
	return nil
}

func (s *questionService) UploadAttachment(ctx context.Context, id int, filename, contentType string, r io.Reader) (*models.Question, error) {
	if s.uploader == nil {
		return nil, ErrUploaderNotConfigured
	}
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("questions/%d/%d_%s", id, time.Now().UnixNano(), filename)
	result, err := s.uploader.Upload(ctx, key, contentType, r)
	if err != nil {
		return nil, fmt.Errorf("failed to upload question attachment: %w", err)
	}

	if err := s.questionRepo.SetAttachmentKey(ctx, id, &result.Key); err != nil {
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, fmt.Errorf("failed to link question attachment: %w", err)
	}

	if q.AttachmentKey != nil && *q.AttachmentKey != result.Key {
		_ = s.uploader.Delete(ctx, *q.AttachmentKey)
	}

	q.AttachmentKey = &result.Key
	q.AttachmentURL = result.Location
	return q, nil
}

func (s *questionService) fillAttachmentURL(q *models.Question) {
	if q.AttachmentKey != nil && s.uploader != nil {
		q.AttachmentURL = s.uploader.GetPublicURL(*q.AttachmentKey)
	}
}
