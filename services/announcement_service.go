package services

import (
	"context"
	"errors"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
)

type AnnouncementService interface {
	Create(ctx context.Context, a *models.Announcement) error
	List(ctx context.Context, contestID *int) ([]*models.Announcement, error)
	Delete(ctx context.Context, id int) error
}

type announcementService struct {
	announcementRepo repositories.AnnouncementRepository
}

func NewAnnouncementService(announcementRepo repositories.AnnouncementRepository) AnnouncementService {
	return &announcementService{announcementRepo: announcementRepo}
}

func (s *announcementService) Create(ctx context.Context, a *models.Announcement) error {
	if a.Message == "" {
		return ErrAnnouncementEmptyMessage
	}
	err := s.announcementRepo.Create(ctx, a)
	if errors.Is(err, repositories.ErrAnnouncementContestInvalid) {
		return ErrContestNotFound
	}
	return err
}

func (s *announcementService) List(ctx context.Context, contestID *int) ([]*models.Announcement, error) {
	return s.announcementRepo.ListByContest(ctx, contestID)
}

func (s *announcementService) Delete(ctx context.Context, id int) error {
	err := s.announcementRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrAnnouncementNotFound) {
		return ErrAnnouncementNotFound
	}
	return err
}
