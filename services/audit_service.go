package services

import (
	"context"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
)

// AuditService отдаёт админке журналы начислений и последние сдачи.
type AuditService interface {
	RecentLogs(ctx context.Context, limit int) ([]*models.SubmissionAuditLog, error)
	RecentSubmissions(ctx context.Context, limit int) ([]*models.Submission, error)
}

type auditService struct {
	auditRepo      repositories.AuditLogRepository
	submissionRepo repositories.SubmissionRepository
}

func NewAuditService(auditRepo repositories.AuditLogRepository, submissionRepo repositories.SubmissionRepository) AuditService {
	return &auditService{
		auditRepo:      auditRepo,
		submissionRepo: submissionRepo,
	}
}

func (s *auditService) RecentLogs(ctx context.Context, limit int) ([]*models.SubmissionAuditLog, error) {
	return s.auditRepo.ListRecent(ctx, limit)
}

func (s *auditService) RecentSubmissions(ctx context.Context, limit int) ([]*models.Submission, error) {
	return s.submissionRepo.ListRecent(ctx, limit)
}
