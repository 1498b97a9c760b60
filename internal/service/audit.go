package service

import (
	"context"

	"assetreg/internal/apperr"
	"assetreg/internal/config"
	"assetreg/internal/model"
	"assetreg/internal/repository"
)

// AuditListInput narrows an audit listing. A nil Limit means the configured
// default; an explicit limit must be positive.
type AuditListInput struct {
	Action       string
	ResourceType string
	Limit        *int
}

// AuditService reads the append-only audit trail. Writes happen inside the
// mutating services' transactions, never here.
type AuditService interface {
	// List returns events most recent first.
	List(ctx context.Context, in AuditListInput) ([]model.AuditEvent, error)
}

type auditService struct {
	audit repository.AuditRepository
	cfg   config.AuditConfig
}

// NewAuditService constructs an AuditService.
func NewAuditService(audit repository.AuditRepository, cfg config.AuditConfig) AuditService {
	return &auditService{audit: audit, cfg: cfg}
}

func (s *auditService) List(ctx context.Context, in AuditListInput) ([]model.AuditEvent, error) {
	limit := s.cfg.DefaultListLimit
	if in.Limit != nil {
		if *in.Limit <= 0 {
			return nil, apperr.E(apperr.KindValidation, "limit must be positive")
		}
		if *in.Limit > s.cfg.MaxListLimit {
			return nil, apperr.E(apperr.KindValidation, "limit must not exceed %d", s.cfg.MaxListLimit)
		}
		limit = *in.Limit
	}
	return s.audit.List(ctx, repository.AuditFilter{
		Action:       in.Action,
		ResourceType: in.ResourceType,
		Limit:        limit,
	})
}
