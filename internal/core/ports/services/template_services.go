package services

import (
	"context"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/dto"
)

// TemplateSvcFacade defines entry template management operations.
type TemplateSvcFacade interface {
	CreateTemplate(ctx context.Context, companyID string, req dto.CreateTemplateRequest, actorID string) (*domain.EntryTemplate, error)
	GetTemplateByID(ctx context.Context, companyID, templateID string) (*domain.EntryTemplate, error)
	ListTemplates(ctx context.Context, companyID string, params dto.ListTemplatesParams) ([]domain.EntryTemplate, error)
}
