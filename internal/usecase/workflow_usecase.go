package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// WorkflowUseCase manages workflow templates and applies them to
// transactions. It is the executor's ports.TemplateApplier.
type WorkflowUseCase struct {
	templates ports.TemplateRepository
	tasks     ports.TaskRepository
	log       logger.Logger
}

// NewWorkflowUseCase creates a workflow use case
func NewWorkflowUseCase(templates ports.TemplateRepository, tasks ports.TaskRepository, log logger.Logger) *WorkflowUseCase {
	return &WorkflowUseCase{
		templates: templates,
		tasks:     tasks,
		log:       log,
	}
}

// CreateTemplateRequest represents the request to create a workflow template
type CreateTemplateRequest struct {
	Name      string                `json:"name" validate:"required"`
	Tasks     []domain.TemplateTask `json:"tasks" validate:"required,min=1"`
	CreatedBy string                `json:"created_by"`
}

// CreateTemplate creates a new workflow template
func (uc *WorkflowUseCase) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*domain.WorkflowTemplate, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}
	if len(req.Tasks) == 0 {
		return nil, fmt.Errorf("template needs at least one task")
	}
	for _, task := range req.Tasks {
		if task.Title == "" {
			return nil, fmt.Errorf("template task title is required")
		}
	}

	tmpl := domain.NewWorkflowTemplate(req.Name, req.Tasks, req.CreatedBy)
	if err := uc.templates.Create(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return tmpl, nil
}

// GetTemplate retrieves a template by ID
func (uc *WorkflowUseCase) GetTemplate(ctx context.Context, id string) (*domain.WorkflowTemplate, error) {
	if id == "" {
		return nil, fmt.Errorf("template ID is required")
	}
	tmpl, err := uc.templates.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return tmpl, nil
}

// ListTemplates retrieves templates with pagination
func (uc *WorkflowUseCase) ListTemplates(ctx context.Context, limit, offset int) ([]*domain.WorkflowTemplate, error) {
	if limit <= 0 {
		limit = 20
	}
	tmpls, err := uc.templates.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return tmpls, nil
}

// ApplyTemplate creates one task row per template task against the
// transaction, due-dated by each task's offset from today, and returns the
// workflow instance id the tasks are grouped under.
func (uc *WorkflowUseCase) ApplyTemplate(ctx context.Context, transactionID, templateID string) (string, error) {
	tmpl, err := uc.templates.FindByID(ctx, templateID)
	if err != nil {
		return "", fmt.Errorf("failed to load template: %w", err)
	}

	instanceID := domain.NewID("wf")
	now := time.Now()

	for _, def := range tmpl.Tasks {
		due := now.AddDate(0, 0, def.DueOffsetDays)
		task := domain.NewTransactionTask(transactionID, def.Title, def.Priority, &due)
		task.WorkflowInstanceID = &instanceID
		if err := uc.tasks.Create(ctx, task); err != nil {
			return "", fmt.Errorf("failed to create task %q: %w", def.Title, err)
		}
	}

	uc.log.Info(ctx, "workflow template applied", map[string]interface{}{
		"template_id":          templateID,
		"transaction_id":       transactionID,
		"workflow_instance_id": instanceID,
		"tasks":                len(tmpl.Tasks),
	})
	return instanceID, nil
}
