package usecase

import (
	"context"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// CreateRuleRequest represents the request to create an automation rule
type CreateRuleRequest struct {
	Name               string                  `json:"name" validate:"required"`
	TriggerEvent       domain.TriggerEvent     `json:"trigger_event" validate:"required"`
	Condition          domain.TriggerCondition `json:"condition" validate:"required"`
	WorkflowTemplateID string                  `json:"workflow_template_id" validate:"required"`
	CreatedBy          string                  `json:"created_by"`
}

// UpdateRuleRequest represents a partial rule update
type UpdateRuleRequest struct {
	Name      *string                  `json:"name,omitempty"`
	Active    *bool                    `json:"active,omitempty"`
	Condition *domain.TriggerCondition `json:"condition,omitempty"`
}

// RuleUseCase handles automation rule management (coordinator role)
type RuleUseCase struct {
	rules     ports.RuleRepository
	templates ports.TemplateRepository
}

// NewRuleUseCase creates a new rule use case
func NewRuleUseCase(rules ports.RuleRepository, templates ports.TemplateRepository) *RuleUseCase {
	return &RuleUseCase{
		rules:     rules,
		templates: templates,
	}
}

// CreateRule creates a new automation rule after validating the condition
// payload and the template reference
func (uc *RuleUseCase) CreateRule(ctx context.Context, req CreateRuleRequest) (*domain.AutomationRule, error) {
	rule := domain.NewAutomationRule(req.Name, req.TriggerEvent, req.Condition, req.WorkflowTemplateID, req.CreatedBy)
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := uc.templates.FindByID(ctx, req.WorkflowTemplateID); err != nil {
		return nil, fmt.Errorf("failed to resolve workflow template: %w", err)
	}

	if err := uc.rules.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}
	return rule, nil
}

// GetRule retrieves a rule by ID
func (uc *RuleUseCase) GetRule(ctx context.Context, id string) (*domain.AutomationRule, error) {
	if id == "" {
		return nil, fmt.Errorf("rule ID is required")
	}
	rule, err := uc.rules.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

// ListRules retrieves rules based on filter criteria
func (uc *RuleUseCase) ListRules(ctx context.Context, filter domain.RuleFilter) ([]*domain.AutomationRule, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	rules, err := uc.rules.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

// UpdateRule applies a partial update to a rule
func (uc *RuleUseCase) UpdateRule(ctx context.Context, id string, req UpdateRuleRequest) (*domain.AutomationRule, error) {
	rule, err := uc.rules.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	if req.Name != nil && *req.Name != "" {
		rule.Name = *req.Name
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if req.Condition != nil {
		rule.Condition = *req.Condition
	}
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := uc.rules.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return rule, nil
}

// DeleteRule removes a rule
func (uc *RuleUseCase) DeleteRule(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("rule ID is required")
	}
	if err := uc.rules.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}
