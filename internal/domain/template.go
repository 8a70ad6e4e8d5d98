package domain

import "time"

// TemplateTask represents one task definition inside a workflow template
type TemplateTask struct {
	Title         string       `json:"title"`
	Priority      TaskPriority `json:"priority"`
	DueOffsetDays int          `json:"due_offset_days"`
}

// WorkflowTemplate represents a named bundle of task definitions that can be
// applied to a transaction
type WorkflowTemplate struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Tasks     []TemplateTask `json:"tasks"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewWorkflowTemplate creates a workflow template
func NewWorkflowTemplate(name string, tasks []TemplateTask, createdBy string) *WorkflowTemplate {
	now := time.Now()
	return &WorkflowTemplate{
		ID:        NewID("tmpl"),
		Name:      name,
		Tasks:     tasks,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

var ErrTemplateNotFound = NewDomainError("workflow template not found")
