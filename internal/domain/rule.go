package domain

import (
	"time"
)

// TriggerEvent represents the kind of event an automation rule listens for
type TriggerEvent string

const (
	TriggerEventDateBased        TriggerEvent = "date_based"
	TriggerEventStatusChange     TriggerEvent = "status_change"
	TriggerEventTaskCompleted    TriggerEvent = "task_completed"
	TriggerEventDocumentUploaded TriggerEvent = "document_uploaded"
	TriggerEventTimeBased        TriggerEvent = "time_based"
)

// ConditionType discriminates the trigger condition union
type ConditionType string

const (
	ConditionContractDateOffset ConditionType = "contract_date_offset"
	ConditionClosingDateOffset  ConditionType = "closing_date_offset"
	ConditionStatusChange       ConditionType = "status_change"
	ConditionTaskCompleted      ConditionType = "task_completed"
	ConditionDocumentUploaded   ConditionType = "document_uploaded"
	ConditionTimeBased          ConditionType = "time_based"
)

// OffsetType represents the direction of a date offset
type OffsetType string

const (
	OffsetBefore OffsetType = "before"
	OffsetAfter  OffsetType = "after"
)

// TriggerCondition describes when an automation rule should fire. Type
// selects the condition kind; only the fields for that kind are meaningful,
// the rest stay at their zero values.
type TriggerCondition struct {
	Type ConditionType `json:"type"`

	// contract_date_offset / closing_date_offset
	OffsetDays int        `json:"offset_days,omitempty"`
	OffsetType OffsetType `json:"offset_type,omitempty"`

	// status_change; nil filter = wildcard
	FromStatus *TransactionStatus `json:"from_status,omitempty"`
	ToStatus   *TransactionStatus `json:"to_status,omitempty"`

	// task_completed
	TaskTitleContains string        `json:"task_title_contains,omitempty"`
	TaskPriority      *TaskPriority `json:"task_priority,omitempty"`

	// document_uploaded
	FileNameContains string `json:"file_name_contains,omitempty"`

	// time_based; DaysOfWeek uses time.Weekday numbering (Sunday=0)
	DaysOfWeek []int  `json:"days_of_week,omitempty"`
	TimeOfDay  string `json:"time_of_day,omitempty"`
}

// Validate checks that the condition payload is usable for its type
func (c TriggerCondition) Validate() error {
	switch c.Type {
	case ConditionContractDateOffset, ConditionClosingDateOffset:
		if c.OffsetDays < 0 {
			return ErrInvalidCondition
		}
		if c.OffsetType != OffsetBefore && c.OffsetType != OffsetAfter {
			return ErrInvalidCondition
		}
	case ConditionStatusChange, ConditionTaskCompleted, ConditionDocumentUploaded:
		// all fields optional (wildcards)
	case ConditionTimeBased:
		if c.TimeOfDay == "" {
			return ErrInvalidCondition
		}
		if _, err := time.Parse("15:04", c.TimeOfDay); err != nil {
			return ErrInvalidCondition
		}
		for _, d := range c.DaysOfWeek {
			if d < 0 || d > 6 {
				return ErrInvalidCondition
			}
		}
	default:
		return ErrInvalidCondition
	}
	return nil
}

// AutomationRule represents a coordinator-authored automation rule
type AutomationRule struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Active             bool             `json:"active"`
	TriggerEvent       TriggerEvent     `json:"trigger_event"`
	Condition          TriggerCondition `json:"condition"`
	WorkflowTemplateID string           `json:"workflow_template_id"`
	CreatedBy          string           `json:"created_by"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// NewAutomationRule creates an active rule
func NewAutomationRule(name string, event TriggerEvent, condition TriggerCondition, templateID, createdBy string) *AutomationRule {
	now := time.Now()
	return &AutomationRule{
		ID:                 NewID("rule"),
		Name:               name,
		Active:             true,
		TriggerEvent:       event,
		Condition:          condition,
		WorkflowTemplateID: templateID,
		CreatedBy:          createdBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Validate checks rule fields and the embedded condition
func (r *AutomationRule) Validate() error {
	if r.Name == "" {
		return NewDomainError("rule name is required")
	}
	if r.WorkflowTemplateID == "" {
		return NewDomainError("workflow template is required")
	}
	if !validTriggerEvents[r.TriggerEvent] {
		return NewDomainError("invalid trigger event")
	}
	return r.Condition.Validate()
}

var validTriggerEvents = map[TriggerEvent]bool{
	TriggerEventDateBased:        true,
	TriggerEventStatusChange:     true,
	TriggerEventTaskCompleted:    true,
	TriggerEventDocumentUploaded: true,
	TriggerEventTimeBased:        true,
}

// RuleFilter represents filters for listing automation rules
type RuleFilter struct {
	Active       *bool         `json:"active,omitempty"`
	TriggerEvent *TriggerEvent `json:"trigger_event,omitempty"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
}

var (
	ErrRuleNotFound     = NewDomainError("automation rule not found")
	ErrInvalidCondition = NewDomainError("invalid trigger condition")
)
