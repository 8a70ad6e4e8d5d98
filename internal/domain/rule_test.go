package domain

import (
	"testing"
)

func TestTriggerCondition_ValidateDateOffset(t *testing.T) {
	cond := TriggerCondition{
		Type:       ConditionContractDateOffset,
		OffsetDays: 7,
		OffsetType: OffsetAfter,
	}
	if err := cond.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	cond.OffsetType = "sideways"
	if err := cond.Validate(); err != ErrInvalidCondition {
		t.Errorf("Expected ErrInvalidCondition, got %v", err)
	}

	cond.OffsetType = OffsetBefore
	cond.OffsetDays = -1
	if err := cond.Validate(); err != ErrInvalidCondition {
		t.Errorf("Expected ErrInvalidCondition, got %v", err)
	}
}

func TestTriggerCondition_ValidateTimeBased(t *testing.T) {
	cond := TriggerCondition{
		Type:       ConditionTimeBased,
		TimeOfDay:  "09:30",
		DaysOfWeek: []int{1, 2, 3, 4, 5},
	}
	if err := cond.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	cond.TimeOfDay = "25:99"
	if err := cond.Validate(); err != ErrInvalidCondition {
		t.Errorf("Expected ErrInvalidCondition, got %v", err)
	}

	cond.TimeOfDay = "09:30"
	cond.DaysOfWeek = []int{7}
	if err := cond.Validate(); err != ErrInvalidCondition {
		t.Errorf("Expected ErrInvalidCondition, got %v", err)
	}
}

func TestTriggerCondition_ValidateUnknownType(t *testing.T) {
	cond := TriggerCondition{Type: "lunar_phase"}
	if err := cond.Validate(); err != ErrInvalidCondition {
		t.Errorf("Expected ErrInvalidCondition, got %v", err)
	}
}

func TestNewAutomationRule_Validate(t *testing.T) {
	rule := NewAutomationRule(
		"Inspection reminder",
		TriggerEventDateBased,
		TriggerCondition{Type: ConditionContractDateOffset, OffsetDays: 7, OffsetType: OffsetAfter},
		"tmpl-1",
		"coordinator-1",
	)

	if !rule.Active {
		t.Error("Expected new rule to be active")
	}
	if err := rule.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	rule.WorkflowTemplateID = ""
	if err := rule.Validate(); err == nil {
		t.Error("Expected error for missing template")
	}
}

func TestTransaction_ChangeStatus(t *testing.T) {
	txn := NewTransaction("12 Elm St", "agent-1")

	if err := txn.ChangeStatus(TransactionStatusActive); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if txn.Status != TransactionStatusActive {
		t.Errorf("Expected status %s, got %s", TransactionStatusActive, txn.Status)
	}

	if err := txn.ChangeStatus("weird"); err != ErrInvalidStatus {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}

	txn.Status = TransactionStatusClosed
	if err := txn.ChangeStatus(TransactionStatusActive); err != ErrTransactionClosed {
		t.Errorf("Expected ErrTransactionClosed, got %v", err)
	}
}
