package domain

import (
	"testing"
)

func TestNewWorkflowExecution(t *testing.T) {
	exec := NewWorkflowExecution("rule-1", "txn-1")

	if exec.Status != ExecutionStatusPending {
		t.Errorf("Expected status %s, got %s", ExecutionStatusPending, exec.Status)
	}

	if exec.RetryCount != 0 {
		t.Errorf("Expected retry count 0, got %d", exec.RetryCount)
	}

	if exec.RuleID != "rule-1" || exec.TransactionID != "txn-1" {
		t.Errorf("Unexpected rule/transaction: %s/%s", exec.RuleID, exec.TransactionID)
	}
}

func TestWorkflowExecution_StartCompleteFlow(t *testing.T) {
	exec := NewWorkflowExecution("rule-1", "txn-1")

	if err := exec.Start(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if exec.Status != ExecutionStatusRunning {
		t.Errorf("Expected status %s, got %s", ExecutionStatusRunning, exec.Status)
	}
	if exec.StartedAt == nil {
		t.Error("Expected StartedAt to be set")
	}

	if err := exec.Complete(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if exec.Status != ExecutionStatusCompleted {
		t.Errorf("Expected status %s, got %s", ExecutionStatusCompleted, exec.Status)
	}
	if exec.FinishedAt == nil {
		t.Error("Expected FinishedAt to be set")
	}
}

func TestWorkflowExecution_CompleteWithoutStart(t *testing.T) {
	exec := NewWorkflowExecution("rule-1", "txn-1")

	err := exec.Complete()
	if err != ErrExecutionNotRunning {
		t.Errorf("Expected ErrExecutionNotRunning, got %v", err)
	}
}

func TestWorkflowExecution_Fail(t *testing.T) {
	exec := NewWorkflowExecution("rule-1", "txn-1")
	_ = exec.Start()

	if err := exec.Fail("template missing"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if exec.Status != ExecutionStatusFailed {
		t.Errorf("Expected status %s, got %s", ExecutionStatusFailed, exec.Status)
	}
	if exec.ErrorMessage == nil || *exec.ErrorMessage != "template missing" {
		t.Errorf("Expected error message to be recorded, got %v", exec.ErrorMessage)
	}
}

func TestWorkflowExecution_RetryFlow(t *testing.T) {
	exec := NewWorkflowExecution("rule-1", "txn-1")
	_ = exec.Start()
	_ = exec.Fail("boom")

	if err := exec.BeginRetry(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if exec.Status != ExecutionStatusRetrying {
		t.Errorf("Expected status %s, got %s", ExecutionStatusRetrying, exec.Status)
	}
	if exec.RetryCount != 1 {
		t.Errorf("Expected retry count 1, got %d", exec.RetryCount)
	}

	// retrying executions can start again
	if err := exec.Start(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if exec.ErrorMessage != nil {
		t.Error("Expected error message cleared on restart")
	}
}

func TestWorkflowExecution_RetryExhausted(t *testing.T) {
	exec := NewWorkflowExecution("rule-1", "txn-1")
	_ = exec.Start()
	_ = exec.Fail("boom")

	for i := 0; i < MaxRetryAttempts; i++ {
		if err := exec.BeginRetry(); err != nil {
			t.Fatalf("Retry %d: unexpected error: %v", i+1, err)
		}
		_ = exec.Start()
		_ = exec.Fail("boom again")
	}

	err := exec.BeginRetry()
	if err != ErrRetryExhausted {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	if exec.RetryCount != MaxRetryAttempts {
		t.Errorf("Expected retry count %d, got %d", MaxRetryAttempts, exec.RetryCount)
	}
}

func TestWorkflowExecution_RetryNonFailed(t *testing.T) {
	exec := NewWorkflowExecution("rule-1", "txn-1")

	err := exec.BeginRetry()
	if err != ErrExecutionNotRetryable {
		t.Errorf("Expected ErrExecutionNotRetryable, got %v", err)
	}
}
