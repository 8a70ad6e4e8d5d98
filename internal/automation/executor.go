package automation

import (
	"context"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// Executor fires a rule against a transaction: it records the execution row,
// applies the rule's workflow template, notifies the owning agent and writes
// an audit entry per state transition.
type Executor struct {
	transactions ports.TransactionRepository
	rules        ports.RuleRepository
	executions   ports.ExecutionRepository
	audits       ports.AuditRepository
	applier      ports.TemplateApplier
	notifier     ports.NotificationService
	log          logger.Logger
}

// NewExecutor creates an automation executor
func NewExecutor(
	transactions ports.TransactionRepository,
	rules ports.RuleRepository,
	executions ports.ExecutionRepository,
	audits ports.AuditRepository,
	applier ports.TemplateApplier,
	notifier ports.NotificationService,
	log logger.Logger,
) *Executor {
	return &Executor{
		transactions: transactions,
		rules:        rules,
		executions:   executions,
		audits:       audits,
		applier:      applier,
		notifier:     notifier,
		log:          log,
	}
}

// Execute fires the rule against the transaction. The execution row is
// created pending, moved through running and left completed or failed; the
// row survives either way so retries can pick it up.
func (e *Executor) Execute(ctx context.Context, rule *domain.AutomationRule, txn *domain.Transaction) (*domain.WorkflowExecution, error) {
	exec := domain.NewWorkflowExecution(rule.ID, txn.ID)
	exec.Metadata["rule_name"] = rule.Name
	exec.Metadata["template_id"] = rule.WorkflowTemplateID

	if err := e.executions.Create(ctx, exec); err != nil {
		return nil, fmt.Errorf("failed to create execution: %w", err)
	}
	e.audit(ctx, exec, domain.AuditActionTriggered, nil)

	if err := e.run(ctx, exec, rule, txn); err != nil {
		return exec, err
	}
	return exec, nil
}

// Retry re-runs a previously failed execution. Refused with
// domain.ErrRetryExhausted once the retry budget is spent; no new attempt is
// recorded in that case.
func (e *Executor) Retry(ctx context.Context, executionID string) (*domain.WorkflowExecution, error) {
	exec, err := e.executions.FindByID(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load execution: %w", err)
	}

	if err := exec.BeginRetry(); err != nil {
		return nil, err
	}
	if err := e.executions.Update(ctx, exec); err != nil {
		return nil, fmt.Errorf("failed to update execution: %w", err)
	}
	e.audit(ctx, exec, domain.AuditActionRetried, map[string]string{
		"retry_count": fmt.Sprintf("%d", exec.RetryCount),
	})

	rule, err := e.rules.FindByID(ctx, exec.RuleID)
	if err != nil {
		return exec, e.fail(ctx, exec, fmt.Errorf("failed to load rule: %w", err))
	}
	txn, err := e.transactions.FindByID(ctx, exec.TransactionID)
	if err != nil {
		return exec, e.fail(ctx, exec, fmt.Errorf("failed to load transaction: %w", err))
	}

	if err := e.run(ctx, exec, rule, txn); err != nil {
		return exec, err
	}
	return exec, nil
}

// run drives a pending or retrying execution through to completed or failed.
func (e *Executor) run(ctx context.Context, exec *domain.WorkflowExecution, rule *domain.AutomationRule, txn *domain.Transaction) error {
	if err := exec.Start(); err != nil {
		return err
	}
	if err := e.executions.Update(ctx, exec); err != nil {
		return fmt.Errorf("failed to update execution: %w", err)
	}

	instanceID, err := e.applier.ApplyTemplate(ctx, txn.ID, rule.WorkflowTemplateID)
	if err != nil {
		return e.fail(ctx, exec, fmt.Errorf("failed to apply template %s: %w", rule.WorkflowTemplateID, err))
	}
	exec.Metadata["workflow_instance_id"] = instanceID

	// agent notification is part of the firing, not best-effort
	if err := e.notifier.NotifyWorkflowApplied(ctx, txn, rule); err != nil {
		return e.fail(ctx, exec, fmt.Errorf("failed to notify agent: %w", err))
	}

	if err := exec.Complete(); err != nil {
		return err
	}
	if err := e.executions.Update(ctx, exec); err != nil {
		return fmt.Errorf("failed to update execution: %w", err)
	}
	e.audit(ctx, exec, domain.AuditActionApplied, map[string]string{
		"workflow_instance_id": instanceID,
	})

	e.log.Info(ctx, "automation rule applied", map[string]interface{}{
		"rule_id":        rule.ID,
		"transaction_id": txn.ID,
		"execution_id":   exec.ID,
	})
	return nil
}

// fail marks the execution failed, records the audit entry and tells the
// agent, then returns the original error.
func (e *Executor) fail(ctx context.Context, exec *domain.WorkflowExecution, cause error) error {
	if err := exec.Fail(cause.Error()); err != nil {
		e.log.Error(ctx, "could not mark execution failed", err, map[string]interface{}{
			"execution_id": exec.ID,
		})
		return cause
	}
	if err := e.executions.Update(ctx, exec); err != nil {
		e.log.Error(ctx, "could not persist failed execution", err, map[string]interface{}{
			"execution_id": exec.ID,
		})
	}
	e.audit(ctx, exec, domain.AuditActionFailed, map[string]string{
		"error": cause.Error(),
	})

	if txn, err := e.transactions.FindByID(ctx, exec.TransactionID); err == nil {
		if rule, err := e.rules.FindByID(ctx, exec.RuleID); err == nil {
			_ = e.notifier.NotifyWorkflowFailed(ctx, txn, rule, cause.Error())
		}
	}
	return cause
}

// audit writes an append-only entry; audit failures are logged, never fatal.
func (e *Executor) audit(ctx context.Context, exec *domain.WorkflowExecution, action domain.AuditAction, details map[string]string) {
	entry := domain.NewAuditLogEntry(exec.ID, exec.RuleID, exec.TransactionID, action, exec.Status, details)
	if err := e.audits.Create(ctx, entry); err != nil {
		e.log.Error(ctx, "failed to write audit entry", err, map[string]interface{}{
			"execution_id": exec.ID,
			"action":       string(action),
		})
	}
}
