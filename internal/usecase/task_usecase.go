package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dealdesk/dealdesk/internal/automation"
	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// AddTaskRequest represents the request to add a task to a transaction
type AddTaskRequest struct {
	TransactionID string              `json:"transaction_id" validate:"required"`
	Title         string              `json:"title" validate:"required"`
	Priority      domain.TaskPriority `json:"priority"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
}

// TaskUseCase handles transaction task business logic
type TaskUseCase struct {
	tasks        ports.TaskRepository
	transactions ports.TransactionRepository
	auto         *AutomationService
}

// NewTaskUseCase creates a new task use case
func NewTaskUseCase(tasks ports.TaskRepository, transactions ports.TransactionRepository, auto *AutomationService) *TaskUseCase {
	return &TaskUseCase{
		tasks:        tasks,
		transactions: transactions,
		auto:         auto,
	}
}

// AddTask adds a task to a transaction
func (uc *TaskUseCase) AddTask(ctx context.Context, req AddTaskRequest) (*domain.TransactionTask, error) {
	if req.TransactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	if req.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if req.Priority == "" {
		req.Priority = domain.TaskPriorityMedium
	}

	if _, err := uc.transactions.FindByID(ctx, req.TransactionID); err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	task := domain.NewTransactionTask(req.TransactionID, req.Title, req.Priority, req.DueDate)
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListTasks retrieves all tasks for a transaction
func (uc *TaskUseCase) ListTasks(ctx context.Context, transactionID string) ([]*domain.TransactionTask, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	tasks, err := uc.tasks.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CompleteTask marks a task completed and fires any task_completed
// automation rules
func (uc *TaskUseCase) CompleteTask(ctx context.Context, taskID string) (*domain.TransactionTask, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID is required")
	}

	task, err := uc.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := task.Complete(); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if uc.auto != nil {
		txn, err := uc.transactions.FindByID(ctx, task.TransactionID)
		if err == nil {
			uc.auto.FireEvent(ctx, domain.TriggerEventTaskCompleted, automation.TriggerContext{
				Transaction: txn,
				Task:        task,
			})
		}
	}
	return task, nil
}
