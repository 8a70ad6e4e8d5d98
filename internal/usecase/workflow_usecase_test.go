package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
)

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, tmpl *domain.WorkflowTemplate) error {
	return m.Called(ctx, tmpl).Error(0)
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id string) (*domain.WorkflowTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowTemplate), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context, limit, offset int) ([]*domain.WorkflowTemplate, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkflowTemplate), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.TransactionTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id string) (*domain.TransactionTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionTask), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.TransactionTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.TransactionTask, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TransactionTask), args.Error(1)
}

func TestWorkflowUseCase_ApplyTemplate(t *testing.T) {
	templates := new(MockTemplateRepository)
	tasks := new(MockTaskRepository)
	uc := NewWorkflowUseCase(templates, tasks, logger.NewNop())

	tmpl := domain.NewWorkflowTemplate("Closing checklist", []domain.TemplateTask{
		{Title: "Order title search", Priority: domain.TaskPriorityHigh, DueOffsetDays: 1},
		{Title: "Schedule final walkthrough", Priority: domain.TaskPriorityMedium, DueOffsetDays: 5},
	}, "coord-1")

	templates.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)

	var created []*domain.TransactionTask
	tasks.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.Get(1).(*domain.TransactionTask))
	}).Return(nil)

	instanceID, err := uc.ApplyTemplate(context.Background(), "txn-1", tmpl.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, instanceID)
	require.Len(t, created, 2)
	for _, task := range created {
		assert.Equal(t, "txn-1", task.TransactionID)
		require.NotNil(t, task.WorkflowInstanceID)
		assert.Equal(t, instanceID, *task.WorkflowInstanceID)
		assert.NotNil(t, task.DueDate)
	}
	assert.Equal(t, "Order title search", created[0].Title)
}

func TestWorkflowUseCase_ApplyTemplateMissingTemplate(t *testing.T) {
	templates := new(MockTemplateRepository)
	tasks := new(MockTaskRepository)
	uc := NewWorkflowUseCase(templates, tasks, logger.NewNop())

	templates.On("FindByID", mock.Anything, "tmpl-missing").Return(nil, domain.ErrTemplateNotFound)

	_, err := uc.ApplyTemplate(context.Background(), "txn-1", "tmpl-missing")
	assert.Error(t, err)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWorkflowUseCase_ApplyTemplateTaskCreateFailure(t *testing.T) {
	templates := new(MockTemplateRepository)
	tasks := new(MockTaskRepository)
	uc := NewWorkflowUseCase(templates, tasks, logger.NewNop())

	tmpl := domain.NewWorkflowTemplate("Checklist", []domain.TemplateTask{
		{Title: "Only task", Priority: domain.TaskPriorityLow},
	}, "coord-1")

	templates.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)
	tasks.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := uc.ApplyTemplate(context.Background(), "txn-1", tmpl.ID)
	assert.Error(t, err)
}

func TestWorkflowUseCase_CreateTemplateValidation(t *testing.T) {
	uc := NewWorkflowUseCase(new(MockTemplateRepository), new(MockTaskRepository), logger.NewNop())

	_, err := uc.CreateTemplate(context.Background(), CreateTemplateRequest{Name: ""})
	assert.Error(t, err)

	_, err = uc.CreateTemplate(context.Background(), CreateTemplateRequest{Name: "Empty", Tasks: nil})
	assert.Error(t, err)
}
