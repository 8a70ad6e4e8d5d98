package usecase

import (
	"context"
	"time"

	"github.com/dealdesk/dealdesk/internal/automation"
	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
)

// AutomationService bridges domain events (status changes, task completion,
// document uploads) into the rule engine. Firing is best-effort: a failed
// execution is logged and recorded on its execution row, it never fails the
// originating request.
type AutomationService struct {
	matcher  *automation.Matcher
	executor *automation.Executor
	log      logger.Logger
}

// NewAutomationService creates the event-to-rule bridge
func NewAutomationService(matcher *automation.Matcher, executor *automation.Executor, log logger.Logger) *AutomationService {
	return &AutomationService{
		matcher:  matcher,
		executor: executor,
		log:      log,
	}
}

// FireEvent matches and executes all rules for the event against the context
func (s *AutomationService) FireEvent(ctx context.Context, event domain.TriggerEvent, tc automation.TriggerContext) {
	rules, err := s.matcher.Match(ctx, event, tc, time.Now())
	if err != nil {
		s.log.Error(ctx, "automation matching failed", err, map[string]interface{}{
			"event": string(event),
		})
		return
	}

	for _, rule := range rules {
		if _, err := s.executor.Execute(ctx, rule, tc.Transaction); err != nil {
			s.log.Error(ctx, "automation execution failed", err, map[string]interface{}{
				"event":          string(event),
				"rule_id":        rule.ID,
				"transaction_id": tc.Transaction.ID,
			})
		}
	}
}
