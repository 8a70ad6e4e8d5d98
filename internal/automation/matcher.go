package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// Matcher finds the active rules whose trigger condition holds for a context.
type Matcher struct {
	rules     ports.RuleRepository
	evaluator *Evaluator
	log       logger.Logger
}

// NewMatcher creates a rule matcher
func NewMatcher(rules ports.RuleRepository, evaluator *Evaluator, log logger.Logger) *Matcher {
	return &Matcher{
		rules:     rules,
		evaluator: evaluator,
		log:       log,
	}
}

// Match returns all active rules for the event whose condition evaluates true
// against the context at instant now. A rule whose condition errors is
// treated as non-matching so one malformed rule cannot block the others;
// storage read failures propagate.
func (m *Matcher) Match(ctx context.Context, event domain.TriggerEvent, tc TriggerContext, now time.Time) ([]*domain.AutomationRule, error) {
	rules, err := m.rules.ListActiveByEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to load active rules: %w", err)
	}

	var matched []*domain.AutomationRule
	for _, rule := range rules {
		ok, err := m.evaluator.Evaluate(rule.Condition, tc, now)
		if err != nil {
			m.log.Warn(ctx, "rule condition evaluation failed, treating as no match", map[string]interface{}{
				"rule_id":   rule.ID,
				"rule_name": rule.Name,
				"error":     err.Error(),
			})
			continue
		}
		if ok {
			matched = append(matched, rule)
		}
	}

	return matched, nil
}
