package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// Scheduler periodically sweeps open transactions against date and time based
// rules, firing the executor for every newly-qualifying pair. Duplicate fires
// within a calendar day are suppressed with a read-then-write existence check
// against the execution store; two racing sweeps can still both fire, the
// sweep interval keeps the collision window small.
type Scheduler struct {
	transactions ports.TransactionRepository
	rules        ports.RuleRepository
	executions   ports.ExecutionRepository
	executor     *Executor
	evaluator    *Evaluator
	log          logger.Logger
}

// NewScheduler creates a sweep scheduler. The evaluator runs with the wider
// sweep tolerance so a time_based rule is not missed between ticks.
func NewScheduler(
	transactions ports.TransactionRepository,
	rules ports.RuleRepository,
	executions ports.ExecutionRepository,
	executor *Executor,
	log logger.Logger,
) *Scheduler {
	return &Scheduler{
		transactions: transactions,
		rules:        rules,
		executions:   executions,
		executor:     executor,
		evaluator:    &Evaluator{Tolerance: SweepTimeTolerance},
		log:          log,
	}
}

// Run sweeps on the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info(ctx, "automation scheduler started", map[string]interface{}{
		"interval": interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.log.Info(ctx, "automation scheduler stopped", nil)
			return
		case now := <-ticker.C:
			fired, err := s.Sweep(ctx, now)
			if err != nil {
				s.log.Error(ctx, "automation sweep failed", err, nil)
				continue
			}
			s.log.Info(ctx, "automation sweep finished", map[string]interface{}{
				"fired": fired,
			})
		}
	}
}

// Sweep evaluates every open transaction against every active date/time rule
// at instant now and fires each qualifying pair at most once per calendar
// day. An error on one pair is logged and the sweep continues; only failures
// to load the rule or transaction sets abort the sweep.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) (int, error) {
	var rules []*domain.AutomationRule
	for _, event := range []domain.TriggerEvent{domain.TriggerEventDateBased, domain.TriggerEventTimeBased} {
		batch, err := s.rules.ListActiveByEvent(ctx, event)
		if err != nil {
			return 0, fmt.Errorf("failed to load %s rules: %w", event, err)
		}
		rules = append(rules, batch...)
	}
	if len(rules) == 0 {
		return 0, nil
	}

	txns, err := s.transactions.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load open transactions: %w", err)
	}

	fired := 0
	for _, txn := range txns {
		for _, rule := range rules {
			if s.sweepPair(ctx, rule, txn, now) {
				fired++
			}
		}
	}
	return fired, nil
}

// sweepPair evaluates and possibly fires a single rule/transaction pair,
// reporting whether it fired.
func (s *Scheduler) sweepPair(ctx context.Context, rule *domain.AutomationRule, txn *domain.Transaction, now time.Time) bool {
	ok, err := s.evaluator.Evaluate(rule.Condition, TriggerContext{Transaction: txn}, now)
	if err != nil {
		s.log.Warn(ctx, "sweep evaluation failed, skipping pair", map[string]interface{}{
			"rule_id":        rule.ID,
			"transaction_id": txn.ID,
			"error":          err.Error(),
		})
		return false
	}
	if !ok {
		return false
	}

	exists, err := s.executions.ExistsForDay(ctx, rule.ID, txn.ID, now)
	if err != nil {
		s.log.Error(ctx, "same-day execution check failed, skipping pair", err, map[string]interface{}{
			"rule_id":        rule.ID,
			"transaction_id": txn.ID,
		})
		return false
	}
	if exists {
		return false
	}

	if _, err := s.executor.Execute(ctx, rule, txn); err != nil {
		s.log.Error(ctx, "sweep execution failed", err, map[string]interface{}{
			"rule_id":        rule.ID,
			"transaction_id": txn.ID,
		})
		return false
	}
	return true
}
