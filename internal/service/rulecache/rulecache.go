package rulecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dealdesk/dealdesk/internal/domain"
	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// CachedRuleRepository decorates a rule repository with a redis
// read-through cache on the hot automation paths. Cache failures fall
// through to the underlying store, writes invalidate.
type CachedRuleRepository struct {
	inner  ports.RuleRepository
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// New wraps a rule repository with a redis cache
func New(inner ports.RuleRepository, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedRuleRepository {
	return &CachedRuleRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func eventKey(event domain.TriggerEvent) string {
	return fmt.Sprintf("rules:active:%s", event)
}

// ListActiveByEvent retrieves active rules for a trigger event kind,
// serving from cache when a fresh entry exists
func (r *CachedRuleRepository) ListActiveByEvent(ctx context.Context, event domain.TriggerEvent) ([]*domain.AutomationRule, error) {
	key := eventKey(event)

	cached, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var rules []*domain.AutomationRule
		if err := json.Unmarshal(cached, &rules); err == nil {
			return rules, nil
		}
		// Unreadable entry, drop it and reload
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.log.Warn(ctx, "rule cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	rules, err := r.inner.ListActiveByEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rules); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.log.Warn(ctx, "rule cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return rules, nil
}

// Create saves a new automation rule
func (r *CachedRuleRepository) Create(ctx context.Context, rule *domain.AutomationRule) error {
	if err := r.inner.Create(ctx, rule); err != nil {
		return err
	}
	r.invalidate(ctx, rule.TriggerEvent)
	return nil
}

// FindByID retrieves a rule by its ID
func (r *CachedRuleRepository) FindByID(ctx context.Context, id string) (*domain.AutomationRule, error) {
	return r.inner.FindByID(ctx, id)
}

// Update updates an existing rule
func (r *CachedRuleRepository) Update(ctx context.Context, rule *domain.AutomationRule) error {
	if err := r.inner.Update(ctx, rule); err != nil {
		return err
	}
	r.invalidate(ctx, rule.TriggerEvent)
	return nil
}

// Delete removes a rule
func (r *CachedRuleRepository) Delete(ctx context.Context, id string) error {
	rule, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, rule.TriggerEvent)
	return nil
}

// List retrieves rules based on filter criteria
func (r *CachedRuleRepository) List(ctx context.Context, filter domain.RuleFilter) ([]*domain.AutomationRule, error) {
	return r.inner.List(ctx, filter)
}

func (r *CachedRuleRepository) invalidate(ctx context.Context, event domain.TriggerEvent) {
	if err := r.client.Del(ctx, eventKey(event)).Err(); err != nil {
		r.log.Warn(ctx, "rule cache invalidation failed", map[string]interface{}{
			"event": string(event),
			"error": err.Error(),
		})
	}
}
