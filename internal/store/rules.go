package store

import (
	"context"
	"sort"

	"github.com/storyloop/storyloop-server/internal/classify"
	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/id"
)

// ListKeywordRules returns all bin keyword rules in table order.
func (s *Store) ListKeywordRules(ctx context.Context) ([]domain.KeywordRule, error) {
	var rules []domain.KeywordRule
	for r, err := range s.KeywordRules.List(ctx) {
		if err != nil {
			return nil, err
		}
		rules = append(rules, *r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Position < rules[j].Position })
	return rules, nil
}

// ListTopicRules returns all topic rules in table order.
func (s *Store) ListTopicRules(ctx context.Context) ([]domain.TopicRule, error) {
	var rules []domain.TopicRule
	for r, err := range s.TopicRules.List(ctx) {
		if err != nil {
			return nil, err
		}
		rules = append(rules, *r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Position < rules[j].Position })
	return rules, nil
}

// ListOverrides returns all override rules, oldest first.
func (s *Store) ListOverrides(ctx context.Context) ([]domain.Override, error) {
	var overrides []domain.Override
	for o, err := range s.Overrides.List(ctx) {
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, *o)
	}
	sort.Slice(overrides, func(i, j int) bool {
		return overrides[i].CreatedAt.Before(overrides[j].CreatedAt)
	})
	return overrides, nil
}

// SeedDefaultRules installs the built-in rule tables on first boot. A store
// that already has keyword rules is left untouched so operator edits survive
// restarts.
func (s *Store) SeedDefaultRules(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := s.ListKeywordRules(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	for _, rule := range classify.DefaultKeywordRules() {
		ruleID, err := id.Generate("rule")
		if err != nil {
			return err
		}
		rule.ID = ruleID
		rule.InitTimestamps()
		if err := s.KeywordRules.Create(ctx, ruleID, &rule); err != nil {
			return err
		}
	}

	for _, rule := range classify.DefaultTopicRules() {
		ruleID, err := id.Generate("rule")
		if err != nil {
			return err
		}
		rule.ID = ruleID
		rule.InitTimestamps()
		if err := s.TopicRules.Create(ctx, ruleID, &rule); err != nil {
			return err
		}
	}

	for _, override := range classify.DefaultOverrides() {
		overrideID, err := id.Generate("ovr")
		if err != nil {
			return err
		}
		override.ID = overrideID
		override.InitTimestamps()
		if err := s.Overrides.Create(ctx, overrideID, &override); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded default rule tables")
	}
	return nil
}
